package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"livestream-sync/core/server"
	"livestream-sync/feature/youtube"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// authorizeCmd runs the OAuth consent flow for the YouTube channel.
var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Authorize access to the YouTube channel",
	Long: `Starts a local listener for the OAuth redirect, prints the consent URL and
stores the issued credentials once the redirect arrives.

The redirect URL of the OAuth client must point to this listener
(youtube.redirect_url, default http://localhost:8080/oauth2callback).`,
	RunE: runAuthorize,
}

func init() {
	RootCmd.AddCommand(authorizeCmd)
}

func runAuthorize(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	conf, err := youtube.OAuthConfig(cfg.YouTube)
	if err != nil {
		return err
	}
	tokens := youtube.TokenFile{Path: cfg.YouTube.CredentialsFile}
	auth := youtube.NewAuthorizer(conf, tokens, l)

	app := server.New(l)
	auth.Register(app)

	srvCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.Run(srvCtx, app, cfg.Server.Addr(), l)
		// stop waiting if the listener could not start
		cancel()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Open this URL in your browser to authorize access:\n\n%s\n\n", auth.URL())

	_, err = auth.Wait(srvCtx)
	cancel()
	if listenErr := <-srvErr; listenErr != nil {
		if err != nil {
			return fmt.Errorf("listener on %s: %w", cfg.Server.Addr(), listenErr)
		}
		l.Warn("Listener stopped with error", zap.Error(listenErr))
	}
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	l.Info("Authorization complete", zap.String("credentials", tokens.Path))
	return nil
}
