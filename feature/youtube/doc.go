// Package youtube is the broadcast platform side of the sync.
//
// Client implements reconcile.BroadcastPlatform with the YouTube Data API
// v3 live broadcast endpoints. API failures are returned as
// *rest.RemoteError so the run loop reports them like any other remote
// call.
//
// # Authorization
//
// The API is used with a user OAuth token. The Authorizer runs the
// consent flow once: it prints the consent URL, receives the redirect on a
// local Fiber listener, checks the CSRF state and stores the token in the
// credentials file. HTTPClient loads that token for later runs and writes
// it back whenever it is refreshed.
package youtube
