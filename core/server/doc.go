// Package server builds the local HTTP listeners of the tool.
//
// The only listener today is the OAuth redirect endpoint started by the
// authorize command. New returns a Fiber app with request ids and request
// logging already installed; Run serves it until the context is done.
//
// # Configuration
//
// Config defines the bind host and port.
package server
