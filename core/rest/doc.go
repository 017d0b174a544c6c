// Package rest is the small JSON-over-HTTP transport shared by the calendar
// and homepage clients.
//
// A Client is bound to one remote system and base URL. Every non-expected
// status is returned as a *RemoteError carrying the system, method, endpoint
// and status so callers can log it with event context:
//
//	c := rest.New("churchtools", "https://example.church.tools/api",
//	    rest.WithHeader("Authorization", "Login "+token))
//	var out struct{ Data []Event `json:"data"` }
//	err := c.Do(ctx, rest.Request{Method: http.MethodGet, Path: "/events"}, &out)
package rest
