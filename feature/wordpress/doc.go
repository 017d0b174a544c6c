// Package wordpress reads and writes pages of a WordPress site through the
// REST API, authenticated with an application password.
package wordpress
