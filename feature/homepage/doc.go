// Package homepage keeps the live-stream listing on the homepage in sync.
//
// Events marked for the homepage are rendered through per-page templates
// and merged into a delimited region of each configured page. Everything
// outside the region is left byte-for-byte intact.
//
// # Region formats
//
//   - Tag mode: the region sits between <!-- tag --> and <!-- /tag -->.
//   - Bakery mode: the region is the payload of a WPBakery raw HTML block,
//     [vc_raw_html el_class="tag"]...[/vc_raw_html], stored as base64 of the
//     percent-encoded content.
//
// Pages whose body does not change are not written.
package homepage
