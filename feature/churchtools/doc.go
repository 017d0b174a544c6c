// Package churchtools is the calendar side of the sync: it loads events,
// their facts and attachments from a ChurchTools instance and writes stream
// links and posts back.
//
// The client implements reconcile.EventSource and reconcile.Calendar on top
// of core/rest. Fact and service master data is fetched once per client and
// shared between callers.
//
// # Endpoints
//
//   - GET /events, GET /events/:id/facts, GET /facts, GET /services
//   - POST /files/service/:id/link, DELETE /files/:id
//   - POST /posts, GET|PATCH|DELETE /posts/:id
package churchtools
