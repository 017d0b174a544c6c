// Package reconcile brings the remote live-stream presence of every calendar
// event in line with the event's facts.
//
// # Architecture
//
// The package consists of four parts:
//
// 1. Ports: the interfaces of the calendar system, the broadcast platform and
// the thumbnail cache the engine talks to (see adapter.go). Feature packages
// implement them; tests use the mocks package.
//
// 2. Matcher: MatchBroadcast attaches the remote broadcast an event's stream
// link points at, searching the pre-fetched active/upcoming list before a
// single point lookup.
//
// 3. Engine: the per-event decision procedure. It creates, updates or deletes
// the broadcast, the stream link and the post, sending only differing fields
// on updates so a repeated run with unchanged state performs no writes.
//
// 4. Runner: the batch loop. It fetches and interprets events, reconciles
// them one at a time in fetch order and tracks Stats. A failed event is
// logged and counted; it does not abort the batch.
//
// # Dry run
//
// With Options.DryRun the engine records every Action it would take in the
// Outcome without calling any mutating endpoint.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(ct, yt, cache, loader, renderer, opts, logger)
//	runner := reconcile.NewRunner(ct, yt, engine, factsCfg, logger)
//	report, err := runner.Run(ctx)
package reconcile
