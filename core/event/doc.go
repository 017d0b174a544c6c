// Package event holds the domain model shared by every part of livestream-sync.
//
// An Event is built fresh on each run from the calendar system: its schedule,
// descriptive fields, the attachments this tool manages (stream link, post link,
// thumbnail override) and a FactSet derived from the event's raw facts by
// Interpret. The broadcast platform's state is attached later as a Broadcast
// snapshot by the reconcile package.
//
// # Facts
//
// Facts are free-form attribute/value pairs in the calendar system. FactsConfig
// names the facts and the values that carry meaning:
//
//	facts:
//	  behavior:   {name: "Livestream", yes_value: "Ja", no_value: "Nein", ignore_value: "Ignorieren", default: "Nein"}
//	  visibility: {name: "Sichtbarkeit", visible_value: "öffentlich", unlisted_value: "nicht gelistet", private_value: "privat", default: "öffentlich"}
//
// Behavior and boolean facts always resolve. A visibility value outside the
// three configured values is a ConfigError, never a silent "private".
//
// # Snapshots and patches
//
// Broadcast and Post are immutable snapshots of remote state. Partial updates
// are expressed as BroadcastPatch / PostPatch (nil fields are untouched) and
// applied to a snapshot with Apply, which returns a new value.
package event
