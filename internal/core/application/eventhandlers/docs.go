// Package eventhandlers contains the broker consumers of the pipeline: fan-out
// of notifications to recipients, the settlement trigger and the search index
// sync. Delivery is at-least-once, so every handler is written to tolerate
// redelivered envelopes; the settlement handler additionally dedupes so each
// completed order settles exactly once.
package eventhandlers
