// Package telemetry records sampled runtime events to durable storage.
//
// Every record call resolves a retention rate from the event's
// category (the leading segment of its name), draws against it, and
// appends one JSON-serializable record when retained. Appends are
// serialized per store so concurrent skill executions cannot
// interleave-corrupt the log.
package telemetry
