// Package types defines the shared value, error, and result types used
// across the skill runtime.
//
// Payloads from the companion app arrive as heterogeneous key/value maps.
// Instead of passing untyped any values around, the runtime models each
// payload entry as a tagged-union Value (Number | Text | Bool | TextList)
// so feature builders can read fields defensively without unchecked casts.
package types
