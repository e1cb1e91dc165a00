// Package features maps skill payloads to fixed-width numeric feature
// vectors.
//
// Each domain builder extracts an ordered list of signals from the
// payload: numeric fields read directly, booleans as {0,1}, free text
// reduced to lexical statistics, and missing fields as 0. The output
// vector is always exactly the requested width: excess signals fold
// into earlier slots, missing ones zero-pad. Builders are pure; the
// same payload and width always produce the same vector.
package features
