// Package inference manages the lifecycle of per-skill inference
// sessions: lazy exactly-once creation, a process-wide idle switch
// that short-circuits execution to zero outputs, and per-key
// connection state for logical device links.
//
// The hub never performs network I/O itself; the Backend interface is
// the seam where the vendor inference engine plugs in.
package inference
