// Package layers holds identifiers shared by the instrumentation layers
// that wrap command buffer and queue interfaces.
//
// Each call identifier has exactly one display name. The name tables are
// process-wide constant data; their lengths are checked against the
// identifier counts at compile time.
package layers
