// Package script generates UGC video scripts from fixed templates by literal
// placeholder substitution. There is no model call behind it; the engine is
// deterministic and only simulates latency.
package script
