// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer DebateMeshLogger with contextual
// helpers (run, step, component) and domain specific logging helpers for
// worker calls, routing decisions and step execution.
package logging
