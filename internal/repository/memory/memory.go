// Package memory implements the repository interfaces on plain maps guarded
// by mutexes. It backs the self-contained deployment mode and the test
// suites; semantics (nil on missing, guarded invite increment, idempotent
// membership) mirror the postgres implementations.
package memory
