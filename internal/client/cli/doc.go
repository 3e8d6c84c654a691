// Package cli implements the interactive Quill client: a small REPL over
// the session manager, with commands for browsing posts, the author
// dashboard, and real-time notifications.
//
// The REPL itself (runREPL) is decoupled from App through execIface so the
// command dispatch can be tested with a stub. Interactive input goes through
// the seams in input.go; user-facing output goes through printlnFn/printfFn.
package cli
