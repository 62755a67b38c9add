// Package transport provides host channel implementations.
//
// Stdio exchanges newline-delimited JSON with the parent process over a
// reader/writer pair, normally the child's stdin and stdout. Pipe connects a
// guest and an in-process host through channels, which is how hosts embed
// guests in the same process and how tests drive the client.
package transport
