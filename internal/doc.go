// Package internal contains helper utilities that are intentionally
// private to authlink, including secure challenge token generation.
//
// # Sub-packages
//
//   - audit — async event dispatch (Dispatcher + Sink implementations)
//   - metrics — lock-free counters for engine operations
//
// # What this package must NOT do
//
//   - Export types that appear in the public authlink API.
//   - Be imported by any package outside the authlink module.
package internal
