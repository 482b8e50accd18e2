//go:build debug
// +build debug

package tag

// Debug marks builds made with `-tags debug`. Such builds run extra
// invariant checks with large performance overhead.
const Debug = true
