//go:build race
// +build race

package tag

// Race reports whether the binary was built with the race detector.
const Race = true
