//go:build !debug

package debug

// Debug is false in release builds.
const Debug = false
