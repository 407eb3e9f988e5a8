// ABOUTME: Main cyclegc package providing version information and package documentation
// ABOUTME: This is the root package for the concurrent cycle collector

// Package cyclegc provides a concurrent mark-sweep garbage collector for
// application object graphs with cycles. Mutator goroutines manipulate Root
// and Edge handles, which enqueue graph-change events onto a lock-free
// queue; a collector goroutine replays those events into a mirrored graph
// and periodically traces from the roots, reclaiming unreachable objects.
package cyclegc

// Version is the semantic version of the cyclegc module
const Version = "0.1.0-dev"
