//go:build debug

package grid

// Built with -tags debug: every SetSentiment re-verifies the touched counters.
const debugChecks = true
