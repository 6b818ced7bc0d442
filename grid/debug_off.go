//go:build !debug

package grid

const debugChecks = false
