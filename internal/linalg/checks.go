//go:build !nolinalgchecks

package linalg

// checks enables argument and shape validation in every kernel.
const checks = true
