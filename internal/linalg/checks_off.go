//go:build nolinalgchecks

package linalg

const checks = false
