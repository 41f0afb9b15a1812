//go:build spheresdebug

package physics

const debugAssertions = true
