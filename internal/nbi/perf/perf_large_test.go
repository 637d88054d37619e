//go:build perf_large

package perf

import "testing"

var largeConfig = perfConfig{
	ProfilePoints: 5000,
	Requests:      1000,
}

func BenchmarkPointToPointLarge(b *testing.B) {
	benchmarkPointToPoint(b, largeConfig)
}

func BenchmarkAreaLarge(b *testing.B) {
	benchmarkArea(b, largeConfig)
}
