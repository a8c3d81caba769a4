package analysis

import "math"

// ShannonIndex computes the Shannon diversity index H = -sum(p*ln(p))
// over label frequencies. An empty multiset and a single repeated label
// both yield exactly 0.
func ShannonIndex(labels []string) float64 {
	if len(labels) == 0 {
		return 0.0
	}

	counts := make(map[string]int, len(labels))
	for _, l := range labels {
		counts[l]++
	}

	total := float64(len(labels))
	h := 0.0
	for _, c := range counts {
		p := float64(c) / total
		if p > 0 {
			h -= p * math.Log(p)
		}
	}
	return h
}

// UniqueCount returns the cardinality of the label set.
func UniqueCount(labels []string) int {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}
