package httpmetrics

import "testing"

func TestNormalizePathKeepsServedRoutes(t *testing.T) {
	for _, path := range []string{"/api/op", "/api/feed/ws", "/health", "/metrics"} {
		if got := NormalizePath(path); got != path {
			t.Errorf("NormalizePath(%q) = %q, want unchanged", path, got)
		}
	}
}

func TestNormalizePathCollapsesArbitraryPaths(t *testing.T) {
	// Requests to unserved paths must all share one label value, or any
	// client could grow the metric label space without bound.
	paths := []string{"", "/", "/a", "/b", "/api/op/extra", "/..%2f..%2fetc", "/probe-12345"}
	for _, path := range paths {
		if got := NormalizePath(path); got != unknownPathLabel {
			t.Errorf("NormalizePath(%q) = %q, want %q", path, got, unknownPathLabel)
		}
	}
}
