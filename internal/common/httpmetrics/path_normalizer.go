package httpmetrics

// The path label must stay low-cardinality: this middleware sits in front
// of routing, so r.URL.Path is whatever a client sent. Only the served
// routes keep their own label; everything else shares one.

const unknownPathLabel = "other"

var knownPaths = map[string]struct{}{
	"/api/op":      {},
	"/api/feed/ws": {},
	"/health":      {},
	"/metrics":     {},
}

func NormalizePath(path string) string {
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return unknownPathLabel
}
