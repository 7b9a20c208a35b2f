package cache

import "time"

// Default TTLs per entry class. Analysis results and artifacts are both
// content-addressed, so expiry exists to bound store growth rather than
// to invalidate stale data.
const (
	TTLAnalysis = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Key builders for the two content-addressed stores: network analysis
// results and rendered artifacts. Keys are derived from a hash of the
// serialized network, so a changed network never hits a stale entry.

// AnalysisKey generates a key for cached analysis results.
func AnalysisKey(networkHash string) string {
	return hashKey("analysis", networkHash)
}

// RenderKey generates a key for cached rendered artifacts.
// Format distinguishes dot from svg output; detailed and horizontal are
// the render options that change the artifact.
func RenderKey(networkHash, format string, detailed, horizontal bool) string {
	return hashKey("render", networkHash, format, detailed, horizontal)
}

// ShapeKey generates a key for cached shape-inference results over a raw
// data payload.
func ShapeKey(payloadHash string) string {
	return hashKey("shape", payloadHash)
}

// Scoped prefixes every key from a builder function, isolating cache
// namespaces between contexts sharing one backend.
func Scoped(prefix, key string) string {
	return prefix + key
}
