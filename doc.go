// Package domlocate resolves natural-language descriptions ("the search
// button", "I agree checkbox") to concrete, currently-rendered page elements
// for browser-automation agents.
//
// An upstream scanner registers ElementDescriptor records into a per-session
// registry; callers then Resolve descriptions against it. Resolution fuses
// four independent signal scorers (text similarity, visual proximity,
// contextual relevance, element type) under query-adaptive weights, calibrates
// the fused score, caches ranked results, and consults an injectable external
// judgment service only when the deterministic ranking is ambiguous. Every
// failure mode degrades: unknown sessions and empty queries yield empty
// results, and judgment-service errors fall back to the deterministic
// ranking. The engine never panics on malformed input.
package domlocate
