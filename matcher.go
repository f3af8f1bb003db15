package domlocate

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/domlocate/domlocate/internal/composite"
	"github.com/domlocate/domlocate/internal/debug"
	"github.com/domlocate/domlocate/internal/legacy"
	"github.com/domlocate/domlocate/internal/resultcache"
	"github.com/domlocate/domlocate/internal/textscore"
	"github.com/domlocate/domlocate/internal/types"
	"github.com/domlocate/domlocate/internal/visual"
	"github.com/domlocate/domlocate/judge"
)

const (
	// maxRegisteredTextRunes caps text fields at registration so oversized
	// text nodes cannot bloat the registry or the judgment payloads.
	maxRegisteredTextRunes = 200

	// defaultMaxResults applies when a caller passes maxResults <= 0.
	defaultMaxResults = 10

	// judgeScanFactor lowers the rank threshold during the scan so borderline
	// candidates stay visible to the judgment service; the configured
	// threshold is re-applied before results are returned.
	judgeScanFactor = 0.8

	// roleConfidence is the fixed confidence of an unhinted role lookup.
	roleConfidence = 0.8
)

// MatcherStats is a point-in-time snapshot of engine counters.
type MatcherStats struct {
	Sessions      int
	Elements      int
	CacheHits     int64
	CacheMisses   int64
	JudgeCalls    int64
	JudgeAccepted int64
}

// Option configures a Matcher at construction.
type Option func(*Matcher)

// WithJudge injects the judgment service consulted on ambiguous rankings.
// Without it the Noop service is used and rankings stay fully deterministic.
func WithJudge(svc judge.Service) Option {
	return func(m *Matcher) {
		if svc != nil {
			m.judgeSvc = svc
		}
	}
}

// WithDebugWriter routes diagnostic logging to w. Logging still requires
// debug mode to be enabled.
func WithDebugWriter(w io.Writer) Option {
	return func(m *Matcher) {
		debug.SetOutput(w)
	}
}

// Matcher is the engine facade: a per-session element registry, a result
// cache, the scoring pipeline, and the judgment-service escalation path.
// All methods are safe for concurrent use. The single mutex guards the
// registry and config; scoring runs on a copied snapshot outside the lock,
// and the lock is never held across a judgment call.
type Matcher struct {
	mu       sync.Mutex
	cfg      Config
	registry map[string][]types.ElementDescriptor

	cache    *resultcache.Cache
	scorer   *composite.Scorer
	fallback *legacy.Scorer
	text     *textscore.Scorer
	judgeSvc judge.Service

	judgeCalls    atomic.Int64
	judgeAccepted atomic.Int64
}

// New creates a Matcher from a validated config.
func New(cfg Config, opts ...Option) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Matcher{
		cfg:      cfg,
		registry: make(map[string][]types.ElementDescriptor),
		cache:    resultcache.New(),
		scorer: composite.New(composite.Config{
			CalibrationSlope:  cfg.CalibrationSlope,
			CalibrationOffset: cfg.CalibrationOffset,
			PrimaryBandTop:    cfg.PrimaryBandTop,
			PrimaryBandBottom: cfg.PrimaryBandBottom,
			CenterBandLeft:    cfg.CenterBandLeft,
			CenterBandRight:   cfg.CenterBandRight,
			MaxWorkers:        cfg.MaxScoreWorkers,
			Visual: visual.Config{
				SidebarMarginRatio: cfg.SidebarMarginRatio,
				HeaderBandRatio:    cfg.HeaderBandRatio,
				FooterBandRatio:    cfg.FooterBandRatio,
			},
		}),
		fallback: legacy.New(),
		text:     textscore.New(),
		judgeSvc: judge.Noop{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Register adds one scanned element to a session's registry, inferring its
// role and normalizing its fields. Re-registering an element with the same
// selector and fingerprint overwrites it in place. Any registration
// invalidates the session's cached results.
func (m *Matcher) Register(sessionID string, d ElementDescriptor) {
	d.TagName = strings.ToLower(strings.TrimSpace(d.TagName))
	d.InputType = strings.ToLower(strings.TrimSpace(d.InputType))
	d.Text = types.TruncateText(d.Text, maxRegisteredTextRunes)
	d.NearbyText = types.TruncateText(d.NearbyText, maxRegisteredTextRunes)
	// Scanners often omit opacity; a visible element defaults to opaque.
	if d.Opacity == 0 && d.Visible {
		d.Opacity = 1
	}
	if d.Role == "" {
		d.Role = inferRole(d, m.text)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.registry[sessionID]
	fp := d.Fingerprint()
	for i := range list {
		if list[i].Selector == d.Selector && list[i].Fingerprint() == fp {
			list[i] = d
			m.cache.InvalidateSession(sessionID)
			debug.LogRegistry("session=%s updated %s", sessionID, d.String())
			return
		}
	}
	m.registry[sessionID] = append(list, d)
	m.cache.InvalidateSession(sessionID)
	debug.LogRegistry("session=%s registered %s (%d total)", sessionID, d.String(), len(list)+1)
}

// ClearSession drops a session's registry and every cached result for it.
func (m *Matcher) ClearSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.registry, sessionID)
	m.cache.InvalidateSession(sessionID)
	debug.LogRegistry("session=%s cleared", sessionID)
}

// Reset wipes every session and the whole result cache.
func (m *Matcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry = make(map[string][]types.ElementDescriptor)
	m.cache.Clear()
	debug.LogRegistry("reset")
}

// Resolve ranks a session's elements against a natural-language description
// and returns at most maxResults matches at or above the configured score
// threshold, best first. Ambiguous rankings are escalated to the judgment
// service; on any service failure the deterministic ranking stands. Unknown
// sessions and empty descriptions yield an empty result, never an error.
func (m *Matcher) Resolve(ctx context.Context, sessionID, description string, maxResults int) []ElementMatch {
	normalized := textscore.Normalize(description)
	if normalized == "" {
		return nil
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	m.mu.Lock()
	cfg := m.cfg
	svc := m.judgeSvc
	list := m.registry[sessionID]
	elements := make([]types.ElementDescriptor, len(list))
	copy(elements, list)
	m.mu.Unlock()

	if len(elements) == 0 {
		return nil
	}

	key := resultcache.Key(normalized)
	if cfg.CacheEnabled {
		if cached, ok := m.cache.Get(sessionID, key, cfg.CacheTTL, len(elements), time.Now()); ok {
			debug.LogCache("hit session=%s query=%q", sessionID, normalized)
			if len(cached) > maxResults {
				cached = cached[:maxResults]
			}
			return cached
		}
		debug.LogCache("miss session=%s query=%q", sessionID, normalized)
	}

	var matches []types.ElementMatch
	if cfg.EnhancedScoring {
		// Rank below the configured threshold so borderline candidates stay
		// visible to the judgment step; the real threshold applies below.
		scanThreshold := cfg.ScoreThreshold * judgeScanFactor
		matches = m.scorer.Rank(elements, description, scanThreshold, 2*maxResults, cfg.ViewportWidth, cfg.ViewportHeight)
		if len(matches) >= 2 {
			matches = m.disambiguate(ctx, cfg, svc, description, matches)
		}
	} else {
		matches = m.fallback.Rank(elements, description, cfg.ScoreThreshold, maxResults)
	}
	if len(matches) == 0 {
		return nil
	}

	final := matches[:0]
	for _, match := range matches {
		if match.Confidence >= cfg.ScoreThreshold {
			final = append(final, match)
		}
	}
	if len(final) == 0 {
		return nil
	}

	if cfg.CacheEnabled {
		m.cache.Put(sessionID, key, final, len(elements), time.Now())
	}
	if len(final) > maxResults {
		final = final[:maxResults]
	}
	out := make([]ElementMatch, len(final))
	copy(out, final)
	debug.LogResolve("session=%s query=%q results=%d top=%.3f", sessionID, normalized, len(out), out[0].Confidence)
	return out
}

// disambiguate escalates an ambiguous ranking to the judgment service. A
// valid selection is promoted to the front with the sentinel confidence; any
// failure leaves the deterministic ranking untouched.
func (m *Matcher) disambiguate(ctx context.Context, cfg Config, svc judge.Service, description string, matches []types.ElementMatch) []types.ElementMatch {
	if !composite.IsAmbiguous(matches, cfg.AmbiguityGap) || matches[0].Confidence >= cfg.HighConfidence {
		return matches
	}

	n := cfg.MaxJudgeCandidates
	if n > len(matches) {
		n = len(matches)
	}
	elements := make([]types.ElementDescriptor, n)
	for i := 0; i < n; i++ {
		elements[i] = matches[i].Element
	}

	m.judgeCalls.Add(1)
	jctx, cancel := context.WithTimeout(ctx, cfg.JudgeTimeout)
	defer cancel()
	resp, err := svc.Choose(jctx, judge.Request{
		Query:      description,
		Candidates: judge.FormatCandidates(elements),
	})
	if err != nil {
		debug.LogJudge("degraded to deterministic ranking: %v", err)
		return matches
	}
	if !judge.ValidIndex(resp.Index, n) {
		debug.LogJudge("no selection (index=%d)", resp.Index)
		return matches
	}
	m.judgeAccepted.Add(1)
	debug.LogJudge("selected candidate %d: %s", resp.Index, resp.Reasoning)

	chosen := matches[resp.Index]
	chosen.Confidence = types.JudgeConfidence
	chosen.SelectedByJudge = true
	if resp.Reasoning != "" {
		chosen.Reason = "judge: " + resp.Reasoning
	} else {
		chosen.Reason = "judge selection"
	}

	out := make([]types.ElementMatch, 0, len(matches))
	out = append(out, chosen)
	for i, match := range matches {
		if i != resp.Index {
			out = append(out, match)
		}
	}
	return out
}

// ResolveByRole returns a session's visible elements carrying the given
// inferred role. Without a text hint each match has a fixed confidence; with
// one, confidence is the fuzzy match of the hint against the element's text
// and placeholder, sorted best first.
func (m *Matcher) ResolveByRole(sessionID, role, textHint string) []ElementMatch {
	m.mu.Lock()
	list := m.registry[sessionID]
	elements := make([]types.ElementDescriptor, len(list))
	copy(elements, list)
	m.mu.Unlock()

	hinted := textscore.Normalize(textHint) != ""
	var matches []types.ElementMatch
	for _, el := range elements {
		if el.Role != role || !el.Visible {
			continue
		}
		confidence := roleConfidence
		reason := "role match: " + role
		if hinted {
			confidence = m.text.BestMatch(textHint, []string{el.Text, el.Placeholder})
			reason = fmt.Sprintf("role match: %s, hint score=%.2f", role, confidence)
		}
		matches = append(matches, types.ElementMatch{
			Element:    el,
			Confidence: confidence,
			Reason:     reason,
		})
	}
	if hinted {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Confidence > matches[j].Confidence
		})
	}
	return matches
}

// SetCacheEnabled toggles the result cache; disabling drops all entries.
func (m *Matcher) SetCacheEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.CacheEnabled = enabled
	if !enabled {
		m.cache.Clear()
	}
}

// SetCacheTTL changes the lifetime of cached results. Non-positive values
// are ignored.
func (m *Matcher) SetCacheTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.CacheTTL = ttl
}

// SetViewportDimensions updates the page dimensions used by visual scoring.
// Non-positive dimensions are ignored.
func (m *Matcher) SetViewportDimensions(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.ViewportWidth = float64(width)
	m.cfg.ViewportHeight = float64(height)
	m.cache.Clear()
}

// SetEnhancedScoring switches between the multi-signal scorer and the
// single-pass keyword scorer. The cache is cleared because the two produce
// different confidences for the same query.
func (m *Matcher) SetEnhancedScoring(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.EnhancedScoring != enabled {
		m.cache.Clear()
	}
	m.cfg.EnhancedScoring = enabled
}

// SetJudge replaces the judgment service. Passing nil restores the Noop
// service.
func (m *Matcher) SetJudge(svc judge.Service) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if svc == nil {
		svc = judge.Noop{}
	}
	m.judgeSvc = svc
}

// Stats returns a snapshot of engine counters.
func (m *Matcher) Stats() MatcherStats {
	m.mu.Lock()
	sessions := len(m.registry)
	elementCount := 0
	for _, list := range m.registry {
		elementCount += len(list)
	}
	m.mu.Unlock()
	return MatcherStats{
		Sessions:      sessions,
		Elements:      elementCount,
		CacheHits:     m.cache.Hits(),
		CacheMisses:   m.cache.Misses(),
		JudgeCalls:    m.judgeCalls.Load(),
		JudgeAccepted: m.judgeAccepted.Load(),
	}
}
