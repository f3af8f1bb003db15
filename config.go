package domlocate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// Config tunes the resolution engine. The zero value is not usable; start
// from DefaultConfig and override fields, or load a .domlocate.kdl file.
type Config struct {
	// ScoreThreshold is the minimum calibrated confidence a match must reach
	// to be returned. Matches below it are dropped, never surfaced.
	ScoreThreshold float64

	// AmbiguityGap is the top-two confidence gap below which the ranking is
	// considered ambiguous and the judgment service may be consulted.
	AmbiguityGap float64

	// HighConfidence is the top score at or above which the engine trusts
	// the deterministic ranking and skips the judgment service even when
	// the gap is ambiguous.
	HighConfidence float64

	// MaxJudgeCandidates bounds how many top matches are serialized into a
	// judgment request.
	MaxJudgeCandidates int

	// CacheEnabled toggles the per-session result cache.
	CacheEnabled bool

	// CacheTTL bounds the lifetime of a cached result list.
	CacheTTL time.Duration

	// ViewportWidth and ViewportHeight give the page dimensions used by the
	// visual proximity scorer and the positional tie-breaks.
	ViewportWidth  float64
	ViewportHeight float64

	// CalibrationSlope and CalibrationOffset parameterize the logistic
	// confidence calibration.
	CalibrationSlope  float64
	CalibrationOffset float64

	// Layout band ratios consumed by the visual scorer and tie-breaks.
	SidebarMarginRatio float64
	HeaderBandRatio    float64
	FooterBandRatio    float64
	PrimaryBandTop     float64
	PrimaryBandBottom  float64
	CenterBandLeft     float64
	CenterBandRight    float64

	// MaxScoreWorkers bounds parallel candidate scoring; 0 means NumCPU.
	MaxScoreWorkers int

	// EnhancedScoring selects the multi-signal composite scorer; when false
	// the engine runs the single-pass keyword scorer instead.
	EnhancedScoring bool

	// JudgeTimeout bounds a single judgment-service call.
	JudgeTimeout time.Duration
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		ScoreThreshold:     0.3,
		AmbiguityGap:       0.05,
		HighConfidence:     0.6,
		MaxJudgeCandidates: 5,
		CacheEnabled:       true,
		CacheTTL:           30 * time.Second,
		ViewportWidth:      1280,
		ViewportHeight:     720,
		CalibrationSlope:   8.0,
		CalibrationOffset:  0.35,
		SidebarMarginRatio: 0.15,
		HeaderBandRatio:    0.10,
		FooterBandRatio:    0.10,
		PrimaryBandTop:     0.15,
		PrimaryBandBottom:  0.85,
		CenterBandLeft:     0.25,
		CenterBandRight:    0.75,
		EnhancedScoring:    true,
		JudgeTimeout:       5 * time.Second,
	}
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Validate checks field ranges. It returns the first violation found.
func (c Config) Validate() error {
	ratio01 := func(field string, v float64) *ConfigError {
		if v < 0 || v > 1 {
			return &ConfigError{Field: field, Reason: fmt.Sprintf("must be in [0,1], got %v", v)}
		}
		return nil
	}
	if err := ratio01("score_threshold", c.ScoreThreshold); err != nil {
		return err
	}
	if err := ratio01("ambiguity_gap", c.AmbiguityGap); err != nil {
		return err
	}
	if err := ratio01("high_confidence", c.HighConfidence); err != nil {
		return err
	}
	if c.MaxJudgeCandidates < 1 {
		return &ConfigError{Field: "max_judge_candidates", Reason: "must be at least 1"}
	}
	if c.CacheTTL <= 0 {
		return &ConfigError{Field: "cache_ttl_ms", Reason: "must be positive"}
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		return &ConfigError{Field: "viewport", Reason: "dimensions must be positive"}
	}
	if c.CalibrationSlope <= 0 {
		return &ConfigError{Field: "calibration_slope", Reason: "must be positive"}
	}
	for _, band := range []struct {
		field string
		v     float64
	}{
		{"sidebar_margin_ratio", c.SidebarMarginRatio},
		{"header_band_ratio", c.HeaderBandRatio},
		{"footer_band_ratio", c.FooterBandRatio},
	} {
		if band.v < 0 || band.v >= 0.5 {
			return &ConfigError{Field: band.field, Reason: fmt.Sprintf("must be in [0,0.5), got %v", band.v)}
		}
	}
	if c.PrimaryBandTop >= c.PrimaryBandBottom {
		return &ConfigError{Field: "primary_band", Reason: "top must be below bottom"}
	}
	if c.CenterBandLeft >= c.CenterBandRight {
		return &ConfigError{Field: "center_band", Reason: "left must be left of right"}
	}
	if c.MaxScoreWorkers < 0 {
		return &ConfigError{Field: "max_score_workers", Reason: "must not be negative"}
	}
	if c.JudgeTimeout <= 0 {
		return &ConfigError{Field: "judge_timeout_ms", Reason: "must be positive"}
	}
	return nil
}

// ConfigFileName is the per-project configuration file searched by LoadConfig.
const ConfigFileName = ".domlocate.kdl"

// LoadConfig loads configuration from dir/.domlocate.kdl, layered over the
// defaults. A missing file is not an error and yields the defaults.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(dir, ConfigFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := parseKDL(string(content), &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parseKDL applies a .domlocate.kdl document on top of cfg. Unknown nodes are
// ignored so old engines tolerate newer config files.
//
//	scoring {
//	    threshold 0.3
//	    ambiguity_gap 0.05
//	    high_confidence 0.6
//	    enhanced true
//	    calibration_slope 8.0
//	    calibration_offset 0.35
//	    max_workers 4
//	}
//	cache {
//	    enabled true
//	    ttl_ms 30000
//	}
//	viewport {
//	    width 1280
//	    height 720
//	}
//	layout {
//	    sidebar_margin_ratio 0.15
//	    header_band_ratio 0.10
//	    footer_band_ratio 0.10
//	    primary_band 0.15 0.85
//	    center_band 0.25 0.75
//	}
//	judge {
//	    max_candidates 5
//	    timeout_ms 5000
//	}
func parseKDL(content string, cfg *Config) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("parse %s: %w", ConfigFileName, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "scoring":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "threshold":
					if v, ok := firstFloatArg(cn); ok {
						cfg.ScoreThreshold = v
					}
				case "ambiguity_gap":
					if v, ok := firstFloatArg(cn); ok {
						cfg.AmbiguityGap = v
					}
				case "high_confidence":
					if v, ok := firstFloatArg(cn); ok {
						cfg.HighConfidence = v
					}
				case "enhanced":
					if b, ok := firstBoolArg(cn); ok {
						cfg.EnhancedScoring = b
					}
				case "calibration_slope":
					if v, ok := firstFloatArg(cn); ok {
						cfg.CalibrationSlope = v
					}
				case "calibration_offset":
					if v, ok := firstFloatArg(cn); ok {
						cfg.CalibrationOffset = v
					}
				case "max_workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.MaxScoreWorkers = v
					}
				}
			}
		case "cache":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "enabled":
					if b, ok := firstBoolArg(cn); ok {
						cfg.CacheEnabled = b
					}
				case "ttl_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.CacheTTL = time.Duration(v) * time.Millisecond
					}
				}
			}
		case "viewport":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "width":
					if v, ok := firstFloatArg(cn); ok {
						cfg.ViewportWidth = v
					}
				case "height":
					if v, ok := firstFloatArg(cn); ok {
						cfg.ViewportHeight = v
					}
				}
			}
		case "layout":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "sidebar_margin_ratio":
					if v, ok := firstFloatArg(cn); ok {
						cfg.SidebarMarginRatio = v
					}
				case "header_band_ratio":
					if v, ok := firstFloatArg(cn); ok {
						cfg.HeaderBandRatio = v
					}
				case "footer_band_ratio":
					if v, ok := firstFloatArg(cn); ok {
						cfg.FooterBandRatio = v
					}
				case "primary_band":
					if lo, hi, ok := floatArgPair(cn); ok {
						cfg.PrimaryBandTop, cfg.PrimaryBandBottom = lo, hi
					}
				case "center_band":
					if lo, hi, ok := floatArgPair(cn); ok {
						cfg.CenterBandLeft, cfg.CenterBandRight = lo, hi
					}
				}
			}
		case "judge":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_candidates":
					if v, ok := firstIntArg(cn); ok {
						cfg.MaxJudgeCandidates = v
					}
				case "timeout_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.JudgeTimeout = time.Duration(v) * time.Millisecond
					}
				}
			}
		}
	}
	return nil
}

// Helpers over the kdl-go document model.
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	return floatValue(n.Arguments[0].Value)
}

func floatArgPair(n *document.Node) (float64, float64, bool) {
	if len(n.Arguments) < 2 {
		return 0, 0, false
	}
	lo, ok := floatValue(n.Arguments[0].Value)
	if !ok {
		return 0, 0, false
	}
	hi, ok := floatValue(n.Arguments[1].Value)
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

func floatValue(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
