package quote

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"bessquote/pkg/core/verify"
)

// Config carries the tunable engine constants. Thresholds live here rather
// than at call sites so the verification cutoffs are configuration, not code.
type Config struct {
	ProjectYears int                      `yaml:"project_years"`
	DiscountRate float64                  `yaml:"discount_rate"`
	Thresholds   verify.Thresholds        `yaml:"deviation_thresholds"`
	Confidence   verify.ConfidenceWeights `yaml:"confidence_weights"`
}

// DefaultConfig returns the compiled-in engine configuration.
func DefaultConfig() Config {
	return Config{
		ProjectYears: 10,
		DiscountRate: 0.07,
		Thresholds:   verify.DefaultThresholds(),
		Confidence:   verify.DefaultConfidenceWeights(),
	}
}

// LoadConfig reads engine.yaml, filling any zero field from the defaults. A
// missing file yields the defaults without error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read engine config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse engine config %s: %w", path, err)
	}
	if cfg.ProjectYears <= 0 {
		cfg.ProjectYears = 10
	}
	if cfg.DiscountRate <= 0 {
		cfg.DiscountRate = 0.07
	}
	if cfg.Thresholds.WarnPercent <= 0 {
		cfg.Thresholds.WarnPercent = verify.DefaultThresholds().WarnPercent
	}
	if cfg.Thresholds.CriticalPercent <= 0 {
		cfg.Thresholds.CriticalPercent = verify.DefaultThresholds().CriticalPercent
	}
	if cfg.Confidence.WarningPenalty <= 0 {
		cfg.Confidence.WarningPenalty = verify.DefaultConfidenceWeights().WarningPenalty
	}
	if cfg.Confidence.CriticalPenalty <= 0 {
		cfg.Confidence.CriticalPenalty = verify.DefaultConfidenceWeights().CriticalPenalty
	}
	return cfg, nil
}
