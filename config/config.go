// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lstsq/basis"
	"github.com/katalvlaran/lstsq/lsq"
)

// Config is the on-disk configuration of a fitting session.
type Config struct {
	Method MethodConfig `yaml:"method"`
	Basis  BasisConfig  `yaml:"basis"`
	Log    LogConfig    `yaml:"log"`
}

// MethodConfig selects the strategy and its numerical thresholds.
type MethodConfig struct {
	Name           string  `yaml:"name"`
	RankTolerance  float64 `yaml:"rank_tolerance"`
	SingularCutoff float64 `yaml:"singular_cutoff"`
	RecomputeRatio float64 `yaml:"recompute_ratio"`
	Incremental    bool    `yaml:"incremental"`
	Robust         bool    `yaml:"robust"`
	GramRowRatio   int     `yaml:"gram_row_ratio"`
}

// BasisConfig describes a total-degree polynomial catalogue.
type BasisConfig struct {
	Family string `yaml:"family"`
	Degree int    `yaml:"degree"`
}

// LogConfig holds the zerolog level name.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration matching the library defaults.
func Default() *Config {
	return &Config{
		Method: MethodConfig{
			Name:           lsq.NameAuto,
			RankTolerance:  lsq.DefaultRankTolerance,
			SingularCutoff: lsq.DefaultSingularCutoff,
			RecomputeRatio: lsq.DefaultRecomputeRatio,
			Incremental:    lsq.DefaultIncremental,
			Robust:         lsq.DefaultRobust,
			GramRowRatio:   lsq.DefaultGramRowRatio,
		},
		Basis: BasisConfig{Family: basis.Legendre.String(), Degree: 3},
		Log:   LogConfig{Level: zerolog.InfoLevel.String()},
	}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}

	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every field against the ranges accepted by the lsq options,
// so that LsqOptions never panics on a validated Config.
func (c *Config) Validate() error {
	var problems []string
	m := c.Method
	if m.RankTolerance <= 0 || m.RankTolerance >= 1 || math.IsNaN(m.RankTolerance) {
		problems = append(problems, fmt.Sprintf("method.rank_tolerance %g outside (0, 1)", m.RankTolerance))
	}
	if m.SingularCutoff < 0 || m.SingularCutoff >= 1 || math.IsNaN(m.SingularCutoff) {
		problems = append(problems, fmt.Sprintf("method.singular_cutoff %g outside [0, 1)", m.SingularCutoff))
	}
	if m.RecomputeRatio < 0 || math.IsNaN(m.RecomputeRatio) {
		problems = append(problems, fmt.Sprintf("method.recompute_ratio %g is negative", m.RecomputeRatio))
	}
	if m.GramRowRatio < 1 {
		problems = append(problems, fmt.Sprintf("method.gram_row_ratio %d below 1", m.GramRowRatio))
	}
	if !lsq.KnownName(m.Name) {
		problems = append(problems, fmt.Sprintf("method.name %q is not a known strategy", m.Name))
	}
	if _, err := basis.ParseFamily(c.Basis.Family); err != nil {
		problems = append(problems, fmt.Sprintf("basis.family %q is not a known family", c.Basis.Family))
	}
	if c.Basis.Degree < 0 {
		problems = append(problems, fmt.Sprintf("basis.degree %d is negative", c.Basis.Degree))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level %q is not a zerolog level", c.Log.Level))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}

	return nil
}

// LsqOptions converts the method section into lsq options.
func (c *Config) LsqOptions() []lsq.Option {
	m := c.Method
	opts := []lsq.Option{
		lsq.WithRankTolerance(m.RankTolerance),
		lsq.WithSingularCutoff(m.SingularCutoff),
		lsq.WithRecomputeRatio(m.RecomputeRatio),
		lsq.WithIncremental(m.Incremental),
		lsq.WithGramRowRatio(m.GramRowRatio),
	}
	if m.Robust {
		opts = append(opts, lsq.WithRobust())
	}

	return opts
}

// Level returns the configured log level, falling back to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}

	return lvl
}

// BuildBasis returns the total-degree catalogue of the configured family over dim inputs.
func (c *Config) BuildBasis(dim int) (*basis.Basis, error) {
	fam, err := basis.ParseFamily(c.Basis.Family)
	if err != nil {
		return nil, err
	}

	return basis.TensorProduct(fam, dim, c.Basis.Degree)
}
