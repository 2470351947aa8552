// SPDX-License-Identifier: MIT
package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lstsq/config"
	"github.com/katalvlaran/lstsq/lsq"
)

func TestDefault_MatchesLibrary(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	o := lsq.ResolveOptions(cfg.LsqOptions()...)
	assert.Equal(t, lsq.DefaultRankTolerance, o.RankTolerance())
	assert.Equal(t, lsq.DefaultSingularCutoff, o.SingularCutoff())
	assert.Equal(t, lsq.DefaultRecomputeRatio, o.RecomputeRatio())
	assert.True(t, o.Incremental())
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := config.Parse([]byte(`
method:
  name: svd
  singular_cutoff: 1e-8
  incremental: false
basis:
  family: monomial
  degree: 2
log:
  level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, "svd", cfg.Method.Name)
	assert.Equal(t, lsq.DefaultRankTolerance, cfg.Method.RankTolerance) // untouched key keeps default
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())

	o := lsq.ResolveOptions(cfg.LsqOptions()...)
	assert.Equal(t, 1e-8, o.SingularCutoff())
	assert.False(t, o.Incremental())

	b, err := cfg.BuildBasis(2)
	require.NoError(t, err)
	assert.Equal(t, 6, b.Size())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParse_Errors(t *testing.T) {
	_, err := config.Parse([]byte("method: [1, 2"))
	assert.ErrorIs(t, err, config.ErrParse)

	_, err = config.Parse([]byte("method:\n  unknown_key: 1\n"))
	assert.ErrorIs(t, err, config.ErrParse)

	cases := map[string]string{
		"rank":   "method:\n  rank_tolerance: 0\n",
		"cutoff": "method:\n  singular_cutoff: 1.5\n",
		"ratio":  "method:\n  recompute_ratio: -1\n",
		"gram":   "method:\n  gram_row_ratio: 0\n",
		"name":   "method:\n  name: lu\n",
		"family": "basis:\n  family: chebyshev\n",
		"degree": "basis:\n  degree: -2\n",
		"level":  "log:\n  level: loud\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(doc))
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lsqfit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("method:\n  name: qr\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "qr", cfg.Method.Name)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, config.ErrRead)
}
