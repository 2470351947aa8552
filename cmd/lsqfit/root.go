// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/lstsq/config"
	"github.com/katalvlaran/lstsq/design"
	"github.com/katalvlaran/lstsq/lsq"
	"github.com/katalvlaran/lstsq/metrics"
	"github.com/katalvlaran/lstsq/sample"
)

// app is the state shared by every subcommand after flag parsing.
type app struct {
	configPath string
	dataPath   string
	logLevel   string
	method     string
	degree     int
	weighted   bool

	cfg     *config.Config
	logger  zerolog.Logger
	metrics *metrics.Collector
}

func newRootCmd() *cobra.Command {
	a := &app{degree: -1}
	root := &cobra.Command{
		Use:           "lsqfit",
		Short:         "Weighted polynomial least squares with incremental factorizations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.dataPath, "data", "", "CSV file with input columns followed by the response")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level override (debug|info|warn|error)")
	pf.StringVar(&a.method, "method", "", "Strategy override (qr|cholesky|svd|auto)")
	pf.IntVar(&a.degree, "degree", -1, "Total polynomial degree override")
	pf.BoolVar(&a.weighted, "weighted", false, "Last CSV column holds per-row weights")

	root.AddCommand(newFitCmd(a), newScanCmd(a), newPathCmd(a))

	return root
}

// init resolves configuration, flag overrides, the logger and the metrics collector.
func (a *app) init(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.method != "" {
		cfg.Method.Name = a.method
	}
	if a.degree >= 0 {
		cfg.Basis.Degree = a.degree
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = log.Logger.Level(cfg.Level()).With().Str("cmd", cmd.Name()).Logger()
	a.metrics = metrics.NewCollector(prometheus.NewRegistry())

	return nil
}

// session bundles the objects every subcommand starts from.
type session struct {
	data    *dataset
	proxy   *design.Proxy
	weights []float64
}

func (a *app) open() (*session, error) {
	if a.dataPath == "" {
		return nil, fmt.Errorf("lsqfit: --data is required")
	}
	ds, err := readDataset(a.dataPath, a.weighted)
	if err != nil {
		return nil, err
	}
	s, err := sample.New(ds.points)
	if err != nil {
		return nil, err
	}
	b, err := a.cfg.BuildBasis(s.Dim())
	if err != nil {
		return nil, err
	}
	p, err := design.NewProxy(s, b, design.WithLogger(a.logger), design.WithMetrics(a.metrics))
	if err != nil {
		return nil, err
	}
	a.logger.Info().Int("rows", s.Size()).Int("dim", s.Dim()).Int("basis", b.Size()).
		Str("family", a.cfg.Basis.Family).Msg("dataset loaded")

	return &session{data: ds, proxy: p, weights: ds.weights}, nil
}

// lsqOptions returns the configured method options plus logging and metrics.
func (a *app) lsqOptions() []lsq.Option {
	return append(a.cfg.LsqOptions(), lsq.WithLogger(a.logger), lsq.WithMetrics(a.metrics))
}

// logCounters reports the cache and update counters gathered during the command.
func (a *app) logCounters() {
	hits, misses := a.metrics.CacheLookups()
	ev := a.logger.Debug().Float64("cache_hits", hits).Float64("cache_misses", misses)
	for _, s := range []string{lsq.StrategyQR, lsq.StrategyCholesky, lsq.StrategySVD} {
		label := strings.ToLower(s)
		for _, path := range []string{metrics.PathIncremental, metrics.PathRecompute} {
			if n := a.metrics.UpdateCount(label, metrics.ModeColumn, path); n > 0 {
				ev = ev.Float64(label+"_"+path, n)
			}
		}
	}
	ev.Msg("counters")
}
