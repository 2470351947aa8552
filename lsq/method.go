// SPDX-License-Identifier: MIT

package lsq

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lstsq/basis"
	"github.com/katalvlaran/lstsq/design"
	"github.com/katalvlaran/lstsq/metrics"
	"github.com/katalvlaran/lstsq/sample"
)

// Strategy names returned by Method.Name.
const (
	StrategyQR       = "QR"
	StrategyCholesky = "Cholesky"
	StrategySVD      = "SVD"
)

// Method is a weighted least-squares solver over a changing active column set.
//
// Vectors indexed by sample row have length N = Proxy().Size(); vectors
// indexed by active column have length K = len(CurrentIndices()).
type Method interface {
	// Name returns the strategy name (StrategyQR, StrategyCholesky or StrategySVD).
	Name() string
	// ID returns a unique identifier used in logs.
	ID() string

	Proxy() *design.Proxy
	InputSample() *sample.Sample
	Basis() *basis.Basis
	// Weights returns a copy of the weight vector.
	Weights() []float64
	// InitialIndices returns the active set the Method was built with.
	InitialIndices() []int
	// CurrentIndices returns the active set, in column order.
	CurrentIndices() []int
	// ActiveRows returns the sample rows taking part in the fit.
	ActiveRows() []int
	// CurrentBasis returns the active basis functions in column order.
	CurrentBasis() ([]basis.Function, error)
	// Rank returns the effective numerical rank of the weighted design.
	Rank() int

	// Solve returns x minimizing ‖√W(Ax − rhs)‖₂.
	Solve(rhs []float64) ([]float64, error)
	// SolveNormal solves AᵀWA·x = AᵀW·rhs.
	SolveNormal(rhs []float64) ([]float64, error)
	// HDiag returns the diagonal of A(AᵀWA)⁻¹AᵀW; inactive rows get 0.
	HDiag() ([]float64, error)
	// GramInverseDiag returns the diagonal of (AᵀWA)⁻¹.
	GramInverseDiag() ([]float64, error)
	// GramInverseTrace returns the trace of (AᵀWA)⁻¹.
	GramInverseTrace() (float64, error)

	// Update moves from the active set conserved ∪ removed to conserved + added.
	// With row set, the three sets name sample rows instead.
	Update(added, conserved, removed []int, row bool) error

	// ComputeWeightedDesign returns √W·A (N×K), or the whole catalogue (N×M)
	// when whole is set. Rows outside the active rows are zero.
	ComputeWeightedDesign(whole bool) (*mat.Dense, error)
}

// factorization is the numeric state of one strategy.
type factorization interface {
	name() string
	clone() factorization
	rank() int
	factor(d weightedDesign) error
	solve(d weightedDesign, b []float64) []float64
	solveNormal(g []float64) []float64
	leverage(d weightedDesign) []float64
	gramInverseDiag() []float64
}

// updatable is implemented by strategies with an incremental update path.
type updatable interface {
	factorization
	appendColumn(d weightedDesign, col []float64) error
	deleteColumn(pos int)
	appendRows(rows [][]float64) error
	deleteRow(pos int, row []float64) error
	permuteRows(perm []int)
}

// method implements Method on top of a factorization.
type method struct {
	fact    factorization
	id      string
	proxy   *design.Proxy
	weights []float64
	sqrtW   []float64
	initial []int
	current []int
	rows    []int
	opts    Options
	logger  zerolog.Logger
}

// NewQR builds a QR Method over the active set indices.
func NewQR(p *design.Proxy, weights []float64, indices []int, opts ...Option) (Method, error) {
	o := gatherOptions(opts...)
	return newMethod(newQRFactor(o), p, weights, indices, o)
}

// NewCholesky builds a Cholesky/Gram Method over the active set indices.
func NewCholesky(p *design.Proxy, weights []float64, indices []int, opts ...Option) (Method, error) {
	o := gatherOptions(opts...)
	return newMethod(newCholeskyFactor(o), p, weights, indices, o)
}

// NewSVD builds an SVD Method over the active set indices.
func NewSVD(p *design.Proxy, weights []float64, indices []int, opts ...Option) (Method, error) {
	o := gatherOptions(opts...)
	return newMethod(newSVDFactor(o), p, weights, indices, o)
}

func newMethod(f factorization, p *design.Proxy, weights []float64, indices []int, o Options) (*method, error) {
	if p == nil {
		return nil, lsqErrorf(opBuild, ErrNilProxy)
	}
	n := p.Size()
	if weights == nil {
		weights = sample.Ones(n)
	} else if err := sample.ValidateWeights(weights, n); err != nil {
		return nil, lsqErrorf(opBuild, fmt.Errorf("%w: %w", ErrInvalidWeights, err))
	}
	w := append([]float64(nil), weights...)
	sq := make([]float64, n)
	for i, v := range w {
		sq[i] = math.Sqrt(v)
	}
	if err := validateIndices(indices, p.BasisSize()); err != nil {
		return nil, lsqErrorf(opBuild, err)
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}

	m := &method{
		fact:    f,
		id:      uuid.NewString(),
		proxy:   p,
		weights: w,
		sqrtW:   sq,
		initial: append([]int(nil), indices...),
		current: append([]int(nil), indices...),
		rows:    rows,
		opts:    o,
	}
	m.logger = o.logger.With().Str("strategy", f.name()).Str("method_id", m.id).Logger()

	start := time.Now()
	d, err := m.view(m.current, m.rows)
	if err == nil {
		err = m.fact.factor(d)
	}
	if err != nil {
		m.opts.metrics.Failure(m.label(), failureKind(err))
		return nil, lsqErrorf(opBuild, err)
	}
	m.opts.metrics.ObserveFactorization(m.label(), start)
	m.checkRank()
	m.logger.Debug().Int("rows", n).Int("columns", len(m.current)).Msg("factorization built")

	return m, nil
}

// validateIndices checks bounds and uniqueness of an active set.
func validateIndices(indices []int, bound int) error {
	seen := make(map[int]struct{}, len(indices))
	for _, j := range indices {
		if j < 0 || j >= bound {
			return fmt.Errorf("index %d not in [0,%d): %w", j, bound, ErrOutOfRange)
		}
		if _, dup := seen[j]; dup {
			return fmt.Errorf("index %d listed twice: %w", j, ErrInvalidPartition)
		}
		seen[j] = struct{}{}
	}

	return nil
}

func (m *method) label() string { return lowerName(m.fact.name()) }

// view returns the weighted view for the given columns and rows.
func (m *method) view(indices, rows []int) (weightedDesign, error) {
	cols, err := m.proxy.Columns(indices)
	if err != nil {
		return weightedDesign{}, fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}

	return weightedDesign{cols: cols, rows: rows, sqrtW: m.sqrtW}, nil
}

func (m *method) checkRank() {
	if r, k := m.fact.rank(), len(m.current); r < k {
		m.logger.Warn().Int("rank", r).Int("columns", k).Msg("rank-deficient design truncated")
	}
}

func (m *method) Name() string                { return m.fact.name() }
func (m *method) ID() string                  { return m.id }
func (m *method) Proxy() *design.Proxy        { return m.proxy }
func (m *method) InputSample() *sample.Sample { return m.proxy.Sample() }
func (m *method) Basis() *basis.Basis         { return m.proxy.Basis() }
func (m *method) Weights() []float64          { return append([]float64(nil), m.weights...) }
func (m *method) InitialIndices() []int       { return append([]int(nil), m.initial...) }
func (m *method) CurrentIndices() []int       { return append([]int(nil), m.current...) }
func (m *method) ActiveRows() []int           { return append([]int(nil), m.rows...) }
func (m *method) Rank() int                   { return m.fact.rank() }

func (m *method) CurrentBasis() ([]basis.Function, error) {
	return m.proxy.Basis().Functions(m.current)
}

// weightedRHS validates rhs and returns √w·rhs over the active rows.
func (m *method) weightedRHS(rhs []float64) ([]float64, error) {
	if len(m.current) == 0 {
		return nil, ErrDegenerate
	}
	if len(rhs) != m.proxy.Size() {
		return nil, fmt.Errorf("rhs length %d, want %d: %w", len(rhs), m.proxy.Size(), ErrDimensionMismatch)
	}
	b := make([]float64, len(m.rows))
	for p, i := range m.rows {
		b[p] = m.sqrtW[i] * rhs[i]
	}

	return b, nil
}

func (m *method) Solve(rhs []float64) ([]float64, error) {
	b, err := m.weightedRHS(rhs)
	if err != nil {
		return nil, lsqErrorf(opSolve, err)
	}
	d, err := m.view(m.current, m.rows)
	if err != nil {
		return nil, lsqErrorf(opSolve, err)
	}

	return m.fact.solve(d, b), nil
}

func (m *method) SolveNormal(rhs []float64) ([]float64, error) {
	b, err := m.weightedRHS(rhs)
	if err != nil {
		return nil, lsqErrorf(opSolveNormal, err)
	}
	d, err := m.view(m.current, m.rows)
	if err != nil {
		return nil, lsqErrorf(opSolveNormal, err)
	}
	g := make([]float64, d.k())
	for j := range g {
		g[j] = d.columnDot(j, b)
	}

	return m.fact.solveNormal(g), nil
}

func (m *method) HDiag() ([]float64, error) {
	if len(m.current) == 0 {
		return nil, lsqErrorf(opHDiag, ErrDegenerate)
	}
	d, err := m.view(m.current, m.rows)
	if err != nil {
		return nil, lsqErrorf(opHDiag, err)
	}
	h := make([]float64, m.proxy.Size())
	for p, v := range m.fact.leverage(d) {
		h[m.rows[p]] = v
	}

	return h, nil
}

func (m *method) GramInverseDiag() ([]float64, error) {
	if len(m.current) == 0 {
		return nil, lsqErrorf(opGramInvDiag, ErrDegenerate)
	}

	return m.fact.gramInverseDiag(), nil
}

func (m *method) GramInverseTrace() (float64, error) {
	if len(m.current) == 0 {
		return 0, lsqErrorf(opGramInvTrace, ErrDegenerate)
	}

	return floats.Sum(m.fact.gramInverseDiag()), nil
}

func (m *method) ComputeWeightedDesign(whole bool) (*mat.Dense, error) {
	indices := m.current
	if whole {
		indices = make([]int, m.proxy.BasisSize())
		for j := range indices {
			indices[j] = j
		}
	}
	if len(indices) == 0 {
		return nil, lsqErrorf(opDesign, ErrDegenerate)
	}
	cols, err := m.proxy.Columns(indices)
	if err != nil {
		return nil, lsqErrorf(opDesign, err)
	}
	out := mat.NewDense(m.proxy.Size(), len(indices), nil)
	for j, c := range cols {
		for _, i := range m.rows {
			out.Set(i, j, m.sqrtW[i]*c[i])
		}
	}

	return out, nil
}

func (m *method) Update(added, conserved, removed []int, row bool) error {
	mode, prev, bound := metrics.ModeColumn, m.current, m.proxy.BasisSize()
	if row {
		mode, prev, bound = metrics.ModeRow, m.rows, m.proxy.Size()
	}
	pl, err := planUpdate(prev, bound, added, conserved, removed, !row, m.opts)
	if err != nil {
		m.opts.metrics.Failure(m.label(), failureKind(err))
		return lsqErrorf(opUpdate, err)
	}
	if pl.noop {
		m.opts.metrics.Update(m.label(), mode, metrics.PathNoop)
		return nil
	}

	start := time.Now()
	next := m.fact.clone()
	current, rows := m.current, m.rows
	if row {
		rows = pl.next
	} else {
		current = pl.next
	}

	path := metrics.PathRecompute
	inc, ok := next.(updatable)
	switch {
	case pl.recompute || !ok:
		var d weightedDesign
		if d, err = m.view(current, rows); err == nil {
			err = next.factor(d)
		}
	case row:
		path = metrics.PathIncremental
		err = m.updateRows(inc, pl)
	default:
		path = metrics.PathIncremental
		err = m.updateColumns(inc, pl)
	}
	if err != nil {
		m.opts.metrics.Failure(m.label(), failureKind(err))
		m.logger.Debug().Err(err).Str("mode", mode).Str("path", path).Msg("update rejected")
		return lsqErrorf(opUpdate, err)
	}

	m.fact, m.current, m.rows = next, current, rows
	m.opts.metrics.Update(m.label(), mode, path)
	m.opts.metrics.ObserveFactorization(m.label(), start)
	m.checkRank()
	m.logger.Debug().
		Str("mode", mode).
		Str("path", path).
		Int("added", len(added)).
		Int("removed", len(removed)).
		Int("columns", len(m.current)).
		Int("rows", len(m.rows)).
		Msg("factorization updated")

	return nil
}

// updateColumns deletes removed columns (highest position first) and then
// appends the added ones in order.
func (m *method) updateColumns(f updatable, pl plan) error {
	working := append([]int(nil), m.current...)
	for _, pos := range pl.removed {
		f.deleteColumn(pos)
		working = append(working[:pos], working[pos+1:]...)
	}
	d, err := m.view(working, m.rows)
	if err != nil {
		return err
	}
	for _, j := range pl.added {
		raw, err := m.proxy.Column(j)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrOutOfRange, err)
		}
		col := weightedDesign{cols: [][]float64{raw}, rows: m.rows, sqrtW: m.sqrtW}.column(0, nil)
		if err := f.appendColumn(d, col); err != nil {
			return err
		}
		d = d.withColumn(raw)
	}

	return nil
}

// updateRows deletes removed rows (highest position first), reorders the
// conserved rows and appends the added ones.
func (m *method) updateRows(f updatable, pl plan) error {
	d, err := m.view(m.current, m.rows)
	if err != nil {
		return err
	}
	working := append([]int(nil), m.rows...)
	for _, pos := range pl.removed {
		if err := f.deleteRow(pos, d.sampleRow(working[pos], nil)); err != nil {
			return err
		}
		working = append(working[:pos], working[pos+1:]...)
	}
	if pl.perm != nil {
		f.permuteRows(pl.perm)
	}
	if len(pl.added) > 0 {
		vs := make([][]float64, len(pl.added))
		for t, i := range pl.added {
			vs[t] = d.sampleRow(i, nil)
		}
		if err := f.appendRows(vs); err != nil {
			return err
		}
	}

	return nil
}
