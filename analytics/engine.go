package analytics

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
)

// Report is every analytic view of one trade list.
type Report struct {
	GeneratedAt time.Time         `json:"generated_at" yaml:"generated_at"`
	Skipped     []journal.Skipped `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	Summary     Summary            `json:"summary" yaml:"summary"`
	EquityCurve []EquityPoint      `json:"equity_curve" yaml:"equity_curve"`
	Breakdown   Breakdown          `json:"breakdown" yaml:"breakdown"`
	Periods     PeriodReport       `json:"periods" yaml:"periods"`
	Advanced    AdvancedResult     `json:"advanced" yaml:"advanced"`
	Risk        risk.Analysis      `json:"risk" yaml:"risk"`
	Setups      SetupAnalysis      `json:"setups" yaml:"setups"`
	Psychology  PsychologyAnalysis `json:"psychology" yaml:"psychology"`
	Compliance  ComplianceAnalysis `json:"compliance" yaml:"compliance"`
}

type Engine struct {
	opts Options
	log  *zap.Logger
}

// NewEngine returns an engine with opts filled from DefaultOptions where zero.
// A nil logger discards output.
func NewEngine(opts Options, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{opts: opts.withDefaults(), log: log}
}

func (e *Engine) Options() Options { return e.opts }

// Build evaluates every module over trades. The input slice is never
// modified; when SortChronological is set the modules see a sorted copy.
// The only error is ctx's.
func (e *Engine) Build(ctx context.Context, trades []journal.TradeRecord, strategies []journal.Strategy, now time.Time) (*Report, error) {
	start := time.Now()

	in := trades
	if e.opts.SortChronological {
		in = make([]journal.TradeRecord, len(trades))
		copy(in, trades)
		sort.SliceStable(in, func(i, j int) bool { return in[i].Before(in[j]) })
	}

	r := &Report{
		GeneratedAt: now,
		Summary:     Summarize(in),
		EquityCurve: EquityCurve(in),
		Breakdown:   BreakdownBy(in),
		Periods:     Periods(in, now),
	}

	g, ctx := errgroup.WithContext(ctx)
	run := func(name string, fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t0 := time.Now()
			fn()
			e.log.Debug("module evaluated", zap.String("module", name), zap.Duration("took", time.Since(t0)))
			return nil
		})
	}

	run("advanced", func() { r.Advanced = Advanced(in, e.opts) })
	run("risk", func() { r.Risk = risk.Analyze(in, e.opts.AccountSizes) })
	run("setups", func() { r.Setups = Setups(in) })
	run("psychology", func() { r.Psychology = Psychology(in, e.opts.Habits) })
	run("compliance", func() { r.Compliance = Compliance(in, strategies, e.opts.ComplianceThreshold) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.log.Info("report built",
		zap.Int("trades", len(in)),
		zap.Int("strategies", len(strategies)),
		zap.Duration("took", time.Since(start)),
	)
	return r, nil
}
