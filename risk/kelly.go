package risk

import (
	"fmt"

	"github.com/rustyeddy/tradejournal/internal/advice"
	"github.com/rustyeddy/tradejournal/internal/stats"
)

// DefaultAccountSizes is the ladder the position-size guide is computed over.
var DefaultAccountSizes = []float64{1000, 5000, 10000, 25000, 50000, 100000}

const (
	maxSafeKelly   = 0.25
	minRiskPercent = 0.5
	maxRiskPercent = 5.0
)

// PositionSize is one row of the sizing guide.
type PositionSize struct {
	AccountSize           float64 `json:"account_size" yaml:"account_size"`
	RiskAmount            float64 `json:"risk_amount" yaml:"risk_amount"`
	SuggestedPositionSize float64 `json:"suggested_position_size" yaml:"suggested_position_size"`
}

// KellyResult holds percentages in 0..100 units.
type KellyResult struct {
	KellyPercent           float64        `json:"kelly_percent" yaml:"kelly_percent"`
	RecommendedRiskPercent float64        `json:"recommended_risk_percent" yaml:"recommended_risk_percent"`
	HalfKellyPercent       float64        `json:"half_kelly_percent" yaml:"half_kelly_percent"`
	PositionSizeGuide      []PositionSize `json:"position_size_guide" yaml:"position_size_guide"`
	Advice                 string         `json:"advice" yaml:"advice"`

	// Raw is the unclipped Kelly fraction; 0 on the insufficient-data path.
	Raw          float64 `json:"raw_kelly" yaml:"raw_kelly"`
	Insufficient bool    `json:"insufficient_data" yaml:"insufficient_data"`
}

// InsufficientDataAdvice is returned when win rate, average win or average
// loss is zero and the Kelly formula is undefined.
const InsufficientDataAdvice = "Insufficient data for Kelly sizing: use 1–2% risk per trade."

type kellyInput struct {
	winRate     float64
	kelly       float64
	recommended float64
	payoff      float64
}

var kellyAdvice = advice.Table[kellyInput]{
	{
		Code: "LOW_WIN_RATE",
		When: func(in kellyInput) bool { return in.winRate < 0.4 },
		Message: func(in kellyInput) string {
			return fmt.Sprintf("Win rate of %.1f%% is low: keep risk conservative at %.1f%% per trade while you refine entries.",
				in.winRate*100, in.recommended)
		},
	},
	{
		Code: "HALF_KELLY",
		When: func(in kellyInput) bool { return in.kelly > 0.5 },
		Message: func(in kellyInput) string {
			return fmt.Sprintf("Full Kelly suggests %.1f%% risk: use half-Kelly for safety and risk %.1f%% per trade.",
				in.kelly*100, in.recommended)
		},
	},
	{
		Code: "RECOMMENDED",
		When: advice.Otherwise[kellyInput],
		Message: func(in kellyInput) string {
			return fmt.Sprintf("Risk %.1f%% per trade. Your edge implies a 1:%.1f reward ratio.",
				in.recommended, in.payoff)
		},
	},
}

// Kelly sizes risk from payoff statistics. accountSizes defaults to
// DefaultAccountSizes when empty.
func Kelly(s Stats, accountSizes []float64) KellyResult {
	if s.AvgWin == 0 || s.AvgLoss == 0 || s.WinRate == 0 {
		return KellyResult{
			KellyPercent:           0,
			RecommendedRiskPercent: 1,
			HalfKellyPercent:       0.5,
			PositionSizeGuide:      []PositionSize{},
			Advice:                 InsufficientDataAdvice,
			Insufficient:           true,
		}
	}

	b := s.AvgWin / s.AvgLoss
	kelly := (s.WinRate*b - (1 - s.WinRate)) / b
	safe := stats.Clip(kelly, 0, maxSafeKelly)
	half := safe / 2
	recommended := stats.Clip(half*100, minRiskPercent, maxRiskPercent)

	if len(accountSizes) == 0 {
		accountSizes = DefaultAccountSizes
	}
	guide := make([]PositionSize, 0, len(accountSizes))
	for _, size := range accountSizes {
		riskAmount := size * recommended / 100
		guide = append(guide, PositionSize{
			AccountSize: size,
			RiskAmount:  riskAmount,
			// currency budget scaled by the payoff ratio, kept as is for
			// compatibility with existing reports
			SuggestedPositionSize: riskAmount / s.AvgLoss * s.AvgWin,
		})
	}

	msg, _ := kellyAdvice.First(kellyInput{
		winRate:     s.WinRate,
		kelly:       kelly,
		recommended: recommended,
		payoff:      b,
	})

	return KellyResult{
		KellyPercent:           safe * 100,
		RecommendedRiskPercent: recommended,
		HalfKellyPercent:       half * 100,
		PositionSizeGuide:      guide,
		Advice:                 msg,
		Raw:                    kelly,
	}
}
