package model

import "time"

// ReductionImpact estimates savings from trimming one category.
type ReductionImpact struct {
	Category         Category `json:"category"`
	ReductionPercent float64  `json:"reduction_percent"`
	ProjectedSavings float64  `json:"projected_savings"`
}

// Projection is the linear month-end balance forecast.
type Projection struct {
	Month                  YearMonth         `json:"month"`
	FinalBalanceProjection float64           `json:"final_balance_projection"`
	DaysElapsed            int               `json:"days_elapsed"`
	DaysRemaining          int               `json:"days_remaining"`
	AverageDailyIncome     float64           `json:"average_daily_income"`
	AverageDailyExpense    float64           `json:"average_daily_expense"`
	ProjectedIncome        float64           `json:"projected_income"`
	ProjectedExpense       float64           `json:"projected_expense"`
	TransactionCount       int               `json:"transaction_count"`
	ReductionImpact        []ReductionImpact `json:"reduction_impact"`
	Confidence             Confidence        `json:"confidence"`
}

// Pattern types recognized by the smart projection.
const (
	PatternWeekly      = "weekly"
	PatternMonthly     = "monthly"
	PatternSeasonal    = "seasonal"
	PatternSalaryCycle = "salary_cycle"
)

// HistoricalPattern is a recurring shape found in past spending or income.
type HistoricalPattern struct {
	PatternType  string     `json:"pattern_type"`
	Description  string     `json:"description"`
	Confidence   Confidence `json:"confidence"`
	Impact       float64    `json:"impact"`
	Examples     []string   `json:"examples"`
	Merchant     string     `json:"merchant,omitempty"`
	AverageValue float64    `json:"average_value,omitempty"`
	NextExpected *time.Time `json:"next_expected,omitempty"`
}

// SeasonalAdjustment records the calendar factor applied to daily averages.
type SeasonalAdjustment struct {
	Month                time.Month `json:"month"`
	Factor               float64    `json:"factor"`
	AdjustedDailyIncome  float64    `json:"adjusted_daily_income"`
	AdjustedDailyExpense float64    `json:"adjusted_daily_expense"`
}

// ConfidenceFactor is one signed contribution to the smart confidence score.
type ConfidenceFactor struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// Scenario is an alternative month-end outcome.
type Scenario struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	ProjectedIncome  float64 `json:"projected_income"`
	ProjectedExpense float64 `json:"projected_expense"`
	ProjectedBalance float64 `json:"projected_balance"`
	Probability      float64 `json:"probability"`
}

// SmartProjection layers pattern and seasonal adjustments on the baseline.
type SmartProjection struct {
	Projection
	Baseline             Projection          `json:"baseline"`
	HistoricalPatterns   []HistoricalPattern `json:"historical_patterns"`
	SeasonalAdjustment   SeasonalAdjustment  `json:"seasonal_adjustment"`
	ConfidenceFactors    []ConfidenceFactor  `json:"confidence_factors"`
	ConfidenceScore      float64             `json:"confidence_score"`
	AlternativeScenarios []Scenario          `json:"alternative_scenarios"`
}
