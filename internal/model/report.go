package model

import "time"

// ReportPeriod describes the window a report covers.
type ReportPeriod struct {
	Label       string     `json:"label"`
	Month       *YearMonth `json:"month"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Days        int        `json:"days"`
	FullHistory bool       `json:"full_history"`
}

// Summary holds the top-level totals for a period.
type Summary struct {
	TotalIncome      float64 `json:"total_income"`
	TotalExpenses    float64 `json:"total_expenses"`
	NetBalance       float64 `json:"net_balance"`
	SavingsRate      float64 `json:"savings_rate"`
	TransactionCount int     `json:"transaction_count"`
	IncomeCount      int     `json:"income_count"`
	ExpenseCount     int     `json:"expense_count"`
	AverageExpense   float64 `json:"average_expense"`
	LargestExpense   float64 `json:"largest_expense"`
	ConflictCount    int     `json:"conflict_count"`
	SuspiciousCount  int     `json:"suspicious_count"`
}

// MerchantGroup is one row in a top-N income or expense list.
type MerchantGroup struct {
	Merchant     string  `json:"merchant"`
	Total        float64 `json:"total"`
	Count        int     `json:"count"`
	SharePercent float64 `json:"share_percent"`
	Aggregated   bool    `json:"aggregated,omitempty"`
}

// CategoryBreakdown is the expense total for one category.
type CategoryBreakdown struct {
	Category Category `json:"category"`
	Total    float64  `json:"total"`
	Count    int      `json:"count"`
	Percent  float64  `json:"percent"`
}

// WeekdayBreakdown is the expense total for one weekday.
type WeekdayBreakdown struct {
	Weekday time.Weekday `json:"weekday"`
	Name    string       `json:"name"`
	Total   float64      `json:"total"`
	Count   int          `json:"count"`
}

// PeriodBreakdown is the expense total for one time-of-day bucket.
type PeriodBreakdown struct {
	Period DayPeriod `json:"period"`
	Total  float64   `json:"total"`
	Count  int       `json:"count"`
}

// PaymentMethodBreakdown is the expense total for one payment method.
type PaymentMethodBreakdown struct {
	Method  PaymentMethod `json:"method"`
	Total   float64       `json:"total"`
	Count   int           `json:"count"`
	Percent float64       `json:"percent"`
}

// TemporalBreakdown groups the weekday, period, and payment-method views.
type TemporalBreakdown struct {
	Weekdays       []WeekdayBreakdown       `json:"weekdays"`
	Periods        []PeriodBreakdown        `json:"periods"`
	UntimedCount   int                      `json:"untimed_count"`
	PaymentMethods []PaymentMethodBreakdown `json:"payment_methods"`
}

// Anomaly flags one transaction as unusual. A transaction may be flagged by
// several independent passes.
type Anomaly struct {
	TransactionID string     `json:"transaction_id"`
	Merchant      string     `json:"merchant"`
	Amount        float64    `json:"amount"`
	Date          time.Time  `json:"date"`
	Kind          string     `json:"kind"`
	Reason        string     `json:"reason"`
	Confidence    Confidence `json:"confidence"`
	Explanation   string     `json:"explanation"`
}

// CategoryAlert reports period-over-period growth in a watched category.
type CategoryAlert struct {
	Category                 Category `json:"category"`
	CurrentSpending          float64  `json:"current_spending"`
	PreviousSpending         float64  `json:"previous_period_spending"`
	IncreasePercent          *float64 `json:"increase_percent"`
	FrequencyIncreasePercent *float64 `json:"frequency_increase_percent"`
	IncomeSharePercent       *float64 `json:"income_share_percent"`
	Severity                 Severity `json:"severity"`
	Message                  string   `json:"message"`
	Suggestions              []string `json:"suggestions"`
}

// SpendingPattern summarizes repeated spending at one merchant in a category.
type SpendingPattern struct {
	Category       Category  `json:"category"`
	Merchant       string    `json:"merchant"`
	Frequency      float64   `json:"frequency"`
	AverageAmount  float64   `json:"average_amount"`
	TotalAmount    float64   `json:"total_amount"`
	Count          int       `json:"count"`
	LastOccurrence time.Time `json:"last_occurrence"`
	Trend          Trend     `json:"trend"`
}

// RecurringTransaction is a merchant that charges or pays on a regular cycle.
type RecurringTransaction struct {
	Merchant            string     `json:"merchant"`
	AverageAmount       float64    `json:"average_amount"`
	FrequencyDays       int        `json:"frequency_days"`
	LastTransactionDate time.Time  `json:"last_transaction_date"`
	TotalTransactions   int        `json:"total_transactions"`
	Confidence          Confidence `json:"confidence"`
	IsIncome            bool       `json:"is_income"`
}

// RecurringBreakdown partitions the recurring list.
type RecurringBreakdown struct {
	FixedIncome      []RecurringTransaction `json:"fixed_income"`
	FixedExpenses    []RecurringTransaction `json:"fixed_expenses"`
	VariableExpenses []RecurringTransaction `json:"variable_expenses"`
}

// RecurringImpactItem is one recurring item normalized to a monthly amount.
type RecurringImpactItem struct {
	Merchant      string  `json:"merchant"`
	Amount        float64 `json:"amount"`
	FrequencyDays int     `json:"frequency_days"`
	MonthlyAmount float64 `json:"monthly_amount"`
	IsIncome      bool    `json:"is_income"`
}

// RecurringImpact is the monthly and yearly weight of recurring items.
type RecurringImpact struct {
	MonthlyIncome  float64               `json:"monthly_income"`
	MonthlyExpense float64               `json:"monthly_expense"`
	MonthlyNet     float64               `json:"monthly_net"`
	YearlyIncome   float64               `json:"yearly_income"`
	YearlyExpense  float64               `json:"yearly_expense"`
	YearlyNet      float64               `json:"yearly_net"`
	Breakdown      []RecurringImpactItem `json:"breakdown"`
}

// PeriodMetrics are the comparable aggregates for one period.
type PeriodMetrics struct {
	Income            float64 `json:"income"`
	Expenses          float64 `json:"expenses"`
	Count             int     `json:"count"`
	AvgPerTransaction float64 `json:"avg_per_transaction"`
}

// Variation is a percent change. Percent is nil when the previous value was
// zero; Note then explains why.
type Variation struct {
	Percent *float64 `json:"percent"`
	Note    string   `json:"note,omitempty"`
}

// Defined reports whether the variation could be computed.
func (v Variation) Defined() bool { return v.Percent != nil }

// MonthlyComparison diffs the current period against the previous one.
type MonthlyComparison struct {
	Current         PeriodMetrics `json:"current"`
	Previous        PeriodMetrics `json:"previous"`
	IncomePercent   Variation     `json:"income_percent"`
	ExpensesPercent Variation     `json:"expenses_percent"`
	CountPercent    Variation     `json:"count_percent"`
	AvgPercent      Variation     `json:"avg_per_transaction_percent"`
	NetChange       float64       `json:"net_change"`
	PreviousPeriod  string        `json:"previous_period"`
	HasPreviousData bool          `json:"has_previous_data"`
}

// Insight is one ranked, human-readable finding.
type Insight struct {
	Kind       string     `json:"kind"`
	Text       string     `json:"text"`
	Confidence Confidence `json:"confidence"`
}

// FinancialReport is the complete output of one engine run.
type FinancialReport struct {
	Period           ReportPeriod            `json:"period"`
	ReferenceDate    time.Time               `json:"reference_date"`
	Balance          float64                 `json:"balance"`
	Summary          Summary                 `json:"summary"`
	TopIncome        []MerchantGroup         `json:"top_income"`
	TopExpenses      []MerchantGroup         `json:"top_expenses"`
	Categories       []CategoryBreakdown     `json:"categories"`
	Temporal         TemporalBreakdown       `json:"temporal"`
	Recurring        []RecurringTransaction  `json:"recurring"`
	RecurringGroups  RecurringBreakdown      `json:"recurring_groups"`
	RecurringImpact  RecurringImpact         `json:"recurring_impact"`
	Anomalies        []Anomaly               `json:"anomalies"`
	CategoryAlerts   []CategoryAlert         `json:"category_alerts"`
	SpendingPatterns []SpendingPattern       `json:"spending_patterns"`
	Comparison       MonthlyComparison       `json:"comparison"`
	Projection       SmartProjection         `json:"projection"`
	Insights         []Insight               `json:"insights"`
	Transactions     []ClassifiedTransaction `json:"transactions"`
}
