package model

import "strings"

// Confidence grades how certain a classification, anomaly, or projection is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidences for sorting and comparison (high=3, low=1, invalid=0).
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	}
	return 0
}

// Valid reports whether c is one of the three known grades.
func (c Confidence) Valid() bool { return c.Rank() > 0 }

// MinConfidence returns the weaker of a and b.
func MinConfidence(a, b Confidence) Confidence {
	if a.Rank() <= b.Rank() {
		return a
	}
	return b
}

// Severity grades a category alert.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities (critical=4, low=1).
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Category is the fixed spending/income taxonomy.
type Category string

const (
	CategoryNone           Category = ""
	CategorySalary         Category = "salary"
	CategoryInvestment     Category = "investment"
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryHealth         Category = "health"
	CategoryEntertainment  Category = "entertainment"
	CategoryShopping       Category = "shopping"
	CategoryHousing        Category = "housing"
	CategoryUtilities      Category = "utilities"
	CategoryEducation      Category = "education"
	CategoryTransfer       Category = "transfer"
	CategoryOther          Category = "other"
)

// Categories lists every concrete category in display order.
func Categories() []Category {
	return []Category{
		CategorySalary, CategoryInvestment, CategoryFood, CategoryTransportation,
		CategoryHealth, CategoryEntertainment, CategoryShopping, CategoryHousing,
		CategoryUtilities, CategoryEducation, CategoryTransfer, CategoryOther,
	}
}

// IsPlaceholder reports whether c carries no usable category information.
func (c Category) IsPlaceholder() bool {
	return c == CategoryNone || c == CategoryOther
}

// ParseCategory maps free text to a Category. Unknown or placeholder text
// ("uncategorized", "n/a", ...) yields CategoryNone.
func ParseCategory(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "utility":
		return CategoryUtilities
	case "transport":
		return CategoryTransportation
	case "income", "wage", "wages":
		return CategorySalary
	case "investments":
		return CategoryInvestment
	}
	for _, c := range Categories() {
		if string(c) == s {
			return c
		}
	}
	return CategoryNone
}

// PaymentMethod is how a transaction was paid.
type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentDebitCard     PaymentMethod = "debit_card"
	PaymentCreditCard    PaymentMethod = "credit_card"
	PaymentBankTransfer  PaymentMethod = "bank_transfer"
	PaymentPix           PaymentMethod = "pix"
	PaymentDigitalWallet PaymentMethod = "digital_wallet"
	PaymentUnknown       PaymentMethod = "unknown"
)

// ParsePaymentMethod maps free text to a PaymentMethod, defaulting to unknown.
func ParsePaymentMethod(s string) PaymentMethod {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	switch s {
	case "cash", "money":
		return PaymentCash
	case "debit", "debit_card":
		return PaymentDebitCard
	case "credit", "credit_card", "card":
		return PaymentCreditCard
	case "transfer", "bank_transfer", "wire", "ted", "doc":
		return PaymentBankTransfer
	case "pix":
		return PaymentPix
	case "wallet", "digital_wallet", "apple_pay", "google_pay", "paypal":
		return PaymentDigitalWallet
	}
	return PaymentUnknown
}

// TransactionType is the optional direction hint carried by a record.
type TransactionType string

const (
	TypeNone       TransactionType = ""
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeExpense    TransactionType = "expense"
	TypeIncome     TransactionType = "income"
)

// ParseTransactionType maps free text to a TransactionType, defaulting to none.
func ParseTransactionType(s string) TransactionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit", "credit":
		return TypeDeposit
	case "withdrawal", "withdraw", "debit":
		return TypeWithdrawal
	case "expense", "purchase", "payment":
		return TypeExpense
	case "income":
		return TypeIncome
	}
	return TypeNone
}

// IsInflow reports whether the type signals money coming in.
func (t TransactionType) IsInflow() bool { return t == TypeDeposit || t == TypeIncome }

// IsOutflow reports whether the type signals money going out.
func (t TransactionType) IsOutflow() bool { return t == TypeExpense || t == TypeWithdrawal }

// Trend is the direction of a series over the analysis window.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// DayPeriod is a time-of-day bucket.
type DayPeriod string

const (
	PeriodMorning   DayPeriod = "morning"
	PeriodAfternoon DayPeriod = "afternoon"
	PeriodEvening   DayPeriod = "evening"
	PeriodNight     DayPeriod = "night"
)

// DayPeriods lists the buckets in display order.
func DayPeriods() []DayPeriod {
	return []DayPeriod{PeriodMorning, PeriodAfternoon, PeriodEvening, PeriodNight}
}

// DayPeriodOf returns the bucket for an hour of day (0-23).
func DayPeriodOf(hour int) DayPeriod {
	switch {
	case hour < 6:
		return PeriodNight
	case hour < 12:
		return PeriodMorning
	case hour < 18:
		return PeriodAfternoon
	default:
		return PeriodEvening
	}
}
