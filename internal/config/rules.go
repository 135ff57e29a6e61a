package config

import (
	"strings"

	"github.com/theirongolddev/cashburn/internal/model"
)

// CategoryKeyword maps a merchant substring to a category. Tables of these
// are scanned in order and the first match wins.
type CategoryKeyword struct {
	Keyword  string         `toml:"keyword"`
	Category model.Category `toml:"category"`
}

// Thresholds are the numeric cut-offs used by the anomaly and projection passes.
type Thresholds struct {
	LargeExpenseIncomeShare  float64
	StatisticalIncomeShare   float64
	StatisticalMinSample     int
	ProblematicAmount        float64
	CumulativeIncomeShare    float64
	NightLargeAmount         float64
	SweetCountLimit          int
	SweetSpendLimit          float64
	SweetTrendIncrease       float64
	FrequencyHighPer30Days   float64
	FrequencyMediumPer30Days float64
	ReductionPercent         float64
	ReductionCategories      int
	TopN                     int
}

// Rules is the injectable rule data the analytics engine runs on. Build it
// with DefaultRules or Config.Rules; every call returns fresh slices so
// callers cannot alter another caller's tables.
type Rules struct {
	IncomeKeywords        []string
	RefundKeywords        []string
	ExpenseKeywords       []string
	GamblingKeywords      []string
	SweetKeywords         []string
	CategoryKeywords      []CategoryKeyword
	MemeAmounts           []float64
	WatchCategories       []model.Category
	ProblematicCategories []model.Category
	Suggestions           map[model.Category][]string
	Seasonal              SeasonalTable
	Thresholds            Thresholds
}

// DefaultRules returns the built-in keyword tables and thresholds.
func DefaultRules() Rules {
	return Rules{
		IncomeKeywords: []string{
			"salary", "payroll", "paycheck", "wage", "deposit", "commission",
			"bonus", "dividend", "freelance", "invoice paid", "pension", "yield",
		},
		RefundKeywords: []string{
			"refund", "reimbursement", "cashback", "chargeback", "reversal", "estorno",
		},
		ExpenseKeywords: []string{
			"market", "grocery", "restaurant", "ifood", "uber", "99app", "netflix",
			"spotify", "amazon", "pharmacy", "drugstore", "fuel", "gas station",
			"rent", "electric", "water bill", "internet", "phone bill", "store",
			"shop", "subscription", "purchase", "fee", "tax", "insurance",
		},
		GamblingKeywords: []string{
			"bet", "bets", "betting", "bet365", "betano", "sportsbet", "casino",
			"poker", "lottery", "loteria", "gacha", "slots", "slot machine",
			"bingo", "roulette", "jackpot", "blaze", "tigrinho", "fortune tiger",
		},
		SweetKeywords: []string{
			"ifood", "rappi", "delivery", "doceria", "confeitaria", "candy",
			"chocolate", "ice cream", "sorvete", "bakery", "padaria", "donut",
			"dessert", "cake", "sweet",
		},
		CategoryKeywords: defaultCategoryKeywords(),
		MemeAmounts:      []float64{666, 6666, 7777, 8888, 9999},
		WatchCategories: []model.Category{
			model.CategoryFood, model.CategoryEntertainment, model.CategoryShopping,
			model.CategoryTransportation, model.CategoryUtilities,
		},
		ProblematicCategories: []model.Category{
			model.CategoryEntertainment, model.CategoryShopping, model.CategoryFood,
		},
		Suggestions: defaultSuggestions(),
		Seasonal:    DefaultSeasonalTable(),
		Thresholds: Thresholds{
			LargeExpenseIncomeShare:  0.25,
			StatisticalIncomeShare:   0.20,
			StatisticalMinSample:     5,
			ProblematicAmount:        200,
			CumulativeIncomeShare:    0.40,
			NightLargeAmount:         100,
			SweetCountLimit:          10,
			SweetSpendLimit:          200,
			SweetTrendIncrease:       0.30,
			FrequencyHighPer30Days:   10,
			FrequencyMediumPer30Days: 5,
			ReductionPercent:         20,
			ReductionCategories:      3,
			TopN:                     10,
		},
	}
}

func defaultCategoryKeywords() []CategoryKeyword {
	table := []struct {
		cat      model.Category
		keywords []string
	}{
		{model.CategorySalary, []string{"salary", "payroll", "paycheck", "wage", "commission", "bonus", "freelance", "pension"}},
		{model.CategoryInvestment, []string{"dividend", "invest", "broker", "stock", "crypto", "treasury", "savings", "yield"}},
		{model.CategoryFood, []string{
			"market", "grocery", "restaurant", "food", "ifood", "rappi", "pizza", "burger",
			"coffee", "cafe", "bakery", "padaria", "delivery", "candy", "chocolate", "ice cream",
		}},
		{model.CategoryTransportation, []string{"uber", "99app", "taxi", "fuel", "gas station", "parking", "metro", "bus fare", "toll", "train"}},
		{model.CategoryHealth, []string{"pharmacy", "drugstore", "hospital", "clinic", "doctor", "dental", "laboratory", "gym"}},
		{model.CategoryEntertainment, []string{
			"netflix", "spotify", "disney", "hbo", "cinema", "movie", "steam", "playstation",
			"xbox", "game", "concert", "ticket", "gacha", "casino", "betting", "bet365", "sportsbet",
		}},
		{model.CategoryHousing, []string{"rent", "mortgage", "condo", "landlord", "property"}},
		{model.CategoryUtilities, []string{"electric", "energy", "water bill", "internet", "phone bill", "mobile", "telecom", "gas bill"}},
		{model.CategoryEducation, []string{"school", "course", "university", "tuition", "udemy", "bookstore"}},
		{model.CategoryShopping, []string{"amazon", "store", "shop", "mall", "clothing", "shein", "mercado livre"}},
		{model.CategoryTransfer, []string{"transfer", "pix to", "wire"}},
	}

	var out []CategoryKeyword
	for _, row := range table {
		for _, kw := range row.keywords {
			out = append(out, CategoryKeyword{Keyword: kw, Category: row.cat})
		}
	}
	return out
}

func defaultSuggestions() map[model.Category][]string {
	return map[model.Category][]string{
		model.CategoryFood: {
			"Plan weekly meals and shop with a list",
			"Cap delivery orders to a fixed number per week",
			"Compare prices across markets for staple items",
		},
		model.CategoryEntertainment: {
			"Review streaming subscriptions and cancel unused ones",
			"Set a monthly entertainment allowance",
			"Look for free events before paid ones",
		},
		model.CategoryShopping: {
			"Wait 48 hours before non-essential purchases",
			"Unsubscribe from store promotions",
			"Set a monthly shopping limit",
		},
		model.CategoryTransportation: {
			"Combine errands into fewer trips",
			"Compare ride-hailing with public transport for regular routes",
		},
		model.CategoryUtilities: {
			"Check for plan downgrades on phone and internet",
			"Review energy usage for unusual spikes",
		},
	}
}

// Rules builds the effective rule set: defaults with the config's overrides
// applied on top.
func (c Config) Rules() Rules {
	r := DefaultRules()

	o := c.Overrides
	r.IncomeKeywords = replaceIfSet(r.IncomeKeywords, o.IncomeKeywords)
	r.RefundKeywords = replaceIfSet(r.RefundKeywords, o.RefundKeywords)
	r.ExpenseKeywords = replaceIfSet(r.ExpenseKeywords, o.ExpenseKeywords)
	r.GamblingKeywords = replaceIfSet(r.GamblingKeywords, o.GamblingKeywords)
	r.SweetKeywords = replaceIfSet(r.SweetKeywords, o.SweetKeywords)
	if len(o.CategoryKeywords) > 0 {
		r.CategoryKeywords = make([]CategoryKeyword, 0, len(o.CategoryKeywords))
		for _, ck := range o.CategoryKeywords {
			kw := normalizeKeyword(ck.Keyword)
			if kw == "" || ck.Category.IsPlaceholder() {
				continue
			}
			r.CategoryKeywords = append(r.CategoryKeywords, CategoryKeyword{Keyword: kw, Category: ck.Category})
		}
	}
	r.Seasonal = r.Seasonal.WithOverrides(o.SeasonalFactors)

	a := c.Analysis
	th := &r.Thresholds
	setFloat(&th.LargeExpenseIncomeShare, a.LargeExpenseIncomeShare)
	setFloat(&th.StatisticalIncomeShare, a.StatisticalIncomeShare)
	setFloat(&th.ProblematicAmount, a.ProblematicAmount)
	setFloat(&th.CumulativeIncomeShare, a.CumulativeIncomeShare)
	setFloat(&th.NightLargeAmount, a.NightLargeAmount)
	setFloat(&th.SweetSpendLimit, a.SweetSpendLimit)
	setFloat(&th.ReductionPercent, a.ReductionPercent)
	setFloat(&th.FrequencyHighPer30Days, a.FrequencyHighPer30Days)
	setFloat(&th.FrequencyMediumPer30Days, a.FrequencyMediumPer30Days)
	if a.SweetCountLimit > 0 {
		th.SweetCountLimit = a.SweetCountLimit
	}
	if c.General.TopN > 0 {
		th.TopN = c.General.TopN
	}

	return r
}

func replaceIfSet(def, override []string) []string {
	if len(override) == 0 {
		return def
	}
	out := make([]string, 0, len(override))
	for _, kw := range override {
		if kw = normalizeKeyword(kw); kw != "" {
			out = append(out, kw)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func setFloat(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func normalizeKeyword(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
