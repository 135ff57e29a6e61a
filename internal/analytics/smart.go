package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/theirongolddev/cashburn/internal/model"
)

const (
	salaryMaxStdev      = 5.0
	salaryMinInterval   = 20.0
	salaryMaxInterval   = 35.0
	patternDeviation    = 0.30
	salaryIncomeWeight  = 0.5
	trendExpenseWeight  = 0.3
	scenarioSwing       = 0.20
	scenarioProbability = 0.25
)

// ProjectSmart adjusts the baseline with historical patterns and the
// seasonal table, scores confidence from named factors, and adds alternative
// scenarios. history holds every classified transaction up to today.
func (e *Engine) ProjectSmart(base model.Projection, history []model.ClassifiedTransaction, balance float64, today time.Time) model.SmartProjection {
	sorted := make([]model.ClassifiedTransaction, len(history))
	copy(sorted, history)
	sortByDate(sorted)

	expenses := expensesOf(sorted)
	patterns := make([]model.HistoricalPattern, 0)
	patterns = append(patterns, salaryCycles(sorted)...)
	if p, ok := weeklyPattern(expenses); ok {
		patterns = append(patterns, p)
	}
	if p, ok := monthlyTrend(expenses); ok {
		patterns = append(patterns, p)
	}
	patterns = append(patterns, seasonalPatterns(expenses, model.YearMonthOf(today))...)

	factor := e.rules.Seasonal.Factor(base.Month.Month)
	dailyIncome := base.AverageDailyIncome * factor
	dailyExpense := base.AverageDailyExpense * factor
	adjustment := model.SeasonalAdjustment{
		Month:                base.Month.Month,
		Factor:               factor,
		AdjustedDailyIncome:  round2(dailyIncome),
		AdjustedDailyExpense: round2(dailyExpense),
	}

	salary, hasSalary := strongest(patterns, model.PatternSalaryCycle)
	if hasSalary {
		dailyIncome *= 1 + salary.Impact*salaryIncomeWeight
	}
	if trend, ok := strongest(patterns, model.PatternMonthly); ok {
		dailyExpense *= 1 + trend.Impact*trendExpenseWeight
	}

	sp := model.SmartProjection{
		Projection:         base,
		Baseline:           base,
		HistoricalPatterns: patterns,
		SeasonalAdjustment: adjustment,
	}
	remaining := float64(base.DaysRemaining)
	sp.AverageDailyIncome = round2(dailyIncome)
	sp.AverageDailyExpense = round2(dailyExpense)
	sp.ProjectedIncome = round2(dailyIncome * remaining)
	sp.ProjectedExpense = round2(dailyExpense * remaining)
	sp.FinalBalanceProjection = round2(balance + sp.ProjectedIncome - sp.ProjectedExpense)

	sp.ConfidenceFactors = confidenceFactors(sorted, len(patterns), base.TransactionCount, today)
	sp.ConfidenceScore, sp.Confidence = scoreConfidence(sp.ConfidenceFactors)
	if base.TransactionCount < 10 && sp.Confidence == model.ConfidenceHigh {
		sp.Confidence = model.ConfidenceMedium
	}

	sp.AlternativeScenarios = scenarios(sp.Projection, balance, salary, hasSalary, base.Month)
	return sp
}

func strongest(patterns []model.HistoricalPattern, kind string) (model.HistoricalPattern, bool) {
	var (
		best  model.HistoricalPattern
		found bool
	)
	for _, p := range patterns {
		if p.PatternType == kind && (!found || p.Impact > best.Impact) {
			best, found = p, true
		}
	}
	return best, found
}

// salaryCycles finds income merchants arriving on a regular 20-35 day cycle.
func salaryCycles(history []model.ClassifiedTransaction) []model.HistoricalPattern {
	var out []model.HistoricalPattern
	isIncome := func(tx model.ClassifiedTransaction) bool { return tx.Classification.IsIncome }
	for _, g := range groupByMerchant(history, isIncome) {
		if len(g.txs) < 3 {
			continue
		}
		intervals := intervalsInDays(g.txs)
		m := mean(intervals)
		sd := stdev(intervals, m)
		if sd >= salaryMaxStdev || m < salaryMinInterval || m > salaryMaxInterval {
			continue
		}

		amounts := make([]float64, len(g.txs))
		for i, tx := range g.txs {
			amounts[i] = tx.Magnitude()
		}
		last := g.txs[len(g.txs)-1]
		next := civil(last.Date).AddDate(0, 0, int(math.Round(m)))

		conf := model.ConfidenceMedium
		if len(g.txs) >= 4 && sd < 2 {
			conf = model.ConfidenceHigh
		}

		var examples []string
		for i := len(g.txs) - 1; i >= 0 && len(examples) < 3; i-- {
			tx := g.txs[i]
			examples = append(examples, fmt.Sprintf("%s: %.2f", tx.Date.Format("2006-01-02"), tx.Magnitude()))
		}

		out = append(out, model.HistoricalPattern{
			PatternType:  model.PatternSalaryCycle,
			Description:  fmt.Sprintf("income from %s arrives every %.0f days (±%.1f)", last.Merchant, m, sd),
			Confidence:   conf,
			Impact:       round2(0.2 + 0.2*(1-sd/salaryMaxStdev)),
			Examples:     examples,
			Merchant:     last.Merchant,
			AverageValue: round2(mean(amounts)),
			NextExpected: &next,
		})
	}
	return out
}

// weeklyPattern reports the weekday whose spending most exceeds the weekday
// average, when the excess is above the deviation threshold.
func weeklyPattern(expenses []model.ClassifiedTransaction) (model.HistoricalPattern, bool) {
	if len(expenses) < 7 {
		return model.HistoricalPattern{}, false
	}
	span := daysBetween(expenses[0].Date, expenses[len(expenses)-1].Date) + 1
	if span < 14 {
		return model.HistoricalPattern{}, false
	}

	var totals [7]float64
	var counts [7]int
	var sum float64
	for _, tx := range expenses {
		wd := tx.Date.Weekday()
		totals[wd] += tx.Magnitude()
		counts[wd]++
		sum += tx.Magnitude()
	}
	avg := sum / 7
	if avg == 0 {
		return model.HistoricalPattern{}, false
	}

	peak := time.Sunday
	for d := time.Monday; d <= time.Saturday; d++ {
		if totals[d] > totals[peak] {
			peak = d
		}
	}
	dev := (totals[peak] - avg) / avg
	if dev <= patternDeviation {
		return model.HistoricalPattern{}, false
	}

	conf := model.ConfidenceLow
	if span >= 28 {
		conf = model.ConfidenceMedium
	}
	return model.HistoricalPattern{
		PatternType: model.PatternWeekly,
		Description: fmt.Sprintf("spending concentrates on %ss: %.0f%% above the weekday average", peak, dev*100),
		Confidence:  conf,
		Impact:      round2(math.Min(1, dev/2)),
		Examples: []string{
			fmt.Sprintf("%s: %.2f over %d purchases", peak, totals[peak], counts[peak]),
			fmt.Sprintf("weekday average: %.2f", avg),
		},
	}, true
}

// monthlyTrend compares daily spending in the later half of the history with
// the earlier half and reports a sustained increase.
func monthlyTrend(expenses []model.ClassifiedTransaction) (model.HistoricalPattern, bool) {
	if len(expenses) < 4 {
		return model.HistoricalPattern{}, false
	}
	first := civil(expenses[0].Date)
	span := daysBetween(first, expenses[len(expenses)-1].Date) + 1
	if span < 14 {
		return model.HistoricalPattern{}, false
	}
	firstDays := span / 2
	mid := first.AddDate(0, 0, firstDays)

	var early, late float64
	for _, tx := range expenses {
		if civil(tx.Date).Before(mid) {
			early += tx.Magnitude()
		} else {
			late += tx.Magnitude()
		}
	}
	earlyDaily := early / float64(firstDays)
	lateDaily := late / float64(span-firstDays)
	if earlyDaily == 0 || lateDaily <= earlyDaily*(1+patternDeviation) {
		return model.HistoricalPattern{}, false
	}

	ratio := lateDaily / earlyDaily
	conf := model.ConfidenceLow
	if len(expenses) >= 10 {
		conf = model.ConfidenceMedium
	}
	return model.HistoricalPattern{
		PatternType: model.PatternMonthly,
		Description: fmt.Sprintf("daily spending rose %.0f%% in the recent half of the history", (ratio-1)*100),
		Confidence:  conf,
		Impact:      round2(math.Min(1, ratio-1)),
		Examples: []string{
			fmt.Sprintf("earlier half: %.2f/day", earlyDaily),
			fmt.Sprintf("recent half: %.2f/day", lateDaily),
		},
	}, true
}

// seasonalPatterns flags completed months whose spending deviates from the
// average month. current is excluded since it is still in progress.
func seasonalPatterns(expenses []model.ClassifiedTransaction, current model.YearMonth) []model.HistoricalPattern {
	totals := make(map[model.YearMonth]float64)
	for _, tx := range expenses {
		ym := model.YearMonthOf(tx.Date)
		if ym == current {
			continue
		}
		totals[ym] += tx.Magnitude()
	}
	if len(totals) < 3 {
		return nil
	}

	var sum float64
	for _, v := range totals {
		sum += v
	}
	avg := sum / float64(len(totals))
	if avg == 0 {
		return nil
	}

	type dev struct {
		ym    model.YearMonth
		total float64
		dev   float64
	}
	var devs []dev
	for ym, v := range totals {
		d := (v - avg) / avg
		if math.Abs(d) > patternDeviation {
			devs = append(devs, dev{ym: ym, total: v, dev: d})
		}
	}
	sort.Slice(devs, func(i, j int) bool {
		if math.Abs(devs[i].dev) != math.Abs(devs[j].dev) {
			return math.Abs(devs[i].dev) > math.Abs(devs[j].dev)
		}
		return devs[i].ym.String() < devs[j].ym.String()
	})

	conf := model.ConfidenceLow
	if len(totals) >= 6 {
		conf = model.ConfidenceMedium
	}
	var out []model.HistoricalPattern
	for i, d := range devs {
		if i == 3 {
			break
		}
		dir := "above"
		if d.dev < 0 {
			dir = "below"
		}
		out = append(out, model.HistoricalPattern{
			PatternType: model.PatternSeasonal,
			Description: fmt.Sprintf("%s %d spending was %.0f%% %s the monthly average",
				d.ym.Month, d.ym.Year, math.Abs(d.dev)*100, dir),
			Confidence: conf,
			Impact:     round2(math.Min(1, math.Abs(d.dev)) / 2),
			Examples: []string{
				fmt.Sprintf("%s: %.2f", d.ym, d.total),
				fmt.Sprintf("average month: %.2f", avg),
			},
		})
	}
	return out
}

func confidenceFactors(history []model.ClassifiedTransaction, patternCount, periodCount int, today time.Time) []model.ConfidenceFactor {
	historyDays := 0
	if len(history) > 0 {
		historyDays = max(daysBetween(history[0].Date, today)+1, 0)
	}

	factors := make([]model.ConfidenceFactor, 0, 3)
	switch {
	case historyDays >= 90:
		factors = append(factors, model.ConfidenceFactor{Name: "data_volume", Weight: 0.3,
			Description: fmt.Sprintf("%d days of history", historyDays)})
	case historyDays >= 30:
		factors = append(factors, model.ConfidenceFactor{Name: "data_volume", Weight: 0.15,
			Description: fmt.Sprintf("%d days of history", historyDays)})
	default:
		factors = append(factors, model.ConfidenceFactor{Name: "data_volume", Weight: -0.2,
			Description: fmt.Sprintf("only %d days of history", historyDays)})
	}

	switch {
	case patternCount >= 2:
		factors = append(factors, model.ConfidenceFactor{Name: "pattern_count", Weight: 0.2,
			Description: fmt.Sprintf("%d historical patterns detected", patternCount)})
	case patternCount == 1:
		factors = append(factors, model.ConfidenceFactor{Name: "pattern_count", Weight: 0.1,
			Description: "1 historical pattern detected"})
	default:
		factors = append(factors, model.ConfidenceFactor{Name: "pattern_count", Weight: -0.1,
			Description: "no historical patterns detected"})
	}

	switch {
	case periodCount >= 10:
		factors = append(factors, model.ConfidenceFactor{Name: "sample_size", Weight: 0.25,
			Description: fmt.Sprintf("%d transactions this month", periodCount)})
	case periodCount >= 5:
		factors = append(factors, model.ConfidenceFactor{Name: "sample_size", Weight: 0.1,
			Description: fmt.Sprintf("%d transactions this month", periodCount)})
	default:
		factors = append(factors, model.ConfidenceFactor{Name: "sample_size", Weight: -0.25,
			Description: fmt.Sprintf("only %d transactions this month", periodCount)})
	}
	return factors
}

// scoreConfidence computes (Σpositive − Σ|negative|) / Σ|all|.
func scoreConfidence(factors []model.ConfidenceFactor) (float64, model.Confidence) {
	var pos, neg float64
	for _, f := range factors {
		if f.Weight >= 0 {
			pos += f.Weight
		} else {
			neg += -f.Weight
		}
	}
	if pos+neg == 0 {
		return 0, model.ConfidenceLow
	}
	score := round2((pos - neg) / (pos + neg))
	switch {
	case score > 0.3:
		return score, model.ConfidenceHigh
	case score > -0.1:
		return score, model.ConfidenceMedium
	}
	return score, model.ConfidenceLow
}

func scenarios(p model.Projection, balance float64, salary model.HistoricalPattern, hasSalary bool, month model.YearMonth) []model.Scenario {
	out := []model.Scenario{
		scenario("optimistic", fmt.Sprintf("expenses %.0f%% below projection", scenarioSwing*100),
			balance, p.ProjectedIncome, p.ProjectedExpense*(1-scenarioSwing), scenarioProbability),
		scenario("pessimistic", fmt.Sprintf("expenses %.0f%% above projection", scenarioSwing*100),
			balance, p.ProjectedIncome, p.ProjectedExpense*(1+scenarioSwing), scenarioProbability),
	}
	if !hasSalary || salary.NextExpected == nil {
		return out
	}

	next := *salary.NextExpected
	prob := 0.5
	if salary.Confidence == model.ConfidenceHigh {
		prob = 0.7
	}
	desc := fmt.Sprintf("%s pays %.2f around %s", salary.Merchant, salary.AverageValue, next.Format("2006-01-02"))
	if !month.Contains(next) {
		prob = 0.2
		desc += " (may land after month end)"
	}
	return append(out, scenario("expected_next_income", desc, balance, salary.AverageValue, p.ProjectedExpense, prob))
}

func scenario(name, desc string, balance, income, expense, prob float64) model.Scenario {
	return model.Scenario{
		Name:             name,
		Description:      desc,
		ProjectedIncome:  round2(income),
		ProjectedExpense: round2(expense),
		ProjectedBalance: round2(balance + income - expense),
		Probability:      prob,
	}
}
