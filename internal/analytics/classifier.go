package analytics

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/model"
)

// Classifier labels transactions as income or expense and resolves their
// category. It only reads its rules.
type Classifier struct {
	rules config.Rules
}

// NewClassifier returns a classifier over the given rules.
func NewClassifier(rules config.Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify decides the direction of tx. Merchant evidence beats the
// transaction type, which beats the amount sign. A sign that disagrees with
// merchant or type evidence is flagged as a conflict but does not change the
// decision.
func (c *Classifier) Classify(tx model.Transaction) model.Classification {
	merchant := normalizeMerchant(tx.Merchant)

	if kw, ok := matchKeyword(merchant, c.rules.IncomeKeywords); ok {
		return withSignCheck(model.Classification{
			IsIncome:   true,
			Confidence: model.ConfidenceHigh,
			Reason:     fmt.Sprintf("merchant matches income keyword %q", kw),
		}, tx.Amount)
	}
	if kw, ok := matchKeyword(merchant, c.rules.RefundKeywords); ok {
		return withSignCheck(model.Classification{
			IsIncome:   true,
			Confidence: model.ConfidenceMedium,
			Reason:     fmt.Sprintf("merchant matches refund keyword %q", kw),
		}, tx.Amount)
	}
	if kw, ok := matchKeyword(merchant, c.rules.ExpenseKeywords); ok {
		return withSignCheck(model.Classification{
			IsIncome:   false,
			Confidence: model.ConfidenceHigh,
			Reason:     fmt.Sprintf("merchant matches expense keyword %q", kw),
		}, tx.Amount)
	}

	switch {
	case tx.Type.IsInflow():
		return withSignCheck(model.Classification{
			IsIncome:   true,
			Confidence: model.ConfidenceHigh,
			Reason:     fmt.Sprintf("transaction type is %s", tx.Type),
		}, tx.Amount)
	case tx.Type.IsOutflow():
		return withSignCheck(model.Classification{
			IsIncome:   false,
			Confidence: model.ConfidenceHigh,
			Reason:     fmt.Sprintf("transaction type is %s", tx.Type),
		}, tx.Amount)
	}

	if tx.Amount > 0 {
		return model.Classification{IsIncome: true, Confidence: model.ConfidenceLow, Reason: "positive amount"}
	}
	return model.Classification{IsIncome: false, Confidence: model.ConfidenceLow, Reason: "non-positive amount"}
}

func withSignCheck(cls model.Classification, amount float64) model.Classification {
	switch {
	case cls.IsIncome && amount < 0:
		cls.Conflict = true
		cls.Reason += "; conflict: negative amount on an income record"
	case !cls.IsIncome && amount > 0:
		cls.Conflict = true
		cls.Reason += "; conflict: positive amount on an expense record"
	}
	return cls
}

// Categorize keeps a meaningful category already on tx, otherwise takes the
// first keyword-table match that fits the classified direction. Salary only
// applies to income; investment and transfer apply to both; everything else
// applies to expenses. No match yields other.
func (c *Classifier) Categorize(tx model.Transaction, cls model.Classification) model.Category {
	if !tx.Category.IsPlaceholder() {
		return tx.Category
	}

	merchant := normalizeMerchant(tx.Merchant)
	for _, ck := range c.rules.CategoryKeywords {
		if ck.Keyword == "" || !strings.Contains(merchant, ck.Keyword) {
			continue
		}
		if categoryFits(ck.Category, cls.IsIncome) {
			return ck.Category
		}
	}
	return model.CategoryOther
}

func categoryFits(cat model.Category, income bool) bool {
	switch cat {
	case model.CategorySalary:
		return income
	case model.CategoryInvestment, model.CategoryTransfer:
		return true
	default:
		return !income
	}
}

// Suspicion explains why a transaction looks suspicious.
type Suspicion struct {
	Reason      string
	Explanation string
	Confidence  model.Confidence
}

// IsSuspicious reports whether tx matches a gambling keyword or an unusual
// amount.
func (c *Classifier) IsSuspicious(tx model.Transaction) bool {
	_, ok := c.Suspicion(tx)
	return ok
}

// Suspicion collects every suspicious signal on tx into one finding.
func (c *Classifier) Suspicion(tx model.Transaction) (Suspicion, bool) {
	var (
		reasons []string
		notes   []string
		conf    model.Confidence
	)
	raise := func(to model.Confidence) {
		if to.Rank() > conf.Rank() {
			conf = to
		}
	}

	magnitude := math.Abs(tx.Amount)
	if kw, ok := matchWord(normalizeMerchant(tx.Merchant), c.rules.GamblingKeywords); ok {
		reasons = append(reasons, fmt.Sprintf("suspicious merchant (gambling keyword %q)", kw))
		notes = append(notes, "gambling and chance-based games are a common source of uncontrolled spending")
		raise(model.ConfidenceHigh)
	}
	if c.isMemeAmount(magnitude) {
		reasons = append(reasons, fmt.Sprintf("suspicious amount %.2f", magnitude))
		notes = append(notes, "the amount is a repeated-digit number typical of game top-ups and bets")
		raise(model.ConfidenceHigh)
	}
	if isLargeRound(magnitude) {
		reasons = append(reasons, fmt.Sprintf("large round amount %.2f", magnitude))
		notes = append(notes, "large round-thousand transfers are worth double-checking")
		raise(model.ConfidenceMedium)
	}

	if len(reasons) == 0 {
		return Suspicion{}, false
	}
	return Suspicion{
		Reason:      strings.Join(reasons, "; "),
		Explanation: strings.Join(notes, "; "),
		Confidence:  conf,
	}, true
}

func (c *Classifier) isMemeAmount(magnitude float64) bool {
	for _, m := range c.rules.MemeAmounts {
		if math.Abs(magnitude-m) < 0.005 {
			return true
		}
	}
	return false
}

func isLargeRound(magnitude float64) bool {
	cents := int64(math.Round(magnitude * 100))
	return magnitude > 10000 && cents%100000 == 0
}

// ClassifyAll labels every transaction, preserving input order.
func (c *Classifier) ClassifyAll(txs []model.Transaction) []model.ClassifiedTransaction {
	out := make([]model.ClassifiedTransaction, 0, len(txs))
	for _, tx := range txs {
		cls := c.Classify(tx)
		out = append(out, model.ClassifiedTransaction{
			Transaction:      tx,
			Classification:   cls,
			ResolvedCategory: c.Categorize(tx, cls),
			Suspicious:       c.IsSuspicious(tx),
		})
	}
	return out
}
