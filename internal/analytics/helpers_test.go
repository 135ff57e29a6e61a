package analytics

import (
	"testing"
	"time"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/model"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d
		}
	}
	t.Fatalf("bad test date %q", s)
	return time.Time{}
}

func mkTx(t *testing.T, id, date string, amount float64, merchant string) model.Transaction {
	t.Helper()
	return model.Transaction{
		ID:            id,
		Date:          mustTime(t, date),
		HasTime:       len(date) > len("2006-01-02"),
		Amount:        amount,
		Merchant:      merchant,
		PaymentMethod: model.PaymentDebitCard,
	}
}

func newTestEngine(t *testing.T, today string) *Engine {
	t.Helper()
	return New(config.DefaultRules(), WithToday(mustTime(t, today)))
}

func classify(e *Engine, txs ...model.Transaction) []model.ClassifiedTransaction {
	return e.Classifier().ClassifyAll(txs)
}

func approx(a, b float64) bool {
	d := a - b
	return d < 0.01 && d > -0.01
}
