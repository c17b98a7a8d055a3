package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/billing"
)

// WriteCSV streams the report's account rows as CSV. Column values are
// plain: ISO dates and bare decimal amounts, no currency symbols.
func WriteCSV(w io.Writer, rep *billing.Report) error {
	cw := csv.NewWriter(w)

	header := []string{
		"patient_name", "mrn", "phone", "total_owed", "status",
		"effective_due_date", "days_overdue", "last_payment_date", "last_payment_amount",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range rep.Rows {
		a := row.Account
		rec := []string{
			a.PatientName,
			a.MRN,
			a.Phone,
			a.TotalOwed.StringFixed(2),
			string(row.Status),
			csvDate(row.EffectiveDueDate),
			strconv.Itoa(row.DaysOverdue),
			csvDate(a.LastPaymentDate),
			csvAmount(a),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func csvAmount(a billing.AccountRecord) string {
	if a.LastPaymentAmount == nil {
		return ""
	}
	return a.LastPaymentAmount.StringFixed(2)
}
