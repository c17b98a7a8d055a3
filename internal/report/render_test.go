package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/billing"
)

func sampleReport(t *testing.T) *billing.Report {
	t.Helper()
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -15)
	accounts := []billing.AccountRecord{
		{
			ID:          1,
			PatientName: "Ada Moore",
			MRN:         "MRN-001",
			Phone:       "0400 111 222",
			TotalOwed:   decimal.NewFromInt(100),
			DueDate:     &due,
			CreatedAt:   now.AddDate(0, 0, -100),
		},
	}
	rep, err := billing.BuildReport(accounts, billing.ReportOptions{
		Criteria:        billing.ReportFilterCriteria{Bucket: billing.BucketOverdue},
		IncludeAging:    true,
		IncludeContacts: true,
		IncludeDetail:   true,
	}, now)
	require.NoError(t, err)
	return rep
}

func TestRenderHTML(t *testing.T) {
	rep := sampleReport(t)
	html, err := RenderHTML(RenderInput{
		Title:        "Overdue Accounts",
		PharmacyName: "TerryWhite Chemmart",
		GeneratedAt:  rep.GeneratedAt,
		Report:       rep,
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Overdue Accounts")
	assert.Contains(t, html, "Ada Moore")
	assert.Contains(t, html, "MRN-001")
	assert.Contains(t, html, "$100.00")
	assert.Contains(t, html, "overdue")
	// The 1-30 aging bucket carries the full amount.
	assert.Contains(t, html, "100.0%")
}

func TestRenderHTMLEmptyReport(t *testing.T) {
	rep, err := billing.BuildReport(nil, billing.ReportOptions{IncludeDetail: true},
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	html, err := RenderHTML(RenderInput{PharmacyName: "TerryWhite Chemmart", Report: rep, GeneratedAt: rep.GeneratedAt})
	require.NoError(t, err)
	assert.Contains(t, html, "No accounts matched")
}

func TestWriteCSV(t *testing.T) {
	rep := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rep))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "patient_name")
	assert.Contains(t, lines[1], "Ada Moore")
	assert.Contains(t, lines[1], "100.00")
	assert.Contains(t, lines[1], "overdue")
	assert.Contains(t, lines[1], "15")
}
