package tasks

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/models"
)

func TestBuildOverdueDigest(t *testing.T) {
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	accounts := []models.Account{
		{
			PatientName: "John Smith",
			MRN:         "MRN-001",
			Phone:       "0400 000 001",
			TotalOwed:   decimal.NewFromFloat(150.50),
			DueDate:     &due,
		},
	}

	body := buildOverdueDigest(accounts, now)

	assert.Contains(t, body, "15 Mar 2026")
	assert.Contains(t, body, "John Smith")
	assert.Contains(t, body, "MRN-001")
	assert.Contains(t, body, "$150.50")
	assert.Contains(t, body, "10 day(s) overdue")
}
