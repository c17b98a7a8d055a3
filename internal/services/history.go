package services

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/billing"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/models"
)

// historyFetchWorkers bounds how many per-account history queries run at
// once during bulk report generation.
const historyFetchWorkers = 8

// HistoryFetcher materializes accounts with their full payment and call
// history into the aggregator's in-memory shape. History for each account
// is fetched concurrently but bounded, then aggregation runs synchronously
// over the complete collection; report sizes are hundreds of accounts, so
// nothing is streamed.
type HistoryFetcher struct {
	db *gorm.DB
}

func NewHistoryFetcher(db *gorm.DB) *HistoryFetcher {
	return &HistoryFetcher{db: db}
}

// FetchRecords loads the given accounts' histories and maps everything to
// billing.AccountRecord, preserving input order.
func (f *HistoryFetcher) FetchRecords(ctx context.Context, accounts []models.Account) ([]billing.AccountRecord, error) {
	records := make([]billing.AccountRecord, len(accounts))
	errs := make([]error, len(accounts))

	sem := make(chan struct{}, historyFetchWorkers)
	var wg sync.WaitGroup
	for i := range accounts {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			records[i], errs[i] = f.fetchOne(ctx, accounts[i])
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (f *HistoryFetcher) fetchOne(ctx context.Context, account models.Account) (billing.AccountRecord, error) {
	var payments []models.Payment
	if err := f.db.WithContext(ctx).
		Where("account_id = ?", account.ID).
		Order("payment_date desc").
		Find(&payments).Error; err != nil {
		return billing.AccountRecord{}, err
	}

	var calls []models.CallLog
	if err := f.db.WithContext(ctx).
		Where("account_id = ?", account.ID).
		Order("call_date desc").
		Find(&calls).Error; err != nil {
		return billing.AccountRecord{}, err
	}

	account.Payments = payments
	account.CallLogs = calls
	return account.ToRecord(), nil
}
