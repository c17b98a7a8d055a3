package tasks

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/models"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/services"
)

// RefreshAccountStatusesTaskDef encapsulates the nightly status sweep.
// Statuses are recomputed on every balance mutation, but an account with no
// activity still drifts past its due date; the sweep catches those.
type RefreshAccountStatusesTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *RefreshAccountStatusesTaskDef) TaskID() string {
	return "refresh_account_statuses"
}

// CreateTask builds the recurring nightly task record
func (t *RefreshAccountStatusesTaskDef) CreateTask(firstRun time.Time, rruleStr string) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{}, firstRun, &rruleStr, models.ScheduledTaskTypeRecurring, 3)
}

// HandleExecution recomputes every account's status against today's date
func (t *RefreshAccountStatusesTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	changed, err := services.NewAccountService(db).RefreshStatuses(time.Now())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"status":  "success",
		"changed": changed,
	}, nil
}

// RefreshAccountStatusesTask is the singleton instance of RefreshAccountStatusesTaskDef
var RefreshAccountStatusesTask = &RefreshAccountStatusesTaskDef{}
