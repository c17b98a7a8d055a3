package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/billing"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/models"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/services"
)

// SendOverdueRemindersArgs defines the arguments for a reminder task.
// Recipients are the accounts-team addresses the digest goes to.
type SendOverdueRemindersArgs struct {
	Recipients   []string `json:"recipients"`
	Subject      string   `json:"subject"`
	AttemptCount int      `json:"attempt_count"`
}

// SendOverdueRemindersTaskDef encapsulates the overdue reminder digest
type SendOverdueRemindersTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *SendOverdueRemindersTaskDef) TaskID() string {
	return "send_overdue_reminders"
}

// CreateTask builds the recurring reminder task record
func (t *SendOverdueRemindersTaskDef) CreateTask(args SendOverdueRemindersArgs, firstRun time.Time, rruleStr string) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), args, firstRun, &rruleStr, models.ScheduledTaskTypeRecurring, 3)
}

// HandleExecution emails a digest of every overdue account to each
// recipient. Delivery failures are collected and rescheduled as a one-time
// retry for just the failed addresses, up to the task's attempt limit.
func (t *SendOverdueRemindersTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	argsBytes, err := json.Marshal(task.Arguments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal args: %w", err)
	}
	var parsedArgs SendOverdueRemindersArgs
	if err := json.Unmarshal(argsBytes, &parsedArgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal args: %w", err)
	}
	if len(parsedArgs.Recipients) == 0 {
		return map[string]interface{}{"status": "skipped", "message": "No recipients configured"}, nil
	}

	var accounts []models.Account
	if err := db.WithContext(ctx).
		Where("status = ?", billing.StatusOverdue).
		Order("due_date asc").
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch overdue accounts: %w", err)
	}
	if len(accounts) == 0 {
		return map[string]interface{}{"status": "skipped", "message": "No overdue accounts"}, nil
	}

	subject := parsedArgs.Subject
	if subject == "" {
		subject = fmt.Sprintf("Overdue accounts digest: %d account(s)", len(accounts))
	}
	body := buildOverdueDigest(accounts, time.Now())

	emailService := services.NewEmailService()
	successCount := 0
	var failures []string
	var failedRecipients []string

	for _, recipient := range parsedArgs.Recipients {
		if err := emailService.SendEmail([]string{recipient}, subject, body); err != nil {
			log.Printf("Failed to send overdue digest to %s: %v", recipient, err)
			failures = append(failures, fmt.Sprintf("%s: %v", recipient, err))
			failedRecipients = append(failedRecipients, recipient)
			continue
		}
		successCount++
	}

	result := map[string]interface{}{
		"total":    len(parsedArgs.Recipients),
		"success":  successCount,
		"failure":  len(failedRecipients),
		"accounts": len(accounts),
	}

	if len(failedRecipients) > 0 {
		result["errors"] = failures

		attempt := parsedArgs.AttemptCount
		maxRetries := task.MaxAttempt

		if attempt < maxRetries {
			log.Printf("Partial failure: %d recipients failed. Rescheduling for attempt %d", len(failedRecipients), attempt+1)

			newArgs := parsedArgs
			newArgs.Recipients = failedRecipients
			newArgs.AttemptCount = attempt + 1

			// Re-schedule in 5 minutes
			nextRun := time.Now().Add(5 * time.Minute)

			newTask, err := BuildScheduledTask(t.TaskID(), newArgs, nextRun, nil, models.ScheduledTaskTypeOneTime, maxRetries)
			if err == nil {
				db.Create(newTask)
			} else {
				log.Printf("Failed to create retry task: %v", err)
			}
		} else {
			log.Printf("Max attempts (%d) reached for %d failed recipients.", maxRetries, len(failedRecipients))
			return result, fmt.Errorf("max attempts reached, failed to deliver to %d recipients", len(failedRecipients))
		}
	}

	return result, nil
}

// SendOverdueRemindersTask is the singleton instance of SendOverdueRemindersTaskDef
var SendOverdueRemindersTask = &SendOverdueRemindersTaskDef{}

// buildOverdueDigest renders the plain-text body, one line per account,
// oldest debt first.
func buildOverdueDigest(accounts []models.Account, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overdue accounts as of %s:\n\n", now.Format("02 Jan 2006"))
	for _, account := range accounts {
		res := billing.DeriveStatus(account.StatusInput(), now)
		days := 0
		if res.EffectiveDueDate != nil {
			days = billing.DaysOverdue(*res.EffectiveDueDate, now)
		}
		fmt.Fprintf(&b, "- %s (MRN %s, %s): $%s owed, %d day(s) overdue\n",
			account.PatientName, account.MRN, account.Phone,
			account.TotalOwed.StringFixed(2), days)
	}
	b.WriteString("\nPlease follow up with the patients above.\n")
	return b.String()
}
