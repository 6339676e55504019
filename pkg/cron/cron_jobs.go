package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"spendtrack/internal/ledger"
	"spendtrack/internal/models"
	"spendtrack/pkg/utils"
)

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs daily at midnight — recurring expense reminders
	_, err := c.AddFunc("0 0 * * *", func() {
		err := SendRecurringExpenseReminders(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send recurring expense reminders: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule recurring reminder job: %v", err)
	}

	// Runs daily at 20:00 — budget overspending alerts
	_, err = c.AddFunc("0 20 * * *", func() {
		err := SendBudgetAlerts(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send budget alerts: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule budget alert job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (recurring reminders daily at midnight, budget alerts daily at 20:00)")
	return c
}

// -------------------------------------------------------------
// Send reminders for recurring expenses due today
// -------------------------------------------------------------
func SendRecurringExpenseReminders(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	now := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT
			u.id,
			u.email,
			u.username,
			e.description,
			e.ds,
			e.recurring_interval
		FROM expenses e
		JOIN users u ON e.user_id = u.id
		WHERE e.is_recurring = TRUE
		  AND u.email_alerts_enabled = TRUE
		  AND u.email IS NOT NULL
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var wg sync.WaitGroup
	errChan := make(chan error, 10)

	for rows.Next() {
		var (
			userID                                     int
			email, username, description, ds, interval string
		)

		if err := rows.Scan(&userID, &email, &username, &description, &ds, &interval); err != nil {
			utils.Logger.Errorf("Failed to scan recurring expense row: %v", err)
			continue
		}

		dueDate, err := time.Parse("2006-01-02", ds)
		if err != nil {
			utils.Logger.Errorf("Failed to parse ds for %s: %v", email, err)
			continue
		}

		due := ledger.DueReminders([]ledger.RecurringExpense{{
			UserID:      userID,
			Description: description,
			DS:          dueDate,
			Interval:    interval,
		}}, now)
		if len(due) == 0 {
			continue
		}

		wg.Add(1)
		go func(email, username, description string, dueDate time.Time) {
			defer wg.Done()

			if err := utils.SendRecurringReminderEmail(email, username, description, dueDate); err != nil {
				errChan <- fmt.Errorf("failed to send reminder email to %s: %v", email, err)
				return
			}

			utils.Logger.Infof("Sent recurring expense reminder to %s (%s) for '%s'", username, email, description)
		}(email, username, description, dueDate)
	}

	wg.Wait()
	close(errChan)

	for e := range errChan {
		utils.Logger.Error(e)
	}

	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("Error iterating recurring expense rows: %v", err)
		return err
	}

	utils.Logger.Info("Finished sending recurring expense reminders.")
	return nil
}

// -------------------------------------------------------------
// Send overspending alerts against monthly budgets
// -------------------------------------------------------------
func SendBudgetAlerts(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	now := time.Now()
	monthPrefix := fmt.Sprintf("%04d-%02d", now.Year(), now.Month()) + "%"

	rows, err := db.QueryContext(ctx, `
		SELECT
			u.id,
			u.email,
			u.username,
			b.limit_amount,
			COALESCE(SUM(e.amount), 0) AS month_to_date
		FROM budgets b
		JOIN users u ON u.id = b.user_id
		LEFT JOIN expenses e ON e.user_id = u.id AND e.ds LIKE ?
		WHERE b.category = ?
		  AND u.email_alerts_enabled = TRUE
		  AND u.email IS NOT NULL
		GROUP BY u.id, u.email, u.username, b.limit_amount
	`, monthPrefix, models.MonthlyBudgetCategory)
	if err != nil {
		return err
	}
	defer rows.Close()

	var wg sync.WaitGroup
	errChan := make(chan error, 10)

	for rows.Next() {
		var (
			userID             int
			email, username    string
			limit, monthToDate decimal.Decimal
		)

		if err := rows.Scan(&userID, &email, &username, &limit, &monthToDate); err != nil {
			utils.Logger.Errorf("Failed to scan budget row: %v", err)
			continue
		}

		alerts := ledger.OverspendingAlerts(monthToDate, limit, now)
		if len(alerts) == 0 {
			continue
		}

		wg.Add(1)
		go func(email, username, spent, limit string) {
			defer wg.Done()

			if err := utils.SendBudgetAlertEmail(email, username, spent, limit, now); err != nil {
				errChan <- fmt.Errorf("failed to send budget alert to %s: %v", email, err)
				return
			}

			utils.Logger.Infof("Sent budget alert to %s (%s) — spent ₹%s of ₹%s", username, email, spent, limit)
		}(email, username, monthToDate.StringFixed(2), limit.StringFixed(2))
	}

	wg.Wait()
	close(errChan)

	for e := range errChan {
		utils.Logger.Error(e)
	}

	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("Error iterating budget rows: %v", err)
		return err
	}

	utils.Logger.Info("Finished sending budget alerts.")
	return nil
}
