package ledger

import (
	"testing"
	"time"

	"spendtrack/internal/models"
)

func TestDueReminders(t *testing.T) {
	// 2025-06-05 is a Thursday.
	monthly := RecurringExpense{
		UserID:      1,
		Description: "rent",
		DS:          time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
		Interval:    models.RecurMonthly,
	}
	weekly := RecurringExpense{
		UserID:      2,
		Description: "groceries",
		DS:          time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC), // Thursday
		Interval:    models.RecurWeekly,
	}
	never := RecurringExpense{
		UserID:      3,
		Description: "one-off",
		DS:          time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
		Interval:    models.RecurNone,
	}

	tests := []struct {
		name      string
		asOf      time.Time
		wantUsers []int
	}{
		{
			name:      "monthly due on matching day, weekly on matching weekday",
			asOf:      time.Date(2025, time.June, 5, 9, 0, 0, 0, time.UTC), // Thursday the 5th
			wantUsers: []int{1, 2},
		},
		{
			name:      "day after, nothing monthly",
			asOf:      time.Date(2025, time.June, 6, 9, 0, 0, 0, time.UTC), // Friday the 6th
			wantUsers: nil,
		},
		{
			name:      "weekday match alone",
			asOf:      time.Date(2025, time.June, 12, 9, 0, 0, 0, time.UTC), // Thursday the 12th
			wantUsers: []int{2},
		},
	}

	all := []RecurringExpense{monthly, weekly, never}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := DueReminders(all, tt.asOf)
			if len(due) != len(tt.wantUsers) {
				t.Fatalf("got %d reminders %v, want users %v", len(due), due, tt.wantUsers)
			}
			for i, want := range tt.wantUsers {
				if due[i].UserID != want {
					t.Errorf("reminder %d for user %d, want %d", i, due[i].UserID, want)
				}
			}
		})
	}
}

func TestOverspendingAlerts(t *testing.T) {
	midMonth := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	earlyMonth := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		spent      string
		limit      string
		asOf       time.Time
		wantAlerts int
	}{
		{"under every threshold", "10", "100", midMonth, 0},
		{"eighty percent mid-month", "80", "100", midMonth, 1},
		{"half gone on day 3", "55", "100", earlyMonth, 1},
		{"both alerts fire on day 3", "90", "100", earlyMonth, 2},
		{"half gone mid-month is fine", "55", "100", midMonth, 0},
		{"non-positive limit yields nothing", "90", "0", midMonth, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := OverspendingAlerts(dec(tt.spent), dec(tt.limit), tt.asOf)
			if len(alerts) != tt.wantAlerts {
				t.Errorf("got %d alerts %v, want %d", len(alerts), alerts, tt.wantAlerts)
			}
		})
	}
}
