package models

import "testing"

func TestValidRecurrence(t *testing.T) {
	tests := []struct {
		name        string
		isRecurring bool
		interval    string
		want        bool
	}{
		{"one-off without interval", false, RecurNone, true},
		{"one-off ignores a stale interval", false, RecurMonthly, true},
		{"weekly recurring", true, RecurWeekly, true},
		{"monthly recurring", true, RecurMonthly, true},
		{"recurring without interval", true, RecurNone, false},
		{"recurring with a made-up interval", true, "fortnightly", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidRecurrence(tt.isRecurring, tt.interval); got != tt.want {
				t.Errorf("ValidRecurrence(%v, %q) = %v, want %v", tt.isRecurring, tt.interval, got, tt.want)
			}
		})
	}
}
