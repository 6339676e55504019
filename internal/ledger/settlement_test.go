package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func override(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name     string
		members  []MemberSpend
		wantErr  error
		validate func(t *testing.T, shares []MemberShare)
	}{
		{
			name:    "zero members is an invalid state",
			members: nil,
			wantErr: ErrInvalidState,
		},
		{
			name: "two members, one payer",
			members: []MemberSpend{
				{UserID: 1, Username: "alice", Spent: dec("100")},
				{UserID: 2, Username: "bob", Spent: dec("0")},
			},
			validate: func(t *testing.T, shares []MemberShare) {
				if !shares[0].Balance.Equal(dec("50")) {
					t.Errorf("alice balance = %s, want 50", shares[0].Balance)
				}
				if !shares[1].Balance.Equal(dec("-50")) {
					t.Errorf("bob balance = %s, want -50", shares[1].Balance)
				}
				if !shares[0].Spent.Equal(dec("100")) || !shares[1].Spent.Equal(dec("0")) {
					t.Errorf("spent figures changed: %s / %s", shares[0].Spent, shares[1].Spent)
				}
				for _, s := range shares {
					if s.UsesOverride {
						t.Errorf("%s unexpectedly flagged as override", s.Username)
					}
					if !s.ShouldHaveSpent.Equal(dec("50")) {
						t.Errorf("%s share = %s, want 50", s.Username, s.ShouldHaveSpent)
					}
				}
			},
		},
		{
			name: "override replaces balance and re-derives spent",
			members: []MemberSpend{
				{UserID: 1, Username: "alice", Spent: dec("100")},
				{UserID: 2, Username: "bob", Spent: dec("0"), AdjustedBalance: override("-10")},
			},
			validate: func(t *testing.T, shares []MemberShare) {
				bob := shares[1]
				if !bob.UsesOverride {
					t.Fatal("bob should be flagged as overridden")
				}
				if !bob.Balance.Equal(dec("-10")) {
					t.Errorf("bob balance = %s, want -10", bob.Balance)
				}
				// share 50 + override -10, not his real sum of 0
				if !bob.Spent.Equal(dec("40")) {
					t.Errorf("bob spent = %s, want 40", bob.Spent)
				}
				if shares[0].UsesOverride {
					t.Error("alice should not be overridden")
				}
				if !shares[0].Balance.Equal(dec("50")) {
					t.Errorf("alice balance = %s, want 50", shares[0].Balance)
				}
			},
		},
		{
			name: "uneven three-way split rounds to cents",
			members: []MemberSpend{
				{UserID: 1, Username: "a", Spent: dec("100")},
				{UserID: 2, Username: "b", Spent: dec("0")},
				{UserID: 3, Username: "c", Spent: dec("0")},
			},
			validate: func(t *testing.T, shares []MemberShare) {
				if !shares[0].Balance.Equal(dec("66.67")) {
					t.Errorf("payer balance = %s, want 66.67", shares[0].Balance)
				}
				if !shares[1].Balance.Equal(dec("-33.33")) {
					t.Errorf("non-payer balance = %s, want -33.33", shares[1].Balance)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := ComputeSplit(tt.members)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.validate(t, shares)
		})
	}
}

// Raw balances conserve: without overrides they sum to zero within
// 0.01 per member of rounding slack.
func TestComputeSplitConservation(t *testing.T) {
	members := []MemberSpend{
		{UserID: 1, Username: "a", Spent: dec("10")},
		{UserID: 2, Username: "b", Spent: dec("20")},
		{UserID: 3, Username: "c", Spent: dec("0.01")},
		{UserID: 4, Username: "d", Spent: dec("99.99")},
		{UserID: 5, Username: "e", Spent: dec("0")},
		{UserID: 6, Username: "f", Spent: dec("33.34")},
		{UserID: 7, Username: "g", Spent: dec("7.77")},
	}

	shares, err := ComputeSplit(members)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Balance)
	}
	tolerance := decimal.NewFromFloat(0.01).Mul(decimal.NewFromInt(int64(len(members))))
	if sum.Abs().GreaterThan(tolerance) {
		t.Errorf("balances sum to %s, want 0 within %s", sum, tolerance)
	}
}

func TestComputeTotals(t *testing.T) {
	members := []MemberSpend{
		{UserID: 1, Username: "alice", Spent: dec("12.50")},
		{UserID: 2, Username: "bob", Spent: dec("0")},
	}
	totals := ComputeTotals(members)
	if len(totals) != 2 {
		t.Fatalf("got %d totals, want 2", len(totals))
	}
	if totals[0].Username != "alice" || !totals[0].Total.Equal(dec("12.50")) {
		t.Errorf("unexpected first total: %+v", totals[0])
	}
	if !totals[1].Total.IsZero() {
		t.Errorf("bob total = %s, want 0", totals[1].Total)
	}
}

func TestMatchOverrides(t *testing.T) {
	members := []MemberSpend{
		{UserID: 1, Username: "alice"},
		{UserID: 2, Username: "bob"},
	}
	overrides := []BalanceOverride{
		{Username: "bob", Balance: dec("-10")},
		{Username: "nobody", Balance: dec("99")}, // silently skipped
	}

	matched := MatchOverrides(members, overrides)
	if len(matched) != 1 {
		t.Fatalf("matched %d overrides, want 1", len(matched))
	}
	if got, ok := matched[2]; !ok || !got.Equal(dec("-10")) {
		t.Errorf("bob override = %v (%v), want -10", got, ok)
	}
}

// Entirely unknown usernames are still not an error: the caller gets an
// empty match set and proceeds with zero updates.
func TestMatchOverridesAllUnknown(t *testing.T) {
	members := []MemberSpend{
		{UserID: 1, Username: "alice"},
		{UserID: 2, Username: "bob"},
	}
	overrides := []BalanceOverride{
		{Username: "carol", Balance: dec("5")},
		{Username: "dave", Balance: dec("-5")},
	}

	matched := MatchOverrides(members, overrides)
	if len(matched) != 0 {
		t.Fatalf("matched %d overrides, want 0", len(matched))
	}
}
