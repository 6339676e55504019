package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MemberSpend is a group member with their summed expense amounts for the
// group. Members with no expenses carry a zero Spent.
type MemberSpend struct {
	UserID          int
	Username        string
	Role            string
	Spent           decimal.Decimal
	AdjustedBalance decimal.NullDecimal
}

// MemberShare is one row of a settlement summary. Balance is positive when
// the member overpaid relative to their fair share. When UsesOverride is
// set, Balance is the admin-entered adjustment and Spent is back-derived as
// share + balance rather than the member's real expense sum.
type MemberShare struct {
	Username        string          `json:"username"`
	Spent           decimal.Decimal `json:"spent"`
	ShouldHaveSpent decimal.Decimal `json:"should_have_spent"`
	Balance         decimal.Decimal `json:"balance"`
	UsesOverride    bool            `json:"uses_override"`
}

// MemberTotal is the raw per-member total, without shares or overrides.
type MemberTotal struct {
	Username string          `json:"user"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals sums each member's attributed spend for the group.
func ComputeTotals(members []MemberSpend) []MemberTotal {
	totals := make([]MemberTotal, 0, len(members))
	for _, m := range members {
		totals = append(totals, MemberTotal{Username: m.Username, Total: m.Spent})
	}
	return totals
}

// ComputeSplit derives each member's fair share and signed balance. A group
// with zero members cannot be split.
func ComputeSplit(members []MemberSpend) ([]MemberShare, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("settlement requires at least one member: %w", ErrInvalidState)
	}

	total := decimal.Zero
	for _, m := range members {
		total = total.Add(m.Spent)
	}
	share := total.Div(decimal.NewFromInt(int64(len(members))))
	roundedShare := share.Round(2)

	result := make([]MemberShare, 0, len(members))
	for _, m := range members {
		row := MemberShare{
			Username:        m.Username,
			Spent:           m.Spent,
			ShouldHaveSpent: roundedShare,
			Balance:         m.Spent.Sub(share).Round(2),
		}
		if m.AdjustedBalance.Valid {
			// The override replaces the computed balance, and the displayed
			// spend is re-derived from it. Callers can tell the two apart
			// through UsesOverride.
			row.Balance = m.AdjustedBalance.Decimal
			row.Spent = roundedShare.Add(m.AdjustedBalance.Decimal)
			row.UsesOverride = true
		}
		result = append(result, row)
	}
	return result, nil
}

// BalanceOverride names a member and the balance an admin wants recorded for
// them.
type BalanceOverride struct {
	Username string          `json:"username"`
	Balance  decimal.Decimal `json:"balance"`
}

// MatchOverrides pairs requested overrides with member user IDs. Overrides
// naming users outside the group are dropped: the operation is best-effort
// by username, no error on unmatched names.
func MatchOverrides(members []MemberSpend, overrides []BalanceOverride) map[int]decimal.Decimal {
	byName := make(map[string]int, len(members))
	for _, m := range members {
		byName[m.Username] = m.UserID
	}

	matched := make(map[int]decimal.Decimal)
	for _, o := range overrides {
		if userID, ok := byName[o.Username]; ok {
			matched[userID] = o.Balance
		}
	}
	return matched
}
