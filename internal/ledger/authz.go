package ledger

import (
	"database/sql"

	"spendtrack/internal/models"
)

// CanMutateExpense reports whether actorID may update or delete an expense.
// The owner always can; otherwise the actor needs an admin membership in the
// expense's group. actorMembership is the actor's membership in that group,
// nil when none exists. An expense with no group is owner-only.
func CanMutateExpense(actorID, ownerID int, groupID sql.NullInt64, actorMembership *models.GroupMembership) bool {
	if actorID == ownerID {
		return true
	}
	if !groupID.Valid || actorMembership == nil {
		return false
	}
	return actorMembership.GroupID == int(groupID.Int64) && actorMembership.Role == models.RoleAdmin
}

// CanInvite reports whether the actor may invite users into the group.
func CanInvite(actorMembership *models.GroupMembership, groupID int) bool {
	return actorMembership != nil &&
		actorMembership.GroupID == groupID &&
		actorMembership.Role == models.RoleAdmin
}

// CanDeleteGroup is stricter than admin membership: only the creator may
// delete a group.
func CanDeleteGroup(actorID int, group *models.Group) bool {
	return group != nil && group.CreatedBy == actorID
}
