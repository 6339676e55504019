package ledger

import (
	"database/sql"
	"testing"

	"spendtrack/internal/models"
)

func groupRef(id int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: true}
}

func TestCanMutateExpense(t *testing.T) {
	adminOf := func(groupID int) *models.GroupMembership {
		return &models.GroupMembership{GroupID: groupID, UserID: 9, Role: models.RoleAdmin}
	}
	memberOf := func(groupID int) *models.GroupMembership {
		return &models.GroupMembership{GroupID: groupID, UserID: 9, Role: models.RoleMember}
	}

	tests := []struct {
		name       string
		actorID    int
		ownerID    int
		groupID    sql.NullInt64
		membership *models.GroupMembership
		want       bool
	}{
		{"owner always may", 1, 1, sql.NullInt64{}, nil, true},
		{"owner may even in a group", 1, 1, groupRef(5), nil, true},
		{"stranger may not touch a personal expense", 2, 1, sql.NullInt64{}, nil, false},
		{"group admin may", 9, 1, groupRef(5), adminOf(5), true},
		{"plain member may not", 9, 1, groupRef(5), memberOf(5), false},
		{"admin of a different group may not", 9, 1, groupRef(5), adminOf(6), false},
		{"admin role without a group reference may not", 9, 1, sql.NullInt64{}, adminOf(5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanMutateExpense(tt.actorID, tt.ownerID, tt.groupID, tt.membership)
			if got != tt.want {
				t.Errorf("CanMutateExpense() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanInvite(t *testing.T) {
	admin := &models.GroupMembership{GroupID: 5, UserID: 1, Role: models.RoleAdmin}
	member := &models.GroupMembership{GroupID: 5, UserID: 2, Role: models.RoleMember}

	if !CanInvite(admin, 5) {
		t.Error("admin should be able to invite")
	}
	if CanInvite(member, 5) {
		t.Error("plain member should not be able to invite")
	}
	if CanInvite(admin, 6) {
		t.Error("admin of another group should not be able to invite")
	}
	if CanInvite(nil, 5) {
		t.Error("non-member should not be able to invite")
	}
}

func TestCanDeleteGroup(t *testing.T) {
	group := &models.Group{ID: 5, CreatedBy: 1}

	if !CanDeleteGroup(1, group) {
		t.Error("creator should be able to delete")
	}
	if CanDeleteGroup(2, group) {
		t.Error("non-creator should not be able to delete")
	}
	if CanDeleteGroup(1, nil) {
		t.Error("nil group should never be deletable")
	}
}
