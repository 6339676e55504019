package models

import "database/sql"

type Group struct {
	ID        int            `json:"id,omitempty" db:"id,omitempty"`
	Name      string         `json:"name,omitempty" db:"name,omitempty"`
	CreatedBy int            `json:"created_by,omitempty" db:"created_by,omitempty"`
	CreatedAt sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}
