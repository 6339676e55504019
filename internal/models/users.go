package models

import "database/sql"

type User struct {
	ID                 int            `json:"id,omitempty" db:"id,omitempty"`
	Username           string         `json:"username,omitempty" db:"username,omitempty"`
	Password           string         `json:"password,omitempty" db:"password,omitempty"`
	Email              sql.NullString `json:"email,omitempty" db:"email,omitempty"`
	EmailAlertsEnabled bool           `json:"email_alerts_enabled,omitempty" db:"email_alerts_enabled,omitempty"`
	CreatedAt          sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}
