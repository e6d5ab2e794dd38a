package models

import "time"

// Company is an admin-curated reference entity for the careers catalog.
// Names are unique.
type Company struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Logo        string    `db:"logo" json:"logo"`
	Website     string    `db:"website" json:"website"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
