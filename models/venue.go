package models

import "time"

type Venue struct {
	ID         int       `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Address    *string   `json:"address,omitempty" db:"address"`
	Phone      *string   `json:"phone,omitempty" db:"phone"`
	TableCount int       `json:"table_count" db:"table_count"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
