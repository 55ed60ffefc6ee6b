package model

import "time"

// Project groups tasks by area (work, health, study, etc.).
type Project struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	OwnerID     string    `json:"owner_id" gorm:"index;size:36"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Tasks       []Task    `json:"-" gorm:"foreignKey:ProjectID"`
}
