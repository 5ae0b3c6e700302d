package model

import (
	"time"

	"gorm.io/gorm"
)

// Company represents a tenant company. Every dependent record in the
// system is owned by exactly one company; deleting a company cascades
// to all of them.
type Company struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	CNPJ         string         `json:"cnpj" gorm:"type:varchar(18);uniqueIndex;not null"`
	ContactEmail string         `json:"contact_email" gorm:"type:varchar(255)"`
	Active       bool           `json:"active" gorm:"default:true"`
	Modules      string         `json:"modules" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
