package model

import (
	"time"

	"gorm.io/gorm"
)

// Risk lifecycle statuses. Transitions only move forward:
// identified -> in_progress -> resolved.
const (
	RiskStatusIdentified = "identified"
	RiskStatusInProgress = "in_progress"
	RiskStatusResolved   = "resolved"
)

// PsychosocialRisk is a company-level risk record with an integer
// severity on a 1-5 scale. It may optionally reference the user it
// was identified for.
type PsychosocialRisk struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CompanyID   uint           `json:"company_id" gorm:"index;not null"`
	UserID      *uint          `json:"user_id,omitempty" gorm:"index"`
	Category    string         `json:"category" gorm:"type:varchar(100)"`
	Description string         `json:"description" gorm:"type:text"`
	Severity    int            `json:"severity" gorm:"not null"`
	Status      string         `json:"status" gorm:"type:varchar(20);not null;default:'identified'"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Company Company `json:"-" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}
