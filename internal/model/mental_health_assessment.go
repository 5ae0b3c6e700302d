package model

import (
	"time"
)

// MentalHealthAssessment holds one completed mental-health screening.
// The dashboard aggregation reads only TotalScore; the protocol
// sub-scores are kept for the per-user views.
type MentalHealthAssessment struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	CompanyID    uint      `json:"company_id" gorm:"index;not null"`
	Protocol     string    `json:"protocol" gorm:"type:varchar(50)"`
	PHQ9Score    int       `json:"phq9_score"`
	GAD7Score    int       `json:"gad7_score"`
	BurnoutScore int       `json:"burnout_score"`
	TotalScore   int       `json:"total_score"`
	RiskTier     string    `json:"risk_tier" gorm:"type:varchar(20)"`
	AssessedAt   time.Time `json:"assessed_at" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
