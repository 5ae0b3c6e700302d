package model

import (
	"time"
)

// DiscAssessment holds one completed DISC behavioral assessment.
// CompanyID is denormalized from the user so dashboard queries never
// need a join. The latest assessment for a user is the one with the
// greatest AssessedAt.
type DiscAssessment struct {
	ID                     uint      `json:"id" gorm:"primaryKey"`
	UserID                 uint      `json:"user_id" gorm:"index;not null"`
	CompanyID              uint      `json:"company_id" gorm:"index;not null"`
	DominanceScore         int       `json:"dominance_score" gorm:"not null"`
	InfluenceScore         int       `json:"influence_score" gorm:"not null"`
	SteadinessScore        int       `json:"steadiness_score" gorm:"not null"`
	ConscientiousnessScore int       `json:"conscientiousness_score" gorm:"not null"`
	PrimaryStyle           string    `json:"primary_style" gorm:"type:varchar(1)"`
	SecondaryStyle         string    `json:"secondary_style,omitempty" gorm:"type:varchar(1)"`
	AssessedAt             time.Time `json:"assessed_at" gorm:"index"`
	CreatedAt              time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
