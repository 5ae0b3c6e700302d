package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles within a company.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User account statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User represents an employee account. A user belongs to exactly one
// company; email is globally unique and stored lowercase.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CompanyID uint           `json:"company_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(255)"`
	Email     string         `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	Role      string         `json:"role" gorm:"type:varchar(20);not null;default:'member'"`
	Status    string         `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Company Company `json:"-" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
