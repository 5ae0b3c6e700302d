package identity

import (
	"errors"

	"wellbeing-service/internal/model"

	"gorm.io/gorm"
)

// ErrUserNotFound is returned when a credential's subject no longer
// resolves to a stored user.
var ErrUserNotFound = errors.New("user not found")

// Resolver maps a credential subject id to a live user record. It is
// read fresh on every request, never cached, so a deactivated or
// deleted account loses access on its very next request even while
// its token is unexpired.
type Resolver interface {
	ResolveUser(id uint) (*model.User, error)
}

type gormResolver struct {
	db *gorm.DB
}

// NewResolver returns a Resolver backed by the relational store.
func NewResolver(db *gorm.DB) Resolver {
	return &gormResolver{db: db}
}

func (r *gormResolver) ResolveUser(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
