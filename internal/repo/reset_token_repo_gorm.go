package repo

import (
	"errors"

	"gorm.io/gorm"

	"go-admin-boilerplate/internal/domain"
)

type ResetTokenRepo struct{ db *gorm.DB }

func NewResetTokenRepo(db *gorm.DB) *ResetTokenRepo { return &ResetTokenRepo{db: db} }

func (r *ResetTokenRepo) Create(t *domain.ResetToken) error { return r.db.Create(t).Error }

func (r *ResetTokenRepo) FindByID(id string) (*domain.ResetToken, error) {
	var t domain.ResetToken
	err := r.db.First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}
