package domain

import "time"

// ResetToken 密码重置凭证，一次性；过期或已消费均视同不存在
type ResetToken struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	UserID     string     `gorm:"size:36;not null;index" json:"userId"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expiresAt"`
	ConsumedAt *time.Time `json:"consumedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (ResetToken) TableName() string { return "reset_tokens" }

func (t *ResetToken) Usable(now time.Time) bool {
	return t != nil && t.ConsumedAt == nil && now.Before(t.ExpiresAt)
}

type ResetTokenRepository interface {
	Create(t *ResetToken) error
	FindByID(id string) (*ResetToken, error)
}
