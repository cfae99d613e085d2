package session

import (
	"context"
	"time"

	"go-admin-boilerplate/pkg/utils"
)

// Session 服务端会话：登录成功后建立，登出或到期即失效
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func New(userID string, ttl time.Duration) *Session {
	return &Session{
		ID:        utils.NewSecret(32),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}
}

func (s *Session) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}

// Store 过期会话读取时一律按不存在处理，Get 返回 (nil, nil)
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
