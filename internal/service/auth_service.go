package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-admin-boilerplate/internal/core/auth"
	"go-admin-boilerplate/internal/core/password"
	"go-admin-boilerplate/internal/core/session"
	"go-admin-boilerplate/internal/domain"
	"go-admin-boilerplate/internal/notify"
	"go-admin-boilerplate/pkg/utils"
)

// 查无此人时也要烧一次 bcrypt，登录耗时不随"账号是否存在"变化
var dummyHash = func() string {
	h, err := utils.HashPassword(utils.NewSecret(16))
	if err != nil {
		panic(err)
	}
	return h
}()

type AuthService struct {
	db     *gorm.DB
	users  domain.UserRepository
	tokens domain.ResetTokenRepository
	store  session.Store
	signer *auth.ResetSigner
	mailer notify.Mailer
	policy password.Policy
	log    *zap.Logger

	sessionTTL time.Duration
	resetTTL   time.Duration
	baseURL    string

	nowFunc func() time.Time
}

type AuthOpts struct {
	SessionTTL time.Duration
	ResetTTL   time.Duration
	BaseURL    string
}

func NewAuthService(
	db *gorm.DB,
	users domain.UserRepository,
	tokens domain.ResetTokenRepository,
	store session.Store,
	signer *auth.ResetSigner,
	mailer notify.Mailer,
	policy password.Policy,
	log *zap.Logger,
	opts AuthOpts,
) *AuthService {
	return &AuthService{
		db:         db,
		users:      users,
		tokens:     tokens,
		store:      store,
		signer:     signer,
		mailer:     mailer,
		policy:     policy,
		log:        log,
		sessionTTL: opts.SessionTTL,
		resetTTL:   opts.ResetTTL,
		baseURL:    opts.BaseURL,
		nowFunc:    time.Now,
	}
}

// Login 未知邮箱、密码不对、账号停用三种情况对外只报同一个错，
// 防止探号和探停用状态
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*session.Session, *domain.User, error) {
	u, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("login lookup: %w", err)
	}
	if u == nil {
		utils.CheckPassword(plaintext, dummyHash)
		return nil, nil, domain.ErrAuthenticationFailed
	}
	ok := utils.CheckPassword(plaintext, u.PasswordHash)
	if !ok || !u.Active {
		return nil, nil, domain.ErrAuthenticationFailed
	}

	sess := session.New(u.ID, s.sessionTTL)
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("save session: %w", err)
	}
	return sess, u, nil
}

// Logout 幂等；没有会话也算成功
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.store.Delete(ctx, sessionID)
}

// CurrentUser 会话缺失/过期一律视为匿名，返回 (nil, nil)
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, nil
	}
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	u, err := s.users.FindByID(sess.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		// 用户没了会话也作废
		_ = s.store.Delete(ctx, sessionID)
		return nil, nil
	}
	return u, nil
}

// RequestReset 对外永远成功；只有存在且启用的账号才会真的落 token 和发信
func (s *AuthService) RequestReset(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(email)
	if err != nil {
		return fmt.Errorf("reset lookup: %w", err)
	}
	if u == nil || !u.Active {
		return nil
	}

	token := &domain.ResetToken{
		ID:        utils.NewID(),
		UserID:    u.ID,
		ExpiresAt: s.nowFunc().Add(s.resetTTL),
	}
	if err := s.tokens.Create(token); err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}
	signed, err := s.signer.Issue(token.ID)
	if err != nil {
		return fmt.Errorf("sign reset token: %w", err)
	}

	link := s.baseURL + "/reset-password?token=" + url.QueryEscape(signed)
	to := u.Email
	// 发信失败不影响本次响应
	go func() {
		if err := s.mailer.SendPasswordReset(context.Background(), to, link); err != nil {
			s.log.Warn("password reset mail failed", zap.Error(err))
		}
	}()
	return nil
}

// CompleteReset 未知/已消费/过期统一报 ErrInvalidOrExpiredToken。
// 策略不过时 token 保持可用（到期或成功消费为止）；
// 成功路径上改密和消费在同一事务，消费以 consumed_at IS NULL 为准
func (s *AuthService) CompleteReset(ctx context.Context, tokenStr, newPlaintext string) error {
	claims, err := s.signer.Parse(tokenStr)
	if err != nil {
		return domain.ErrInvalidOrExpiredToken
	}
	token, err := s.tokens.FindByID(claims.TokenID)
	if err != nil {
		return fmt.Errorf("reset token lookup: %w", err)
	}
	if !token.Usable(s.nowFunc()) {
		return domain.ErrInvalidOrExpiredToken
	}

	if err := s.policy.Validate(newPlaintext); err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPlaintext)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.nowFunc()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.ResetToken{}).
			Where("id = ? AND consumed_at IS NULL", token.ID).
			Update("consumed_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 并发消费，谁先到谁算
			return domain.ErrInvalidOrExpiredToken
		}
		return tx.Model(&domain.User{}).Where("id = ?", token.UserID).
			Update("password_hash", hash).Error
	})
}
