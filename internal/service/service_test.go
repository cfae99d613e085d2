package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"go-admin-boilerplate/internal/core/auth"
	"go-admin-boilerplate/internal/core/password"
	"go-admin-boilerplate/internal/core/session"
	"go-admin-boilerplate/internal/domain"
	"go-admin-boilerplate/internal/repo"
)

const testPassword = "TestPassword123!"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: 每个连接是独立库，必须锁成单连接
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Role{}, &domain.User{}, &domain.ResetToken{}))
	return db
}

func testPolicy() password.Policy {
	return password.Policy{
		MinChars:        12,
		MaxChars:        255,
		RequireLower:    true,
		RequireUpper:    true,
		RequireNumerals: true,
		RequireSpecial:  true,
		AllowedSpecials: "!#$%&()*+,-./:;<=>?@^_{|}~",
	}
}

// recordMailer 记录发信调用；Sent 带缓冲，fire-and-forget 的 goroutine 不会卡住
type recordMailer struct {
	mu   sync.Mutex
	sent []string
	Sent chan string
}

func newRecordMailer() *recordMailer {
	return &recordMailer{Sent: make(chan string, 8)}
}

func (m *recordMailer) SendPasswordReset(_ context.Context, to, link string) error {
	m.mu.Lock()
	m.sent = append(m.sent, to)
	m.mu.Unlock()
	m.Sent <- link
	return nil
}

type fixture struct {
	db       *gorm.DB
	users    *repo.UserRepo
	roles    *repo.RoleRepo
	tokens   *repo.ResetTokenRepo
	store    *session.MemoryStore
	signer   *auth.ResetSigner
	mailer   *recordMailer
	roleSvc  *RoleService
	userSvc  *UserService
	authSvc  *AuthService
	admin    *domain.User
	regular  *domain.User
	inactive *domain.User
}

// newFixture 种好系统角色并建三个账号：管理员、普通、停用
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:     db,
		users:  repo.NewUserRepo(db),
		roles:  repo.NewRoleRepo(db),
		tokens: repo.NewResetTokenRepo(db),
		store:  session.NewMemoryStore(),
		signer: &auth.ResetSigner{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour},
		mailer: newRecordMailer(),
	}
	f.roleSvc = NewRoleService(db, f.roles, zap.NewNop())
	require.NoError(t, f.roleSvc.SeedIfRequired(true))
	require.NoError(t, f.roleSvc.UpdateSystemRoles())

	f.userSvc = NewUserService(f.users, f.roles, testPolicy())
	f.authSvc = NewAuthService(db, f.users, f.tokens, f.store, f.signer, f.mailer, testPolicy(), zap.NewNop(), AuthOpts{
		SessionTTL: time.Hour,
		ResetTTL:   time.Hour,
		BaseURL:    "https://localhost",
	})

	adminRole, err := f.roleSvc.GetByName(domain.RoleSystemAdmin)
	require.NoError(t, err)
	defaultRole, err := f.roleSvc.GetByName(domain.RoleDefault)
	require.NoError(t, err)

	f.admin = f.mustCreateUser(t, "admin@test.com", "Admin", adminRole.ID, true)
	f.regular = f.mustCreateUser(t, "user@test.com", "Default", defaultRole.ID, true)
	f.inactive = f.mustCreateUser(t, "inactive@test.com", "Inactive", defaultRole.ID, false)
	return f
}

func (f *fixture) mustCreateUser(t *testing.T, email, first, roleID string, active bool) *domain.User {
	t.Helper()
	u, err := f.userSvc.Create(CreateUserInput{
		Email:     email,
		FirstName: first,
		LastName:  "User",
		Password:  testPassword,
		RoleID:    roleID,
	})
	require.NoError(t, err)
	if !active {
		u, err = f.userSvc.ToggleActive(u.ID)
		require.NoError(t, err)
	}
	return u
}

func (f *fixture) countRoles(t *testing.T, name string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&domain.Role{}).Where("name = ?", name).Count(&n).Error)
	return n
}

func (f *fixture) countTokens(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&domain.ResetToken{}).Count(&n).Error)
	return n
}
