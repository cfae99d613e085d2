package service

import (
	"go-admin-boilerplate/internal/core/password"
	"go-admin-boilerplate/internal/domain"
	"go-admin-boilerplate/internal/repo"
	"go-admin-boilerplate/pkg/utils"
)

type UserService struct {
	users  domain.UserRepository
	roles  domain.RoleRepository
	policy password.Policy
}

func NewUserService(users domain.UserRepository, roles domain.RoleRepository, policy password.Policy) *UserService {
	return &UserService{users: users, roles: roles, policy: policy}
}

type CreateUserInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	RoleID    string
}

// Create 管理员建号：口令走策略校验，角色必须用且仅用一个
func (s *UserService) Create(in CreateUserInput) (*domain.User, error) {
	if err := s.policy.Validate(in.Password); err != nil {
		return nil, err
	}
	role, err := s.roles.FindByID(in.RoleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Active:       true,
		RoleID:       role.ID,
		PasswordHash: hash,
	}
	if err := s.users.Create(u); err != nil {
		if repo.IsDupKey(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	u.Role = role
	return u, nil
}

type UpdateUserInput struct {
	Email     string
	FirstName string
	LastName  string
	RoleID    string
	Password  string // 为空则不改密
}

func (s *UserService) Update(id string, in UpdateUserInput) (*domain.User, error) {
	u, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.FindByID(in.RoleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	u.Email = in.Email
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.RoleID = role.ID
	u.Role = nil // 避免 Save 级联写关联行
	if in.Password != "" {
		if err := s.policy.Validate(in.Password); err != nil {
			return nil, err
		}
		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.users.Update(u); err != nil {
		if repo.IsDupKey(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	u.Role = role
	return u, nil
}

// SetPassword 凭证写入口：策略 + 加盐散列，旧散列直接覆盖
func (s *UserService) SetPassword(id, plaintext string) error {
	u, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.policy.Validate(plaintext); err != nil {
		return err
	}
	hash, err := utils.HashPassword(plaintext)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Role = nil
	return s.users.Update(u)
}

// ToggleActive 停用即生效：后续所有授权判定立刻为 false，无需等会话过期
func (s *UserService) ToggleActive(id string) (*domain.User, error) {
	u, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	u.Active = !u.Active
	u.Role = nil
	if err := s.users.Update(u); err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *UserService) Get(id string) (*domain.User, error) {
	u, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *UserService) List(offset, limit int, q string) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.List(offset, limit, q)
}
