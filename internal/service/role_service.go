package service

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-admin-boilerplate/internal/domain"
	"go-admin-boilerplate/internal/repo"
	"go-admin-boilerplate/pkg/utils"
)

// 内置角色的种子定义；System Admin 始终持有全量动作
type seedRole struct {
	name        string
	description string
	actions     []domain.Action
}

func seedRoles() []seedRole {
	return []seedRole{
		{domain.RoleSystemAdmin, "Built-in administrator role with every permission.", domain.AllActions()},
		{domain.RoleDefault, "Built-in role for new users, no permissions.", nil},
	}
}

type RoleService struct {
	db    *gorm.DB
	roles domain.RoleRepository
	log   *zap.Logger
}

func NewRoleService(db *gorm.DB, roles domain.RoleRepository, log *zap.Logger) *RoleService {
	return &RoleService{db: db, roles: roles, log: log}
}

// SeedIfRequired 幂等：按名字逐个检查，已存在就跳过；并发冷启动时
// 撞上唯一索引也当作已有处理
func (s *RoleService) SeedIfRequired(enabled bool) error {
	if !enabled {
		s.log.Info("role seeding disabled by config")
		return nil
	}
	for _, sr := range seedRoles() {
		existing, err := s.roles.FindByName(sr.name)
		if err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
		if existing != nil {
			continue
		}
		role := &domain.Role{
			ID:          utils.NewID(),
			Name:        sr.name,
			Description: sr.description,
			Actions:     domain.ActionList(sr.actions),
			System:      true,
		}
		if err := s.roles.Create(role); err != nil {
			if repo.IsDupKey(err) {
				// 另一个进程先种完了
				continue
			}
			return fmt.Errorf("seed role %q: %w", sr.name, err)
		}
		s.log.Info("seeded role", zap.String("name", sr.name))
	}
	return nil
}

// UpdateSystemRoles 启动对账：系统角色重置为当前动作全集定义，
// 所有角色（含自建）剔除已下线的动作，防止旧授权残留
func (s *RoleService) UpdateSystemRoles() error {
	canonical := make(map[domain.Action]struct{})
	for _, a := range domain.AllActions() {
		canonical[a] = struct{}{}
	}

	roles, err := s.roles.List()
	if err != nil {
		return fmt.Errorf("update system roles: %w", err)
	}
	for i := range roles {
		role := &roles[i]
		want := pruneActions(role.Actions, canonical)
		if role.System {
			for _, sr := range seedRoles() {
				if sr.name == role.Name {
					want = domain.ActionList(sr.actions)
				}
			}
		}
		if actionsEqual(role.Actions, want) {
			continue
		}
		role.Actions = want
		if err := s.roles.Update(role); err != nil {
			return fmt.Errorf("update role %q: %w", role.Name, err)
		}
		s.log.Info("reconciled role actions", zap.String("name", role.Name))
	}
	return nil
}

func pruneActions(in domain.ActionList, canonical map[domain.Action]struct{}) domain.ActionList {
	out := make(domain.ActionList, 0, len(in))
	for _, a := range in {
		if _, ok := canonical[a]; ok {
			out = append(out, a)
		}
	}
	return out
}

func actionsEqual(a, b domain.ActionList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *RoleService) GetByName(name string) (*domain.Role, error) {
	role, err := s.roles.FindByName(name)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	return role, nil
}

func (s *RoleService) Get(id string) (*domain.Role, error) {
	role, err := s.roles.FindByID(id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	return role, nil
}

func (s *RoleService) List() ([]domain.Role, error) { return s.roles.List() }

// Create 自建角色永远不是系统角色；动作必须在全集内
func (s *RoleService) Create(name, description string, actions []string) (*domain.Role, error) {
	parsed, err := parseActions(actions)
	if err != nil {
		return nil, err
	}
	role := &domain.Role{
		ID:          utils.NewID(),
		Name:        name,
		Description: description,
		Actions:     parsed,
		System:      false,
	}
	if err := s.roles.Create(role); err != nil {
		if repo.IsDupKey(err) {
			return nil, domain.ErrRoleNameTaken
		}
		return nil, err
	}
	return role, nil
}

// Update 系统角色：名字和保护标记不可改；System Admin 的动作集不可缩减
func (s *RoleService) Update(id, name, description string, actions []string) (*domain.Role, error) {
	role, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	parsed, err := parseActions(actions)
	if err != nil {
		return nil, err
	}
	if role.System {
		if name != role.Name {
			return nil, domain.ErrRoleProtected
		}
		if role.Name == domain.RoleSystemAdmin {
			for _, a := range domain.AllActions() {
				has := false
				for _, p := range parsed {
					if p == a {
						has = true
						break
					}
				}
				if !has {
					return nil, domain.ErrRoleProtected
				}
			}
		}
	}
	role.Name = name
	role.Description = description
	role.Actions = parsed
	if err := s.roles.Update(role); err != nil {
		if repo.IsDupKey(err) {
			return nil, domain.ErrRoleNameTaken
		}
		return nil, err
	}
	return role, nil
}

// Delete 受保护角色不可删；还有用户挂着时必须给替换角色，
// 迁移和删除在同一事务里完成
func (s *RoleService) Delete(id, replacementID string) error {
	role, err := s.Get(id)
	if err != nil {
		return err
	}
	if role.System {
		return domain.ErrRoleProtected
	}
	n, err := s.roles.CountUsers(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return s.roles.Delete(id)
	}
	if replacementID == "" || replacementID == id {
		return domain.ErrRoleInUse
	}
	replacement, err := s.Get(replacementID)
	if err != nil {
		return domain.ErrRoleInUse
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).Where("role_id = ?", id).
			Update("role_id", replacement.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Role{}, "id = ?", id).Error
	})
}

func parseActions(in []string) (domain.ActionList, error) {
	out := make(domain.ActionList, 0, len(in))
	for _, s := range in {
		a, err := domain.ParseAction(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
