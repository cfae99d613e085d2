package repo

import (
	"errors"

	"gorm.io/gorm"

	"go-admin-boilerplate/internal/domain"
)

type RoleRepo struct{ db *gorm.DB }

func NewRoleRepo(db *gorm.DB) *RoleRepo { return &RoleRepo{db: db} }

func (r *RoleRepo) Create(role *domain.Role) error { return r.db.Create(role).Error }

func (r *RoleRepo) FindByID(id string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.First(&role, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &role, err
}

func (r *RoleRepo) FindByName(name string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.First(&role, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &role, err
}

func (r *RoleRepo) List() ([]domain.Role, error) {
	var roles []domain.Role
	err := r.db.Order("name asc").Find(&roles).Error
	return roles, err
}

func (r *RoleRepo) Update(role *domain.Role) error { return r.db.Save(role).Error }

func (r *RoleRepo) Delete(id string) error {
	return r.db.Delete(&domain.Role{}, "id = ?", id).Error
}

// CountUsers 删除前检查是否还有用户挂在该角色上
func (r *RoleRepo) CountUsers(roleID string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.User{}).Where("role_id = ?", roleID).Count(&n).Error
	return n, err
}
