package repository

import (
	"errors"
	"fmt"
	"strings"

	"backend/internal/app/ds"
	"backend/internal/app/role"

	"gorm.io/gorm"
)

// Методы для пользователей (ORM)

func (r *Repository) GetUserByID(id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.Preload("Roles").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername ищет пользователя без учёта регистра логина
func (r *Repository) GetUserByUsername(username string) (*ds.User, error) {
	var user ds.User
	err := r.db.Preload("Roles").
		Where("LOWER(username) = ?", strings.ToLower(username)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UserExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&ds.User{}).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) GetAllUsers() ([]ds.User, error) {
	var users []ds.User
	err := r.db.Preload("Roles").Order("id ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser создаёт пользователя с уже захешированным паролем и набором ролей
func (r *Repository) CreateUser(username, passwordHash string, roleNames ...string) (*ds.User, error) {
	user := ds.User{
		Username:     username,
		PasswordHash: passwordHash,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		roles, err := findRoles(tx, roleNames)
		if err != nil {
			return err
		}
		user.Roles = roles
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *Repository) UpdatePasswordHash(userID uint, passwordHash string) error {
	result := r.db.Model(&ds.User{}).Where("id = ?", userID).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceUserRoles заменяет весь набор ролей пользователя одной транзакцией
func (r *Repository) ReplaceUserRoles(userID uint, roleNames []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user ds.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		roles, err := findRoles(tx, roleNames)
		if err != nil {
			return err
		}

		return tx.Model(&user).Association("Roles").Replace(roles)
	})
}

// DeleteUser удаляет пользователя вместе с его продуктами и связями ролей
func (r *Repository) DeleteUser(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user ds.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		if err := tx.Where("producer_id = ?", userID).Delete(&ds.Product{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Association("Roles").Clear(); err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

// Методы для ролей

func (r *Repository) GetAllRoles() ([]ds.Role, error) {
	var roles []ds.Role
	err := r.db.Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *Repository) RoleExists(name string) (bool, error) {
	var count int64
	err := r.db.Model(&ds.Role{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *Repository) EnsureRole(name string) error {
	if !role.IsValid(name) {
		return fmt.Errorf("unknown role: %s", name)
	}
	return r.db.Where(ds.Role{Name: name}).FirstOrCreate(&ds.Role{Name: name}).Error
}

// findRoles резолвит имена ролей в записи таблицы ролей
func findRoles(tx *gorm.DB, names []string) ([]ds.Role, error) {
	roles := make([]ds.Role, 0, len(names))
	for _, name := range names {
		var rl ds.Role
		if err := tx.Where("name = ?", name).First(&rl).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("unknown role: %s", name)
			}
			return nil, err
		}
		roles = append(roles, rl)
	}
	return roles, nil
}
