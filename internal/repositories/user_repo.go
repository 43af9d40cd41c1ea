package repositories

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"teamdisk/internal/models"
	"teamdisk/internal/pkg/logger"
	"teamdisk/internal/pkg/xerr"
)

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByEmployeeID(employeeID string) (*models.User, error)
	FindAll() ([]models.User, error)
	Count() (int64, error)
	Update(user *models.User) error
	UpdateQuota(id uint64, quota int64) error
}

type userRepository struct {
	db *gorm.DB
}

var _ UserRepository = (*userRepository)(nil)

// NewUserRepository 创建一个新的 UserRepository 实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Error creating user", zap.Error(err))
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.ErrUserNotFound
		}
		logger.Error("Error getting user by ID", zap.Uint64("userID", id), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.ErrUserNotFound
		}
		logger.Error("Error getting user by email", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmployeeID(employeeID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("employee_id = ?", employeeID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.ErrUserNotFound
		}
		logger.Error("Error getting user by employee ID", zap.String("employeeID", employeeID), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("id ASC").Find(&users).Error; err != nil {
		logger.Error("Error listing users", zap.Error(err))
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Error updating user", zap.Uint64("userID", user.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *userRepository) UpdateQuota(id uint64, quota int64) error {
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Update("storage_quota", quota).Error; err != nil {
		logger.Error("Error updating user quota", zap.Uint64("userID", id), zap.Int64("quota", quota), zap.Error(err))
		return err
	}
	return nil
}
