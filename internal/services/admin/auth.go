package admin

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"teamdisk/internal/config"
	"teamdisk/internal/models"
	"teamdisk/internal/pkg/logger"
	"teamdisk/internal/pkg/utils"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/repositories"
	"teamdisk/internal/services/explorer"
)

type AuthService interface {
	// Register 创建新用户并初始化其磁盘根目录
	Register(employeeID, email, password, name string) (*models.User, error)
	// Login 校验凭证并签发 JWT
	Login(employeeID, password string) (string, *models.User, error)
	// ChangePassword 修改密码并清除强制改密标记
	ChangePassword(userID uint64, oldPassword, newPassword string) error
	// Profile 查询当前用户资料
	Profile(userID uint64) (*models.User, error)
	// ResetPassword 管理员重置用户密码, 并要求其下次登录后改密
	ResetPassword(userID uint64, newPassword string) error
}

type authService struct {
	userRepo     repositories.UserRepository
	pathResolver explorer.PathResolver
	cfg          *config.Config
}

// 确保authService实现了AuthService的方法
var _ AuthService = (*authService)(nil)

func NewAuthService(userRepo repositories.UserRepository, pathResolver explorer.PathResolver, cfg *config.Config) AuthService {
	return &authService{
		userRepo:     userRepo,
		pathResolver: pathResolver,
		cfg:          cfg,
	}
}

func (s *authService) Register(employeeID, email, password, name string) (*models.User, error) {
	if employeeID == "" || email == "" || password == "" {
		return nil, fmt.Errorf("auth service: %w", xerr.ErrInvalidParams)
	}

	// 检查工号是否已被占用
	existing, err := s.userRepo.FindByEmployeeID(employeeID)
	if err != nil && !errors.Is(err, xerr.ErrUserNotFound) {
		return nil, fmt.Errorf("auth service: %w", xerr.ErrPersistence)
	}
	if existing != nil {
		logger.Warn("Register: employee ID already in use", zap.String("employeeID", employeeID))
		return nil, fmt.Errorf("auth service: %w", xerr.ErrEmployeeIDAlreadyInUse)
	}

	// 检查邮箱是否已被占用
	existing, err = s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, xerr.ErrUserNotFound) {
		return nil, fmt.Errorf("auth service: %w", xerr.ErrPersistence)
	}
	if existing != nil {
		logger.Warn("Register: email already in use", zap.String("email", email))
		return nil, fmt.Errorf("auth service: %w", xerr.ErrEmailAlreadyExists)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth service: failed to hash password: %w", err)
	}

	user := &models.User{
		EmployeeID:   employeeID,
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         name,
	}
	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Register: failed to create user", zap.String("employeeID", employeeID), zap.Error(err))
		return nil, fmt.Errorf("auth service: %w", xerr.ErrPersistence)
	}

	// 注册即建根目录, 首次上传无需再探测
	if err := s.pathResolver.EnsureUserRoot(user.ID); err != nil {
		logger.Error("Register: failed to initialize user root directory",
			zap.Uint64("userID", user.ID),
			zap.Error(err))
		return nil, err
	}

	logger.Info("Register: user registered successfully",
		zap.Uint64("userID", user.ID),
		zap.String("employeeID", employeeID))
	return user, nil
}

func (s *authService) Login(employeeID, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmployeeID(employeeID)
	if err != nil {
		if errors.Is(err, xerr.ErrUserNotFound) {
			// 用户不存在和密码错误对外同样处理, 避免枚举工号
			return "", nil, fmt.Errorf("auth service: %w", xerr.ErrInvalidCredentials)
		}
		return "", nil, fmt.Errorf("auth service: %w", xerr.ErrPersistence)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Warn("Login: invalid credentials", zap.String("employeeID", employeeID))
			return "", nil, fmt.Errorf("auth service: %w", xerr.ErrInvalidCredentials)
		}
		return "", nil, fmt.Errorf("auth service: failed to compare password: %w", err)
	}

	tokenString, err := utils.GenerateToken(
		user.ID,
		user.EmployeeID,
		user.IsAdmin,
		s.cfg.JWT.SecretKey,
		s.cfg.JWT.Issuer,
		s.cfg.JWT.ExpiresIn,
	)
	if err != nil {
		return "", nil, fmt.Errorf("auth service: failed to generate token: %w", err)
	}

	logger.Info("Login: user logged in", zap.Uint64("userID", user.ID), zap.String("employeeID", employeeID))
	return tokenString, user, nil
}

func (s *authService) ResetPassword(userID uint64, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("auth service: %w", xerr.ErrInvalidParams)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth service: failed to hash password: %w", err)
	}

	user.PasswordHash = hashedPassword
	user.MustChangePassword = true
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("ResetPassword: failed to update user", zap.Uint64("userID", userID), zap.Error(err))
		return fmt.Errorf("auth service: %w", xerr.ErrPersistence)
	}

	logger.Info("ResetPassword: password reset by admin", zap.Uint64("userID", userID))
	return nil
}

func (s *authService) Profile(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	return user, nil
}

func (s *authService) ChangePassword(userID uint64, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("auth service: %w", xerr.ErrInvalidParams)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		logger.Warn("ChangePassword: old password mismatch", zap.Uint64("userID", userID))
		return fmt.Errorf("auth service: %w", xerr.ErrInvalidCredentials)
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth service: failed to hash password: %w", err)
	}

	user.PasswordHash = hashedPassword
	user.MustChangePassword = false
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("ChangePassword: failed to update user", zap.Uint64("userID", userID), zap.Error(err))
		return fmt.Errorf("auth service: %w", xerr.ErrPersistence)
	}

	logger.Info("ChangePassword: password changed", zap.Uint64("userID", userID))
	return nil
}
