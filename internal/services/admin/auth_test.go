package admin

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdisk/internal/pkg/xerr"
)

func TestRegisterCreatesUserAndRootDir(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.authService.Register("e5001", "e5001@example.com", "secret123", "Alice")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.False(t, user.IsAdmin)
	assert.Nil(t, user.StorageQuota)

	// 根目录在注册时就建好
	entries, err := os.ReadDir(env.cfg.Storage.UploadsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir())
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authService.Register("e5002", "e5002@example.com", "secret123", "Bob")
	require.NoError(t, err)

	_, err = env.authService.Register("e5002", "other@example.com", "secret123", "Bob2")
	assert.True(t, errors.Is(err, xerr.ErrEmployeeIDAlreadyInUse))

	_, err = env.authService.Register("e5003", "e5002@example.com", "secret123", "Bob3")
	assert.True(t, errors.Is(err, xerr.ErrEmailAlreadyExists))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authService.Register("e5004", "e5004@example.com", "secret123", "Carol")
	require.NoError(t, err)

	token, user, err := env.authService.Login("e5004", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "e5004", user.EmployeeID)

	_, _, err = env.authService.Login("e5004", "wrongpass")
	assert.True(t, errors.Is(err, xerr.ErrInvalidCredentials))

	// 不存在的工号返回同样的错误
	_, _, err = env.authService.Login("e9999", "secret123")
	assert.True(t, errors.Is(err, xerr.ErrInvalidCredentials))
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.authService.Register("e5007", "e5007@example.com", "secret123", "Frank")
	require.NoError(t, err)

	got, err := env.authService.Profile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "e5007", got.EmployeeID)
	assert.Equal(t, "Frank", got.Name)

	_, err = env.authService.Profile(99999)
	assert.True(t, errors.Is(err, xerr.ErrUserNotFound))
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.authService.Register("e5005", "e5005@example.com", "secret123", "Dave")
	require.NoError(t, err)

	// 旧密码错误不放行
	err = env.authService.ChangePassword(user.ID, "wrongpass", "newsecret")
	assert.True(t, errors.Is(err, xerr.ErrInvalidCredentials))

	require.NoError(t, env.authService.ChangePassword(user.ID, "secret123", "newsecret"))

	_, _, err = env.authService.Login("e5005", "secret123")
	assert.True(t, errors.Is(err, xerr.ErrInvalidCredentials))
	_, _, err = env.authService.Login("e5005", "newsecret")
	assert.NoError(t, err)
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.authService.Register("e5008", "e5008@example.com", "secret123", "Grace")
	require.NoError(t, err)

	require.NoError(t, env.authService.ResetPassword(user.ID, "tempsecret"))

	// 旧密码作废, 新密码可登录且被要求改密
	_, _, err = env.authService.Login("e5008", "secret123")
	assert.True(t, errors.Is(err, xerr.ErrInvalidCredentials))
	_, loggedIn, err := env.authService.Login("e5008", "tempsecret")
	require.NoError(t, err)
	assert.True(t, loggedIn.MustChangePassword)

	err = env.authService.ResetPassword(user.ID, "")
	assert.True(t, errors.Is(err, xerr.ErrInvalidParams))
	err = env.authService.ResetPassword(99999, "tempsecret")
	assert.True(t, errors.Is(err, xerr.ErrUserNotFound))
}

func TestChangePasswordClearsMustChangeFlag(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.authService.Register("e5006", "e5006@example.com", "secret123", "Eve")
	require.NoError(t, err)

	user.MustChangePassword = true
	require.NoError(t, env.userRepo.Update(user))

	require.NoError(t, env.authService.ChangePassword(user.ID, "secret123", "newsecret"))

	reloaded, err := env.userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.MustChangePassword)
}
