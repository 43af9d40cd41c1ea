package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdisk/internal/models"
	"teamdisk/internal/pkg/xerr"
)

func TestSetQuota(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.authService.Register("e6001", "e6001@example.com", "secret123", "Frank")
	require.NoError(t, err)

	require.NoError(t, env.userService.SetQuota(ctx, user.ID, int64(10)<<30))

	usage, err := env.quota.UsageFor(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10)<<30, usage.QuotaBytes)

	// 设为 0 是合法的(封禁上传), 负数不是
	require.NoError(t, env.userService.SetQuota(ctx, user.ID, 0))
	err = env.userService.SetQuota(ctx, user.ID, -1)
	assert.True(t, errors.Is(err, xerr.ErrInvalidOperation))

	err = env.userService.SetQuota(ctx, 9999, 1)
	assert.True(t, errors.Is(err, xerr.ErrUserNotFound))
}

func TestGetStorageStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1, err := env.authService.Register("e6002", "e6002@example.com", "secret123", "Grace")
	require.NoError(t, err)
	u2, err := env.authService.Register("e6003", "e6003@example.com", "secret123", "Heidi")
	require.NoError(t, err)

	require.NoError(t, env.fileRepo.Create(nil, &models.File{
		Name: "a", Path: "a", Size: 100, MimeType: "text/plain", OwnerID: u1.ID,
	}))
	require.NoError(t, env.fileRepo.Create(nil, &models.File{
		Name: "b", Path: "b", Size: 250, MimeType: "text/plain", OwnerID: u2.ID,
	}))

	stats, err := env.userService.GetStorageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, env.cfg.Storage.TotalBytes, stats.TotalBytes)
	assert.Equal(t, int64(350), stats.UsedBytes)
	assert.Equal(t, int64(2), stats.UserCount)
	require.Len(t, stats.PerUser, 2)
}

func TestGetStorageStatsDisplayQuota(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	withOverride, err := env.authService.Register("e6010", "e6010@example.com", "secret123", "Leo")
	require.NoError(t, err)
	withoutOverride, err := env.authService.Register("e6011", "e6011@example.com", "secret123", "Mia")
	require.NoError(t, err)

	require.NoError(t, env.userService.SetQuota(ctx, withOverride.ID, int64(10)<<30))

	stats, err := env.userService.GetStorageStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats.PerUser, 2)

	byID := make(map[uint64]UserUsage, 2)
	for _, u := range stats.PerUser {
		byID[u.UserID] = u
	}
	// 有覆盖值的按覆盖值展示, 没有的按部署容量均摊, 而不是上传限额的默认值
	assert.Equal(t, int64(10)<<30, byID[withOverride.ID].QuotaBytes)
	assert.Equal(t, env.cfg.Storage.TotalBytes/2, byID[withoutOverride.ID].QuotaBytes)
	assert.NotEqual(t, env.cfg.Storage.DefaultQuotaBytes, byID[withoutOverride.ID].QuotaBytes)
}

func TestGetStorageStatsFallbackTotal(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Storage.TotalBytes = 0
	ctx := context.Background()

	_, err := env.authService.Register("e6004", "e6004@example.com", "secret123", "Ivan")
	require.NoError(t, err)
	_, err = env.authService.Register("e6005", "e6005@example.com", "secret123", "Judy")
	require.NoError(t, err)

	// 未配置部署容量时退化为配额之和
	stats, err := env.userService.GetStorageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2*env.cfg.Storage.DefaultQuotaBytes, stats.TotalBytes)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authService.Register("e6006", "e6006@example.com", "secret123", "Ken")
	require.NoError(t, err)

	users, err := env.userService.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "e6006", users[0].EmployeeID)
}
