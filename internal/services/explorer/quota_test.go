package explorer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdisk/internal/models"
	"teamdisk/internal/pkg/xerr"
)

func TestQuotaTrackerDefaultQuota(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "e1001", nil)

	usage, err := env.quota.UsageFor(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), usage.UsedBytes)
	assert.Equal(t, env.cfg.Storage.DefaultQuotaBytes, usage.QuotaBytes)
	assert.Equal(t, int64(0), usage.FileCount)
}

func TestQuotaTrackerOverrideQuota(t *testing.T) {
	env := newTestEnv(t)
	override := int64(1) << 20 // 1 MiB
	user := env.createUser(t, "e1002", &override)

	usage, err := env.quota.UsageFor(user.ID)
	require.NoError(t, err)
	assert.Equal(t, override, usage.QuotaBytes)

	assert.NoError(t, env.quota.CanAccept(user.ID, override))
	assert.Error(t, env.quota.CanAccept(user.ID, override+1))
}

func TestQuotaTrackerUsageAggregatesFiles(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "e1003", nil)
	other := env.createUser(t, "e1004", nil)

	for _, size := range []int64{100, 200, 300} {
		require.NoError(t, env.fileRepo.Create(nil, &models.File{
			Name: "f", Path: "p", Size: size, MimeType: "text/plain", OwnerID: user.ID,
		}))
	}
	// 其他用户的文件不计入
	require.NoError(t, env.fileRepo.Create(nil, &models.File{
		Name: "f", Path: "q", Size: 999, MimeType: "text/plain", OwnerID: other.ID,
	}))

	usage, err := env.quota.UsageFor(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(600), usage.UsedBytes)
	assert.Equal(t, int64(3), usage.FileCount)
}

func TestQuotaTrackerRejectionReportsAvailable(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "e1005", nil)

	// 占满到只剩 100 MiB
	remaining := int64(100) << 20
	require.NoError(t, env.fileRepo.Create(nil, &models.File{
		Name: "big", Path: "big", Size: env.cfg.Storage.DefaultQuotaBytes - remaining,
		MimeType: "application/octet-stream", OwnerID: user.ID,
	}))

	// 200 MiB 的上传必须被拒绝, 并报告剩余与所需字节数
	required := int64(200) << 20
	err := env.quota.CanAccept(user.ID, required)
	require.Error(t, err)
	assert.True(t, errors.Is(err, xerr.ErrQuotaExceeded))

	var quotaErr *xerr.QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, remaining, quotaErr.AvailableBytes)
	assert.Equal(t, required, quotaErr.RequiredBytes)

	// 刚好放得下的上传仍然允许
	assert.NoError(t, env.quota.CanAccept(user.ID, remaining))
}

func TestQuotaTrackerUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.quota.UsageFor(12345)
	assert.True(t, errors.Is(err, xerr.ErrUserNotFound))
}
