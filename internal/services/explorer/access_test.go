package explorer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdisk/internal/models"
	"teamdisk/internal/pkg/xerr"
)

func (env *testEnv) createFile(t *testing.T, ownerID uint64, name string) *models.File {
	t.Helper()
	file := &models.File{Name: name, Path: name, Size: 1, MimeType: "text/plain", OwnerID: ownerID}
	require.NoError(t, env.fileRepo.Create(nil, file))
	return file
}

func TestAccessCheckerOwnerHasAllPermissions(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e2001", nil)
	file := env.createFile(t, owner.ID, "a.txt")

	assert.NoError(t, env.access.CanReadFile(owner.ID, file))
	assert.NoError(t, env.access.CanWriteFile(owner.ID, file))
}

func TestAccessCheckerStrangerDenied(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e2002", nil)
	stranger := env.createUser(t, "e2003", nil)
	file := env.createFile(t, owner.ID, "a.txt")

	err := env.access.CanReadFile(stranger.ID, file)
	assert.True(t, errors.Is(err, xerr.ErrAccessDenied))
}

func TestAccessCheckerReadShareDoesNotGrantWrite(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e2004", nil)
	recipient := env.createUser(t, "e2005", nil)
	file := env.createFile(t, owner.ID, "a.txt")

	require.NoError(t, env.shareRepo.CreateFileShare(&models.SharedFile{
		FileID: file.ID, SharedWithID: recipient.ID,
		Permission: models.PermissionRead, ExternalLink: "link-read-1",
	}))

	assert.NoError(t, env.access.CanReadFile(recipient.ID, file))
	err := env.access.CanWriteFile(recipient.ID, file)
	assert.True(t, errors.Is(err, xerr.ErrAccessDenied))
}

func TestAccessCheckerWriteShareImpliesRead(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e2006", nil)
	recipient := env.createUser(t, "e2007", nil)
	file := env.createFile(t, owner.ID, "a.txt")

	require.NoError(t, env.shareRepo.CreateFileShare(&models.SharedFile{
		FileID: file.ID, SharedWithID: recipient.ID,
		Permission: models.PermissionWrite, ExternalLink: "link-write-1",
	}))

	assert.NoError(t, env.access.CanReadFile(recipient.ID, file))
	assert.NoError(t, env.access.CanWriteFile(recipient.ID, file))
}

func TestAccessCheckerExpiredShareDenied(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e2008", nil)
	recipient := env.createUser(t, "e2009", nil)
	file := env.createFile(t, owner.ID, "a.txt")

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, env.shareRepo.CreateFileShare(&models.SharedFile{
		FileID: file.ID, SharedWithID: recipient.ID,
		Permission: models.PermissionRead, ExternalLink: "link-expired-1", ExpiresAt: &expired,
	}))

	err := env.access.CanReadFile(recipient.ID, file)
	assert.True(t, errors.Is(err, xerr.ErrAccessDenied))
}

func TestAccessCheckerFolderShare(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e2010", nil)
	recipient := env.createUser(t, "e2011", nil)

	folder, err := env.service.CreateFolder(context.Background(), owner.ID, "docs", nil)
	require.NoError(t, err)

	require.Error(t, env.access.CanReadFolder(recipient.ID, folder))

	future := time.Now().Add(time.Hour)
	require.NoError(t, env.shareRepo.CreateFolderShare(&models.SharedFolder{
		FolderID: folder.ID, SharedWithID: recipient.ID,
		Permission: models.PermissionWrite, ExternalLink: "link-folder-1", ExpiresAt: &future,
	}))

	assert.NoError(t, env.access.CanReadFolder(recipient.ID, folder))
	assert.NoError(t, env.access.CanWriteFolder(recipient.ID, folder))
}
