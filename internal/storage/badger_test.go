package storage

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linksift/internal/domain"
)

// setupTestDB creates a BadgerDB in a temporary directory.
func setupTestDB(t *testing.T) *BadgerRepository {
	t.Helper()

	testLogger := logrus.New()
	testLogger.SetOutput(os.Stderr)
	testLogger.SetLevel(logrus.ErrorLevel)

	repo, err := NewBadgerRepository(t.TempDir(), testLogger)
	require.NoError(t, err, "Failed to create test BadgerDB repository")

	t.Cleanup(func() {
		assert.NoError(t, repo.Close(), "Failed to close test BadgerDB repository")
	})
	return repo
}

func entry(id, url string, idx int) domain.ExtractedURL {
	return domain.ExtractedURL{ID: id, URL: url, DisplayText: url, IsValid: true, OriginalIndex: idx}
}

func TestBadgerRepository_ReplaceAndGetList(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	// Stored out of order; GetList sorts by OriginalIndex.
	first := []domain.ExtractedURL{
		entry("url-c", "https://c.example.com", 2),
		entry("url-a", "https://a.example.com", 0),
		entry("url-b", "https://b.example.com", 1),
	}
	require.NoError(t, repo.ReplaceList(ctx, 1, first))
	require.NoError(t, repo.ReplaceList(ctx, 2, []domain.ExtractedURL{entry("url-z", "https://z.example.com", 0)}))

	got, err := repo.GetList(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "https://a.example.com", got[0].URL)
	assert.Equal(t, "https://b.example.com", got[1].URL)
	assert.Equal(t, "https://c.example.com", got[2].URL)

	// Replacing drops the previous list entirely.
	require.NoError(t, repo.ReplaceList(ctx, 1, []domain.ExtractedURL{entry("url-d", "https://d.example.com", 0)}))
	got, err = repo.GetList(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "url-d", got[0].ID)

	// Other users are untouched.
	other, err := repo.GetList(ctx, 2)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "https://z.example.com", other[0].URL)

	missing, err := repo.GetList(ctx, 999)
	require.NoError(t, err, "Getting links for non-existent user should not error")
	assert.Empty(t, missing)
}

func TestBadgerRepository_UserPrefixIsolation(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	// "user:1:" must not match "user:12:".
	require.NoError(t, repo.ReplaceList(ctx, 12, []domain.ExtractedURL{entry("url-x", "https://x.example.com", 0)}))
	require.NoError(t, repo.Clear(ctx, 1))

	got, err := repo.GetList(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.GetList(ctx, 12)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestBadgerRepository_UpdateLink(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceList(ctx, 7, []domain.ExtractedURL{entry("url-a", "https://a.example.com", 0)}))

	renamed := entry("url-a", "https://a.example.com", 0).WithDisplayText("Homepage")
	require.NoError(t, repo.UpdateLink(ctx, 7, renamed))

	got, err := repo.GetList(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Homepage", got[0].DisplayText)

	err = repo.UpdateLink(ctx, 7, entry("url-missing", "https://m.example.com", 1))
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = repo.GetList(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, got, 1, "a failed update must not create an entry")
}

func TestBadgerRepository_DeleteLinkAndClear(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	userID := int64(789)

	require.NoError(t, repo.ReplaceList(ctx, userID, []domain.ExtractedURL{
		entry("url-del", "https://example.com/to_delete", 0),
		entry("url-keep", "https://example.com/to_keep", 1),
	}))

	require.NoError(t, repo.DeleteLink(ctx, userID, "url-del"))
	got, err := repo.GetList(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "url-keep", got[0].ID)

	assert.NoError(t, repo.DeleteLink(ctx, userID, "url-del"), "Deleting an already deleted link should not return an error")
	assert.NoError(t, repo.DeleteLink(ctx, userID, "url-nope"))

	require.NoError(t, repo.Clear(ctx, userID))
	got, err = repo.GetList(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewInMemoryBadgerRepository(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	repo, err := NewInMemoryBadgerRepository(logger)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.ReplaceList(ctx, 1, []domain.ExtractedURL{entry("url-a", "https://a.example.com", 0)}))
	got, err := repo.GetList(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
