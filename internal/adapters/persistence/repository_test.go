package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/logger"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.Defaults()
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = filepath.Join(t.TempDir(), "chat.db")

	db, cleanup, err := NewDatabase(config.NewStaticProvider(cfg), logger.NewFromZap(zaptest.NewLogger(t)))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	// the service never migrates; tests create the tables the main backend owns
	require.NoError(t, db.AutoMigrate(&userRecord{}, &chatMessageRecord{}))
	return db
}

func seedUsers(t *testing.T, db *gorm.DB, usernames ...string) []userRecord {
	t.Helper()
	recs := make([]userRecord, 0, len(usernames))
	for _, name := range usernames {
		rec := userRecord{
			Email:          name + "@alumni.example",
			Username:       name,
			FullName:       "Full " + name,
			HashedPassword: "$2a$10$placeholder",
			IsAlumni:       true,
		}
		require.NoError(t, db.Create(&rec).Error)
		recs = append(recs, rec)
	}
	return recs
}

func TestMessageRepository_SaveChatMessage(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	first, err := repo.SaveChatMessage(ctx, 1, 2, "hello")
	require.NoError(t, err)
	second, err := repo.SaveChatMessage(ctx, 2, 1, "hi back")
	require.NoError(t, err)

	assert.Positive(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, int64(1), first.SenderID)
	assert.Equal(t, int64(2), first.ReceiverID)
	assert.Equal(t, "hello", first.Message)
	assert.False(t, first.IsRead)
	assert.WithinDuration(t, before, first.CreatedAt, 5*time.Second)

	var count int64
	require.NoError(t, db.Model(&chatMessageRecord{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestMessageRepository_SaveChatMessageFailsWithoutTable(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&chatMessageRecord{}))

	_, err := NewMessageRepository(db).SaveChatMessage(context.Background(), 1, 2, "nowhere to go")
	assert.Error(t, err)
}

func TestMessageRepository_ListConversation(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	for _, m := range []struct {
		from, to int64
		body     string
	}{
		{1, 2, "m1"}, {2, 1, "m2"}, {1, 3, "other conversation"}, {1, 2, "m3"}, {2, 1, "m4"},
	} {
		_, err := repo.SaveChatMessage(ctx, m.from, m.to, m.body)
		require.NoError(t, err)
	}

	tests := []struct {
		name        string
		skip, limit int
		want        []string
	}{
		{name: "all newest first", skip: 0, limit: 50, want: []string{"m4", "m3", "m2", "m1"}},
		{name: "limit", skip: 0, limit: 2, want: []string{"m4", "m3"}},
		{name: "skip", skip: 2, limit: 50, want: []string{"m2", "m1"}},
		{name: "skip past end", skip: 10, limit: 50, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs, err := repo.ListConversation(ctx, 2, 1, tt.skip, tt.limit)
			require.NoError(t, err)
			got := make([]string, 0, len(msgs))
			for _, m := range msgs {
				got = append(got, m.Message)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessageRepository_ListConversationPartners(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	_, _ = repo.SaveChatMessage(ctx, 1, 3, "a")
	_, _ = repo.SaveChatMessage(ctx, 2, 1, "b")
	_, _ = repo.SaveChatMessage(ctx, 1, 2, "c")
	_, _ = repo.SaveChatMessage(ctx, 4, 5, "unrelated")

	ids, err := repo.ListConversationPartners(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids)

	ids, err = repo.ListConversationPartners(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMessageRepository_Ping(t *testing.T) {
	assert.NoError(t, NewMessageRepository(newTestDB(t)).Ping(context.Background()))
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "alice", "bob", "carol")
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("find by username", func(t *testing.T) {
		u, err := repo.FindByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, users[1].ID, u.ID)
		assert.Equal(t, "Full bob", u.FullName)
		assert.Equal(t, "$2a$10$placeholder", u.HashedPassword)
	})

	t.Run("find by id", func(t *testing.T) {
		u, err := repo.FindByID(ctx, users[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByUsername(ctx, "mallory")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		_, err = repo.FindByID(ctx, 12345)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("find by ids skips unknown", func(t *testing.T) {
		got, err := repo.FindByIDs(ctx, []int64{users[2].ID, 999, users[0].ID})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "alice", got[0].Username)
		assert.Equal(t, "carol", got[1].Username)
	})

	t.Run("find by no ids", func(t *testing.T) {
		got, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
