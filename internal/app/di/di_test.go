package di

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"papertrade/internal/platform/cache"
	"papertrade/internal/platform/externalapi/yahoo"
	"papertrade/internal/platform/session"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestModels_Migrate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(Models()...))
	for _, table := range []string{"users", "sessions", "transactions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestNewSessionRepository(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)

	t.Run("without redis", func(t *testing.T) {
		repo := NewSessionRepository(nil, db)
		_, isRedis := repo.(*session.SessionRedis)
		assert.False(t, isRedis)
	})

	t.Run("with redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })

		repo := NewSessionRepository(rdb, db)
		_, isRedis := repo.(*session.SessionRedis)
		assert.True(t, isRedis)
	})
}

func TestNewQuoteSources(t *testing.T) {
	t.Parallel()

	cfg := yahoo.Config{BaseURL: "http://127.0.0.1:0", Suffix: ".NS", Timeout: time.Second, RateLimit: 10}
	src := NewQuoteSources(cfg, nil)

	assert.IsType(t, &yahoo.Client{}, src.Fetcher)
	assert.IsType(t, &cache.CachingCompanySearch{}, src.Searcher)
}
