// internal/ats/catalog/cached_test.go
package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"nexthire-workers/internal/common/logger"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestCachedResolver_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	reqs := []string{"React and Node.js"}
	key := cacheKey(reqs)

	r := NewResolver(Default())
	expected := r.Resolve(context.Background(), reqs)
	data, err := json.Marshal(expected)
	assert.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, data, time.Minute).SetVal("OK")

	cached := NewCachedResolver(r, db, time.Minute, logger.NewNoOpLogger())
	got := cached.Resolve(context.Background(), reqs)

	assert.Equal(t, expected, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedResolver_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	reqs := []string{"React and Node.js"}
	key := cacheKey(reqs)

	mock.ExpectGet(key).SetVal(`["react","node.js"]`)

	cached := NewCachedResolver(NewResolver(Default()), db, time.Minute, logger.NewNoOpLogger())
	got := cached.Resolve(context.Background(), reqs)

	assert.Equal(t, []string{"react", "node.js"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedResolver_FallsBackOnCacheError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	reqs := []string{"Python and Django"}
	key := cacheKey(reqs)

	r := NewResolver(Default())
	expected := r.Resolve(context.Background(), reqs)
	data, err := json.Marshal(expected)
	assert.NoError(t, err)

	mock.ExpectGet(key).SetErr(assert.AnError)
	mock.ExpectSet(key, data, time.Minute).SetErr(assert.AnError)

	cached := NewCachedResolver(r, db, time.Minute, logger.NewNoOpLogger())
	got := cached.Resolve(context.Background(), reqs)

	assert.Equal(t, expected, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedResolver_EmptyRequirementsSkipCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cached := NewCachedResolver(NewResolver(Default()), db, time.Minute, logger.NewNoOpLogger())

	assert.Empty(t, cached.Resolve(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheKey_DistinguishesBoundaries(t *testing.T) {
	assert.NotEqual(t, cacheKey([]string{"ab", "c"}), cacheKey([]string{"a", "bc"}))
}
