package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holidayRow struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func TestFetch_Hit(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	cache := New(db)

	want := []holidayRow{{Date: "2024-12-25", Name: "Christmas"}}
	payload, _ := json.Marshal(want)
	mock.ExpectGet("hrms:q:holidays:acme:2024").SetVal(string(payload))

	got, err := Fetch(ctx, cache, NewKey([]string{"holidays:acme"}, "holidays", "acme", "2024"),
		func(context.Context) ([]holidayRow, error) {
			t.Fatal("loader must not run on a hit")
			return nil, nil
		})

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetch_MissStoresAndTags(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	cache := New(db, WithTTL(10*time.Minute))

	rows := []holidayRow{{Date: "2024-01-01", Name: "New Year"}}
	payload, _ := json.Marshal(rows)

	mock.ExpectGet("hrms:q:holidays:acme:2024").RedisNil()
	mock.ExpectMGet("hrms:tagver:holidays:acme").SetVal([]interface{}{"3"})
	mock.ExpectEval(storeIfCurrent,
		[]string{"hrms:q:holidays:acme:2024", "hrms:tagver:holidays:acme", "hrms:tag:holidays:acme"},
		string(payload), "600000", "1", "3",
	).SetVal(int64(1))

	got, err := Fetch(ctx, cache, NewKey([]string{"holidays:acme"}, "holidays", "acme", "2024"),
		func(context.Context) ([]holidayRow, error) { return rows, nil })

	require.NoError(t, err)
	assert.Equal(t, rows, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetch_InvalidateDuringLoadSkipsStore(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	cache := New(db)

	key := NewKey([]string{"holidays:acme"}, "holidays", "acme", "calendar", "2024")
	payload, _ := json.Marshal([]string{"2024-01-01"})

	mock.ExpectGet("hrms:q:holidays:acme:calendar:2024").RedisNil()
	// No version yet when the load starts.
	mock.ExpectMGet("hrms:tagver:holidays:acme").SetVal([]interface{}{nil})
	// A write lands while the calendar is loading.
	mock.ExpectIncr("hrms:tagver:holidays:acme").SetVal(1)
	mock.ExpectSMembers("hrms:tag:holidays:acme").SetVal([]string{})
	mock.ExpectDel("hrms:tag:holidays:acme").SetVal(0)
	// The store compares against the version read before the load and
	// refuses to write.
	mock.ExpectEval(storeIfCurrent,
		[]string{"hrms:q:holidays:acme:calendar:2024", "hrms:tagver:holidays:acme", "hrms:tag:holidays:acme"},
		string(payload), "1800000", "1", "",
	).SetVal(int64(0))

	got, err := Fetch(ctx, cache, key, func(ctx context.Context) ([]string, error) {
		require.NoError(t, cache.Invalidate(ctx, "holidays:acme"))
		return []string{"2024-01-01"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01"}, got, "the caller still gets what it loaded")
	assert.NoError(t, mock.ExpectationsWereMet(), "no plain SET or SADD may follow the invalidation")
}

func TestFetch_VersionReadFailureSkipsStore(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	cache := New(db)

	mock.ExpectGet("hrms:q:holidays:acme:2024").RedisNil()
	mock.ExpectMGet("hrms:tagver:holidays:acme").SetErr(errors.New("connection reset"))

	got, err := Fetch(ctx, cache, NewKey([]string{"holidays:acme"}, "holidays", "acme", "2024"),
		func(context.Context) (int, error) { return 7, nil })

	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetch_KeyTTLOverridesDefault(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	cache := New(db)

	mock.ExpectGet("hrms:q:employees:acme:list").RedisNil()
	mock.ExpectSet("hrms:q:employees:acme:list", "5", 2*time.Minute).SetVal("OK")

	got, err := Fetch(ctx, cache, Key{Name: "employees:acme:list", TTL: 2 * time.Minute},
		func(context.Context) (int, error) { return 5, nil })

	require.NoError(t, err)
	assert.Equal(t, 5, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetch_LoadErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	cache := New(db)

	boom := errors.New("db down")
	mock.ExpectGet("hrms:q:employees:acme").RedisNil()

	_, err := Fetch(ctx, cache, Key{Name: "employees:acme"}, func(context.Context) (int, error) {
		return 0, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetch_RedisErrorFallsBackToLoad(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	cache := New(db)

	mock.ExpectGet("hrms:q:count").SetErr(errors.New("connection refused"))
	mock.ExpectSet("hrms:q:count", "42", DefaultTTL).SetErr(errors.New("connection refused"))

	got, err := Fetch(ctx, cache, Key{Name: "count"}, func(context.Context) (int, error) { return 42, nil })

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidate_DeletesTaggedKeys(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	cache := New(db, WithPrefix("portal"))

	mock.ExpectIncr("portal:tagver:holidays:acme").SetVal(4)
	mock.ExpectSMembers("portal:tag:holidays:acme").SetVal([]string{"portal:q:a", "portal:q:b"})
	mock.ExpectDel("portal:q:a", "portal:q:b", "portal:tag:holidays:acme").SetVal(3)

	require.NoError(t, cache.Invalidate(ctx, "holidays:acme"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidate_ReportsErrors(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	cache := New(db)

	mock.ExpectIncr("hrms:tagver:x").SetVal(1)
	mock.ExpectSMembers("hrms:tag:x").SetErr(errors.New("timeout"))
	mock.ExpectIncr("hrms:tagver:y").SetVal(1)
	mock.ExpectSMembers("hrms:tag:y").SetVal([]string{})
	mock.ExpectDel("hrms:tag:y").SetVal(0)

	err := cache.Invalidate(ctx, "x", "y")
	assert.ErrorContains(t, err, "timeout")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNilClient_PassThroughAndCoalesce(t *testing.T) {
	ctx := context.Background()
	cache := New(nil)

	var calls int32
	release := make(chan struct{})
	load := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "value", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(ctx, cache, Key{Name: "same"}, load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Let the goroutines pile up behind the first load.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, "value", v)
	}
	assert.NoError(t, cache.Invalidate(ctx, "anything"))
}
