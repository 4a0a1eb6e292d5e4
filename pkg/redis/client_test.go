package redis

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/angelmondragon/foodcart-engine/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSnapshotRejectsOlderVersions(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	written, err := client.SaveSnapshot(ctx, "food-store", 2, []byte(`{"v":2}`), 0)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = client.SaveSnapshot(ctx, "food-store", 1, []byte(`{"v":1}`), 0)
	require.NoError(t, err)
	assert.False(t, written, "older version must not overwrite")

	written, err = client.SaveSnapshot(ctx, "food-store", 2, []byte(`{"v":"dup"}`), 0)
	require.NoError(t, err)
	assert.False(t, written, "equal version is not newer")

	payload, err := client.LoadSnapshot(ctx, "food-store")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(payload))

	written, err = client.SaveSnapshot(ctx, "food-store", 3, []byte(`{"v":3}`), time.Minute)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, []int64{0, 60000}, mock.ttls)
}

func TestLoadSnapshotVersion(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	version, err := client.LoadSnapshotVersion(ctx, "food-store")
	require.NoError(t, err)
	assert.Zero(t, version)

	_, err = client.SaveSnapshot(ctx, "food-store", 5, []byte(`not json`), 0)
	require.NoError(t, err)
	version, err = client.LoadSnapshotVersion(ctx, "food-store")
	require.NoError(t, err)
	assert.EqualValues(t, 5, version, "version is readable without the payload")

	mock.data[client.SnapshotVersionKey("broken")] = "five"
	_, err = client.LoadSnapshotVersion(ctx, "broken")
	assert.Error(t, err)
}

func TestLoadSnapshotMissing(t *testing.T) {
	client := &Client{store: newMockCmdable()}
	payload, err := client.LoadSnapshot(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	_, err := client.SaveSnapshot(context.Background(), "k", 1, nil, 0)
	assert.Error(t, err)
	assert.Error(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "fc:snapshot:food-store", client.SnapshotKey("food-store"))
	assert.Equal(t, "fc:snapshot_version:food-store", client.SnapshotVersionKey("food-store"))
	assert.Equal(t, "fc:lock:catalog-sync", client.LockKey("catalog-sync"))
	assert.Equal(t, "fc:snapshot", client.SnapshotKey(""), "empty parts are skipped")
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", DB: 2, PoolSize: 7, DialTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)

	opts, err = optionsFromConfig(config.RedisConfig{URL: "redis://:secret@cache:6380/3"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)
}

type mockCmdable struct {
	data map[string]string
	ttls []int64
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

// Eval emulates saveIfNewerScript.
func (m *mockCmdable) Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	current, _ := strconv.ParseInt(m.data[keys[1]], 10, 64)
	incoming := args[0].(int64)
	if incoming <= current {
		return redis.NewCmdResult(int64(0), nil)
	}
	m.data[keys[1]] = strconv.FormatInt(incoming, 10)
	m.data[keys[0]] = args[1].(string)
	m.ttls = append(m.ttls, args[2].(int64))
	return redis.NewCmdResult(int64(1), nil)
}
