package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("sync.interval", "5m")
	require.NoError(t, err)

	val, ok := store.Get("sync.interval")
	assert.True(t, ok)
	assert.Equal(t, "5m", val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("api.base_url", "https://api.example.com/v1"))
	require.NoError(t, store.Set("sync.batch_size", 20))
	require.NoError(t, store.Set("sync.enabled", true))

	assert.Equal(t, "https://api.example.com/v1", store.GetString("api.base_url"))
	assert.Equal(t, 20, store.GetInt("sync.batch_size"))
	assert.True(t, store.GetBool("sync.enabled"))

	// Missing keys return zero values.
	assert.Equal(t, "", store.GetString("nope"))
	assert.Equal(t, 0, store.GetInt("nope"))
	assert.False(t, store.GetBool("nope"))

	// Mismatched types return zero values too.
	assert.Equal(t, "", store.GetString("sync.batch_size"))
	assert.Equal(t, 0, store.GetInt("api.base_url"))
	assert.False(t, store.GetBool("api.base_url"))
}

func TestConfigStore_GetDuration(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("status.our_reply_escalation", "48h"))
	require.NoError(t, store.Set("status.bad_duration", "soon"))

	assert.Equal(t, 48*time.Hour, store.GetDuration("status.our_reply_escalation"))
	assert.Equal(t, time.Duration(0), store.GetDuration("status.bad_duration"))
	assert.Equal(t, time.Duration(0), store.GetDuration("status.missing"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("sync.lists", []string{"leads", "contacts"}))
	assert.Equal(t, []string{"leads", "contacts"}, store.GetStringSlice("sync.lists"))

	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("api.base_url", "https://api.example.com/v1"))
	require.NoError(t, store1.Set("sync.batch_size", 20))

	// A fresh store instance loads from the same file.
	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1", store2.GetString("api.base_url"))
	assert.Equal(t, 20, store2.GetInt("sync.batch_size"))
}

func TestConfigStore_NestedTablesFlattened(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte("[status]\nuser_address = \"me@corp.example\"\n\n[status.escalation]\nours = \"48h\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "me@corp.example", store.GetString("status.user_address"))
	assert.Equal(t, 48*time.Hour, store.GetDuration("status.escalation.ours"))
}

func TestConfigStore_MissingFileStartsEmpty(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not toml {{{["), 0600))

	store, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_, _ = store.Get(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
