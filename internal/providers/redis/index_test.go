package redis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisprov "github.com/pankaj-dahiya-devops/redisguard/internal/providers/redis"
)

func TestBuildIndex_Pairs(t *testing.T) {
	ix, warnings := redisprov.BuildIndex(redisprov.Snapshot{
		"requirepass", "",
		"port", []byte("6379"),
		"bind", "0.0.0.0",
	})
	assert.Empty(t, warnings)
	assert.Len(t, ix, 3)

	v, ok := ix.Lookup("requirepass")
	assert.True(t, ok, "empty value must be present")
	assert.Equal(t, "", v)

	v, ok = ix.Lookup("port")
	assert.True(t, ok)
	assert.Equal(t, "6379", v)

	_, ok = ix.Lookup("maxmemory")
	assert.False(t, ok)
}

func TestBuildIndex_SkipsUndecodablePairs(t *testing.T) {
	ix, warnings := redisprov.BuildIndex(redisprov.Snapshot{
		int64(7), "x",
		"port", int64(6379),
		"bind", "0.0.0.0",
	})
	require.Len(t, warnings, 2)
	assert.Equal(t, 0, warnings[0].Position)
	assert.Equal(t, 2, warnings[1].Position)
	assert.Contains(t, warnings[1].String(), "port")

	assert.Len(t, ix, 1)
	v, ok := ix.Lookup("bind")
	assert.True(t, ok)
	assert.Equal(t, "0.0.0.0", v)
}

func TestBuildIndex_DuplicateKeyLastWins(t *testing.T) {
	ix, _ := redisprov.BuildIndex(redisprov.Snapshot{"port", "6379", "port", "6380"})
	v, _ := ix.Lookup("port")
	assert.Equal(t, "6380", v)
}

func TestBuildIndex_Empty(t *testing.T) {
	ix, warnings := redisprov.BuildIndex(nil)
	assert.Empty(t, ix)
	assert.Empty(t, warnings)
}
