package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, CompareHash(hash, "secret123"))
	assert.Error(t, CompareHash(hash, "wrongpass"))
}
