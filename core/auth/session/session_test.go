package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyspace(t *testing.T) {
	var k Keyspace
	assert.Equal(t, "Cache:User:7", k.UserKey(7))
	assert.Equal(t, "RefreshToken:7", k.RefreshTokenKey(7))
	assert.Equal(t, "{Cache:User:7}:Gen", k.GenerationKey(7))

	k.Prefix = "authkit"
	assert.Equal(t, "authkit:Cache:User:7", k.UserKey(7))
	assert.Equal(t, "authkit:RefreshToken:7", k.RefreshTokenKey(7))
	assert.Equal(t, "{authkit:Cache:User:7}:Gen", k.GenerationKey(7))
}
