package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/eduboard-api/pkg/config"
)

func TestOptions(t *testing.T) {
	opts := Options(config.RedisConfig{Host: "cache", Port: 6380, Password: "pw", DB: 2})

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, ioTimeout, opts.ReadTimeout)
}

func TestAddrBracketsIPv6(t *testing.T) {
	assert.Equal(t, "[::1]:6379", Addr(config.RedisConfig{Host: "::1", Port: 6379}))
}

func TestNewRedisFailsWhenUnreachable(t *testing.T) {
	// Port 1 is reserved and refuses connections on test hosts.
	client, err := NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: 1})
	assert.Nil(t, client)
	assert.ErrorContains(t, err, "redis ping 127.0.0.1:1")
}
