package consul

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistration(t *testing.T) {
	cfg := DefaultConfig()
	reg := Registration(cfg, "10.0.0.7", 8080)

	assert.Equal(t, "dictcrack-10.0.0.7:8080", reg.ID)
	assert.Equal(t, "dictcrack", reg.Name)
	assert.Equal(t, 8080, reg.Port)
	require.NotNil(t, reg.Check)
	assert.Equal(t, "http://10.0.0.7:8080/api/health", reg.Check.HTTP)
	assert.Equal(t, "10s", reg.Check.Interval)
}

func TestRegistrationWithoutHealth(t *testing.T) {
	cfg := &Config{ServiceName: "crackd"}
	assert.Nil(t, Registration(cfg, "::1", 9000).Check)
	assert.Equal(t, "crackd-[::1]:9000", Registration(cfg, "::1", 9000).ID)
}

func TestEnabled(t *testing.T) {
	var cfg *Config
	assert.False(t, cfg.Enabled())
	assert.False(t, DefaultConfig().Enabled())
	assert.True(t, (&Config{Address: "consul:8500"}).Enabled())
}

func TestAdvertiseAddr(t *testing.T) {
	host, port, err := AdvertiseAddr("10.1.2.3:9000")
	require.NoError(t, err)
	assert.Equal(t, "10.1.2.3", host)
	assert.Equal(t, 9000, port)

	host, port, err = AdvertiseAddr("crackd:8080")
	require.NoError(t, err)
	assert.Equal(t, "crackd", host)
	assert.Equal(t, 8080, port)

	_, _, err = AdvertiseAddr("no-port")
	assert.Error(t, err)
	_, _, err = AdvertiseAddr("host:http")
	assert.Error(t, err)
}
