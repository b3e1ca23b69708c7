package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		err  string
		want string
	}{
		{"load config: missing base dir", "config_error"},
		{"initialize database: locked", "database_error"},
		{"PATCH https://x: connection refused", "network_error"},
		{"remote call timeout", "network_error"},
		{"open /root: permission denied", "permission_error"},
		{"note not found", "not_found_error"},
		{"invalid difficulty", "validation_error"},
		{"something else entirely", "unknown_error"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyError(errors.New(tc.err)), tc.err)
	}
}

func TestContainsAny(t *testing.T) {
	assert.True(t, containsAny("Connection Refused", "connection"))
	assert.False(t, containsAny("all good", "error", "fail"))
}

func TestConnectivityProbe(t *testing.T) {
	assert.NotNil(t, connectivityProbe("https://api.glotian.app"))
	assert.NotNil(t, connectivityProbe("http://localhost:8080"))
	assert.Nil(t, connectivityProbe("not a url"))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.0 KB", formatBytes(1024))
	assert.Equal(t, "256.0 MB", formatBytes(256<<20))
}
