package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetAddress_Set_Valid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantHost string
		wantPort int
	}{
		{name: "localhost", input: "localhost:8080", wantHost: "localhost", wantPort: 8080},
		{name: "ipv4", input: "127.0.0.1:9090", wantHost: "127.0.0.1", wantPort: 9090},
		{name: "any host", input: "0.0.0.0:80", wantHost: "0.0.0.0", wantPort: 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			require.NoError(t, a.Set(tt.input))
			assert.Equal(t, tt.wantHost, a.Host)
			assert.Equal(t, tt.wantPort, a.Port)
		})
	}
}

func TestNetAddress_Set_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing port", input: "localhost"},
		{name: "non-numeric port", input: "localhost:http"},
		{name: "zero port", input: "localhost:0"},
		{name: "negative port", input: "localhost:-1"},
		{name: "bad host", input: "not_an_ip:8080"},
		{name: "too many parts", input: "a:b:c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			assert.Error(t, a.Set(tt.input))
		})
	}
}

func TestNetAddress_String(t *testing.T) {
	var empty NetAddress
	assert.Empty(t, empty.String())

	full := NetAddress{Host: "localhost", Port: 8080}
	assert.Equal(t, "localhost:8080", full.String())
}
