package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var serverFlags = []string{"-a", "-o", "-d", "-m", "-s", "-t", "-l", "-v"}

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "server flags kept, config flag dropped",
			args:    []string{"-c", "server.json", "-a", ":50051", "-m", "memory"},
			allowed: serverFlags,
			want:    []string{"-a", ":50051", "-m", "memory"},
		},
		{
			name:    "equals form",
			args:    []string{"-config=server.json", "-d=postgres://db", "-v=debug"},
			allowed: serverFlags,
			want:    []string{"-d=postgres://db", "-v=debug"},
		},
		{
			name:    "order preserved across forms",
			args:    []string{"-l=text", "-x", "1", "-l", "zap"},
			allowed: serverFlags,
			want:    []string{"-l=text", "-l", "zap"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-a", ":1", "-s"},
			allowed: serverFlags,
			want:    []string{"-a", ":1", "-s"},
		},
		{
			name:    "next flag is never taken as a value",
			args:    []string{"-s", "-t", "5"},
			allowed: serverFlags,
			want:    []string{"-s", "-t", "5"},
		},
		{
			name:    "dash inside an equals value",
			args:    []string{"-s=-secret-"},
			allowed: serverFlags,
			want:    []string{"-s=-secret-"},
		},
		{
			name:    "positional arguments dropped",
			args:    []string{"buy", "-box", "b1", "-a", "host:1"},
			allowed: []string{"-a", "-k", "-t"},
			want:    []string{"-a", "host:1"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", ":1"},
			allowed: nil,
			want:    []string{},
		},
		{
			name:    "empty args give an empty, non-nil slice",
			args:    nil,
			allowed: serverFlags,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigFile(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"-c", "/etc/ticketbox/server.json"}, "/etc/ticketbox/server.json"},
		{"long with equals among server flags", []string{"-a", ":50051", "-config=/etc/ticketbox/long.json", "-m", "memory"}, "/etc/ticketbox/long.json"},
		{"absent", []string{"-a", ":50051", "-v", "debug"}, ""},
		{"last wins", []string{"-c", "/tmp/1.json", "-config", "/tmp/2.json"}, "/tmp/2.json"},
		{"missing value", []string{"-c"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigFile(tt.args))
		})
	}
}
