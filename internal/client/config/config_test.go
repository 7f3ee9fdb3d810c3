package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := &Config{ServerEndpointAddr: "127.0.0.1:50051", RequestTimeout: 10 * time.Second}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_JsonThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.json")
	data := []byte(`{"server_endpoint_addr":"box.example:50051","key_file":"/keys/id.json","request_timeout":"30s"}`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig([]string{"-c", path, "-a", "localhost:1", "buy", "-box", "b1"})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := &Config{ServerEndpointAddr: "localhost:1", KeyFile: "/keys/id.json", RequestTimeout: 30 * time.Second}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := LoadConfig([]string{"-t", "soon"}); err == nil {
		t.Fatal("expected error for bad timeout")
	}
}
