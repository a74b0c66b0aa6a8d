package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	t.Setenv("EZB_TEST_DIR", "/opt/ezb")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "absolute", input: "/etc/ezb/config.yaml", want: "/etc/ezb/config.yaml"},
		{name: "tilde", input: "~/receipts", want: filepath.Join(home, "receipts")},
		{name: "bare tilde", input: "~", want: home},
		{name: "env var", input: "$EZB_TEST_DIR/config.yaml", want: "/opt/ezb/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.input); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDataDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	if filepath.Base(dir) != "ezb" {
		t.Errorf("DataDir() = %q, want an ezb directory", dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("DataDir() did not create directory: %v", err)
	}
}
