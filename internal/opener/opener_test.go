package opener

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestOpenMissingFile(t *testing.T) {
	err := Open(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Open(missing) = %v, want ErrNotFound", err)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		goos string
		want []string
	}{
		{"darwin", []string{"open", "/tmp/a b.yaml"}},
		{"linux", []string{"xdg-open", "/tmp/a b.yaml"}},
		{"freebsd", []string{"xdg-open", "/tmp/a b.yaml"}},
		{"windows", []string{"rundll32", "url.dll,FileProtocolHandler", "/tmp/a b.yaml"}},
	}
	for _, tt := range tests {
		cmd := command(tt.goos, "/tmp/a b.yaml")
		if !reflect.DeepEqual(cmd.Args, tt.want) {
			t.Errorf("command(%q) = %v, want %v", tt.goos, cmd.Args, tt.want)
		}
	}
}
