package sockpath

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveAbsoluteOverride(t *testing.T) {
	got, err := Resolve("/tmp/my-wayland-0")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "/tmp/my-wayland-0" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveRelativeJoinsRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	t.Setenv("WAYLAND_DISPLAY", "")
	got, err := Resolve("wayland-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := filepath.Join("/run/user/1000", "wayland-1")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveDefaultsToEnvDisplay(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	t.Setenv("WAYLAND_DISPLAY", "wayland-2")
	got, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := filepath.Join("/run/user/1000", "wayland-2")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveDefaultsToWayland0(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	os.Unsetenv("WAYLAND_DISPLAY")
	got, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := filepath.Join("/run/user/1000", "wayland-0")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveMissingRuntimeDir(t *testing.T) {
	os.Unsetenv("XDG_RUNTIME_DIR")
	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	_, err := Resolve("")
	if err != ErrNoRuntimeDir {
		t.Fatalf("expected ErrNoRuntimeDir, got %v", err)
	}
}
