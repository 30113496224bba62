// Package sockpath resolves the Unix domain socket path a Wayland client
// connects to, following the same environment-variable chain every
// compositor and client library agrees on.
package sockpath

import (
	"errors"
	"net"
	"os"
	"path/filepath"
)

// ErrNoRuntimeDir is returned when the resolved socket name is relative
// and $XDG_RUNTIME_DIR is unset, leaving nothing to join it against.
var ErrNoRuntimeDir = errors.New("sockpath: XDG_RUNTIME_DIR not set")

// Resolve returns the absolute path of the compositor socket. An empty
// override falls back to $WAYLAND_DISPLAY, defaulting to "wayland-0". A
// path beginning with "/" is used as-is; otherwise it is joined with
// $XDG_RUNTIME_DIR.
func Resolve(override string) (string, error) {
	name := override
	if name == "" {
		name = os.Getenv("WAYLAND_DISPLAY")
		if name == "" {
			name = "wayland-0"
		}
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	runDir := os.Getenv("XDG_RUNTIME_DIR")
	if runDir == "" {
		return "", ErrNoRuntimeDir
	}
	return filepath.Join(runDir, name), nil
}

// Dial resolves the socket path and connects to it, returning the raw
// Unix domain stream connection ready to be wrapped by conn.Init.
func Dial(override string) (*net.UnixConn, error) {
	path, err := Resolve(override)
	if err != nil {
		return nil, err
	}
	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return nil, err
	}
	return net.DialUnix("unix", nil, addr)
}
