package wire

import (
	"fmt"
	"net"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

// socketpair returns a connected pair of AF_UNIX SOCK_STREAM endpoints as
// *net.UnixConn, suitable for exercising SendRequest/ReadEvent's ancillary
// SCM_RIGHTS channel in tests without a live Wayland compositor.
func socketpair() (*net.UnixConn, *net.UnixConn, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, err
	}
	a, err := fileToUnixConn(fds[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := fileToUnixConn(fds[1])
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, b, nil
}

func fileToUnixConn(fd int) (*net.UnixConn, error) {
	f := os.NewFile(uintptr(fd), fmt.Sprintf("socketpair-%d", fd))
	c, err := net.FileConn(f)
	f.Close()
	if err != nil {
		return nil, err
	}
	uc, ok := c.(*net.UnixConn)
	if !ok {
		c.Close()
		return nil, fmt.Errorf("unexpected conn type %T", c)
	}
	return uc, nil
}

func os_Pipe(t *testing.T) (*os.File, *os.File, error) {
	t.Helper()
	return os.Pipe()
}
