package virtual_keyboard

import (
	"fmt"
	"net"
	"os"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/bnema/go-wlwire/conn"
	"github.com/bnema/go-wlwire/wire"
)

func socketpair(t *testing.T) (*net.UnixConn, *net.UnixConn) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	a, err := fileToUnixConn(fds[0])
	if err != nil {
		t.Fatalf("fileToUnixConn: %v", err)
	}
	b, err := fileToUnixConn(fds[1])
	if err != nil {
		t.Fatalf("fileToUnixConn: %v", err)
	}
	return a, b
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

// newTestKeyboard sets up a fake compositor that binds a virtual keyboard
// manager, services the create_virtual_keyboard request, then silently
// discards every further request.
func newTestKeyboard(t *testing.T) (*VirtualKeyboard, func()) {
	t.Helper()
	clientConn, server := socketpair(t)
	c := conn.Init(clientConn, conn.Options{})
	managerId := c.NextObjectId()
	c.Bind(managerId, 1)
	manager := NewVirtualKeyboardManagerForConn(c, managerId, 1)

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		buf := wire.NewReadBuffer(4096)
		fdq := &wire.FDQueue{}
		for {
			if _, _, err := wire.ReadEvent(server, buf, fdq); err != nil {
				return
			}
		}
	}()

	keyboard, err := manager.CreateVirtualKeyboard()
	if err != nil {
		t.Fatalf("CreateVirtualKeyboard: %v", err)
	}
	cleanup := func() {
		clientConn.Close()
		server.Close()
		<-serverDone
	}
	return keyboard, cleanup
}

func TestNewVirtualKeyboardManagerForConn(t *testing.T) {
	clientConn, server := socketpair(t)
	defer clientConn.Close()
	defer server.Close()

	c := conn.Init(clientConn, conn.Options{})
	id := c.NextObjectId()
	c.Bind(id, 1)
	manager := NewVirtualKeyboardManagerForConn(c, id, 1)
	if manager == nil {
		t.Fatal("expected non-nil manager")
	}
	if err := manager.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestVirtualKeyboardCreation(t *testing.T) {
	keyboard, cleanup := newTestKeyboard(t)
	defer cleanup()
	if keyboard == nil {
		t.Fatal("expected non-nil keyboard")
	}
}

func TestVirtualKeyboardKeymap(t *testing.T) {
	keyboard, cleanup := newTestKeyboard(t)
	defer cleanup()

	if err := keyboard.Keymap(KEYMAP_FORMAT_NO_KEYMAP, nil, 0); err != nil {
		t.Fatalf("Keymap(no_keymap): %v", err)
	}

	if err := keyboard.Keymap(999, nil, 0); err == nil {
		t.Fatal("expected error for invalid keymap format")
	}

	if err := keyboard.Keymap(KEYMAP_FORMAT_XKB_V1, nil, 14); err == nil {
		t.Fatal("expected error for missing fd with XKB format")
	}

	fd, size, err := CreateDefaultKeymap()
	if err != nil {
		t.Fatalf("CreateDefaultKeymap: %v", err)
	}
	defer os.Remove(fd.Name())
	defer fd.Close()
	if size == 0 {
		t.Fatal("expected non-zero keymap size")
	}
	if err := keyboard.Keymap(KEYMAP_FORMAT_XKB_V1, fd, size); err != nil {
		t.Fatalf("Keymap(xkb_v1): %v", err)
	}
}

func TestVirtualKeyboardKeys(t *testing.T) {
	keyboard, cleanup := newTestKeyboard(t)
	defer cleanup()

	if err := keyboard.Key(getCurrentTime(), KEY_A, KEY_STATE_PRESSED); err != nil {
		t.Fatalf("Key(press): %v", err)
	}
	if err := keyboard.Key(getCurrentTime(), KEY_A, KEY_STATE_RELEASED); err != nil {
		t.Fatalf("Key(release): %v", err)
	}
	if err := keyboard.KeyPress(KEY_B); err != nil {
		t.Fatalf("KeyPress: %v", err)
	}
	if err := keyboard.KeyRelease(KEY_B); err != nil {
		t.Fatalf("KeyRelease: %v", err)
	}
	if err := keyboard.Key(getCurrentTime(), KEY_A, 999); err == nil {
		t.Fatal("expected error for invalid key state")
	}
}

func TestVirtualKeyboardModifiers(t *testing.T) {
	keyboard, cleanup := newTestKeyboard(t)
	defer cleanup()

	if err := keyboard.Modifiers(MOD_SHIFT, 0, 0, 0); err != nil {
		t.Fatalf("Modifiers: %v", err)
	}
	if err := SetModifiers(keyboard, MOD_CTRL); err != nil {
		t.Fatalf("SetModifiers: %v", err)
	}
	if err := PressModifiers(keyboard, MOD_SHIFT|MOD_CTRL|MOD_ALT|MOD_LOGO); err != nil {
		t.Fatalf("PressModifiers: %v", err)
	}
	if err := ReleaseModifiers(keyboard, MOD_SHIFT|MOD_CTRL|MOD_ALT|MOD_LOGO); err != nil {
		t.Fatalf("ReleaseModifiers: %v", err)
	}
}

func TestTypeKeyAndString(t *testing.T) {
	keyboard, cleanup := newTestKeyboard(t)
	defer cleanup()

	if err := TypeKey(keyboard, KEY_A); err != nil {
		t.Fatalf("TypeKey: %v", err)
	}
	if err := TypeString(keyboard, "Hi! 42"); err != nil {
		t.Fatalf("TypeString: %v", err)
	}
}

func TestKeyCombo(t *testing.T) {
	keyboard, cleanup := newTestKeyboard(t)
	defer cleanup()

	if err := KeyCombo(keyboard, MOD_CTRL, KEY_C); err != nil {
		t.Fatalf("KeyCombo: %v", err)
	}
}

func TestDestroyedManagerOperations(t *testing.T) {
	keyboard, cleanup := newTestKeyboard(t)
	defer cleanup()
	if err := keyboard.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestKeyConstants(t *testing.T) {
	if KEY_A != 30 || KEY_Z != 44 {
		t.Fatal("unexpected key constant values")
	}
	if KEY_STATE_RELEASED != 0 || KEY_STATE_PRESSED != 1 {
		t.Fatal("unexpected key state constant values")
	}
}

func TestModifierConstants(t *testing.T) {
	if MOD_SHIFT != 1 || MOD_CAPS != 2 || MOD_CTRL != 4 || MOD_ALT != 8 {
		t.Fatal("unexpected modifier constant values")
	}
}

func TestKeymapFormatConstants(t *testing.T) {
	if KEYMAP_FORMAT_NO_KEYMAP != 0 || KEYMAP_FORMAT_XKB_V1 != 1 {
		t.Fatal("unexpected keymap format constant values")
	}
}

func TestGetCurrentTime(t *testing.T) {
	if getCurrentTime() == 0 {
		t.Fatal("expected non-zero timestamp")
	}
}

func TestCharToKey(t *testing.T) {
	key, shift := charToKey('a')
	if key != KEY_A || shift {
		t.Fatalf("charToKey('a') = (%d, %v), want (%d, false)", key, shift, KEY_A)
	}
	key, shift = charToKey('A')
	if key != KEY_A || !shift {
		t.Fatalf("charToKey('A') = (%d, %v), want (%d, true)", key, shift, KEY_A)
	}
	key, shift = charToKey('!')
	if key != KEY_1 || !shift {
		t.Fatalf("charToKey('!') = (%d, %v), want (%d, true)", key, shift, KEY_1)
	}
	key, _ = charToKey('\x01')
	if key != 0 {
		t.Fatalf("charToKey(unsupported) = %d, want 0", key)
	}
}

func TestVirtualKeyboardError(t *testing.T) {
	err := &VirtualKeyboardError{Code: -1, Message: "bad state"}
	if err.Error() == "" {
		t.Fatal("expected non-empty error string")
	}
}
