// Package virtual_keyboard provides Go bindings for the
// virtual-keyboard-unstable-v1 Wayland protocol.
//
// This protocol allows clients to emulate a physical keyboard device. The
// virtual keyboard provides an application with requests which emulate the
// behaviour of a physical keyboard. This interface can be used by clients
// on its own to provide raw input events, or it can accompany the input
// method protocol.
package virtual_keyboard

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bnema/go-wlwire/conn"
	"github.com/bnema/go-wlwire/internal/client"
	"github.com/bnema/go-wlwire/internal/protocols"
	"github.com/bnema/go-wlwire/wl"
	"github.com/bnema/go-wlwire/wlproto"
)

// Key constants (Linux input event codes).
const (
	KEY_RESERVED   = 0
	KEY_ESC        = 1
	KEY_1          = 2
	KEY_2          = 3
	KEY_3          = 4
	KEY_4          = 5
	KEY_5          = 6
	KEY_6          = 7
	KEY_7          = 8
	KEY_8          = 9
	KEY_9          = 10
	KEY_0          = 11
	KEY_MINUS      = 12
	KEY_EQUAL      = 13
	KEY_BACKSPACE  = 14
	KEY_TAB        = 15
	KEY_Q          = 16
	KEY_W          = 17
	KEY_E          = 18
	KEY_R          = 19
	KEY_T          = 20
	KEY_Y          = 21
	KEY_U          = 22
	KEY_I          = 23
	KEY_O          = 24
	KEY_P          = 25
	KEY_LEFTBRACE  = 26
	KEY_RIGHTBRACE = 27
	KEY_ENTER      = 28
	KEY_LEFTCTRL   = 29
	KEY_A          = 30
	KEY_S          = 31
	KEY_D          = 32
	KEY_F          = 33
	KEY_G          = 34
	KEY_H          = 35
	KEY_J          = 36
	KEY_K          = 37
	KEY_L          = 38
	KEY_SEMICOLON  = 39
	KEY_APOSTROPHE = 40
	KEY_GRAVE      = 41
	KEY_LEFTSHIFT  = 42
	KEY_BACKSLASH  = 43
	KEY_Z          = 44
	KEY_X          = 45
	KEY_C          = 46
	KEY_V          = 47
	KEY_B          = 48
	KEY_N          = 49
	KEY_M          = 50
	KEY_COMMA      = 51
	KEY_DOT        = 52
	KEY_SLASH      = 53
	KEY_RIGHTSHIFT = 54
	KEY_KPASTERISK = 55
	KEY_LEFTALT    = 56
	KEY_SPACE      = 57
	KEY_CAPSLOCK   = 58
	KEY_F1         = 59
	KEY_F2         = 60
	KEY_F3         = 61
	KEY_F4         = 62
	KEY_F5         = 63
	KEY_F6         = 64
	KEY_F7         = 65
	KEY_F8         = 66
	KEY_F9         = 67
	KEY_F10        = 68
	KEY_NUMLOCK    = 69
	KEY_SCROLLLOCK = 70
	KEY_KP7        = 71
	KEY_KP8        = 72
	KEY_KP9        = 73
	KEY_KPMINUS    = 74
	KEY_KP4        = 75
	KEY_KP5        = 76
	KEY_KP6        = 77
	KEY_KPPLUS     = 78
	KEY_KP1        = 79
	KEY_KP2        = 80
	KEY_KP3        = 81
	KEY_KP0        = 82
	KEY_KPDOT      = 83
	KEY_F11        = 87
	KEY_F12        = 88
	KEY_KPENTER    = 96
	KEY_RIGHTCTRL  = 97
	KEY_KPSLASH    = 98
	KEY_SYSRQ      = 99
	KEY_RIGHTALT   = 100
	KEY_HOME       = 102
	KEY_UP         = 103
	KEY_PAGEUP     = 104
	KEY_LEFT       = 105
	KEY_RIGHT      = 106
	KEY_END        = 107
	KEY_DOWN       = 108
	KEY_PAGEDOWN   = 109
	KEY_INSERT     = 110
	KEY_DELETE     = 111
	KEY_LEFTMETA   = 125
	KEY_RIGHTMETA  = 126
)

// Key state constants.
const (
	KEY_STATE_RELEASED = 0
	KEY_STATE_PRESSED  = 1
)

// Modifier bitmask constants.
const (
	MOD_SHIFT = 1 << 0
	MOD_CAPS  = 1 << 1
	MOD_CTRL  = 1 << 2
	MOD_ALT   = 1 << 3
	MOD_NUM   = 1 << 4
	MOD_MOD3  = 1 << 5
	MOD_LOGO  = 1 << 6
	MOD_MOD5  = 1 << 7
)

// Keymap format constants.
const (
	KEYMAP_FORMAT_NO_KEYMAP = 0
	KEYMAP_FORMAT_XKB_V1    = 1
)

// VirtualKeyboardError reports a client-side validation failure: an
// argument outside the range the protocol defines. It never reaches the
// wire — the compositor never sees an invalid keymap format or key state.
type VirtualKeyboardError struct {
	Code    int
	Message string
}

func (e *VirtualKeyboardError) Error() string {
	return fmt.Sprintf("virtual keyboard error %d: %s", e.Code, e.Message)
}

// VirtualKeyboardManager manages virtual keyboard devices.
type VirtualKeyboardManager struct {
	client  *client.Client // nil when constructed over an existing connection
	conn    *conn.Connection
	manager *protocols.VirtualKeyboardManager
}

// VirtualKeyboard represents a virtual keyboard device.
type VirtualKeyboard struct {
	conn     *conn.Connection
	keyboard *protocols.VirtualKeyboard
}

// NewVirtualKeyboardManager dials the compositor named by WAYLAND_DISPLAY,
// binds zwp_virtual_keyboard_manager_v1, and returns a manager ready to
// create keyboard devices.
func NewVirtualKeyboardManager(ctx context.Context) (*VirtualKeyboardManager, error) {
	c, err := client.NewClient("")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Wayland: %w", err)
	}
	if !c.HasVirtualKeyboard() {
		c.Close()
		return nil, fmt.Errorf("zwp_virtual_keyboard_manager_v1 not available")
	}

	global := c.KeyboardManagerGlobal()
	managerId, err := c.Registry().Bind(c.Connection(), global.Name, global.Interface, global.Version)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to bind virtual keyboard manager: %w", err)
	}

	return &VirtualKeyboardManager{
		client:  c,
		conn:    c.Connection(),
		manager: &protocols.VirtualKeyboardManager{Id: managerId, Version: global.Version},
	}, nil
}

// NewVirtualKeyboardManagerForConn wraps an already-bound
// zwp_virtual_keyboard_manager_v1 proxy living on an existing connection —
// for callers that manage their own Wayland connection lifecycle.
func NewVirtualKeyboardManagerForConn(c *conn.Connection, id wlproto.ObjectId, version uint32) *VirtualKeyboardManager {
	return &VirtualKeyboardManager{conn: c, manager: &protocols.VirtualKeyboardManager{Id: id, Version: version}}
}

// CreateVirtualKeyboard creates a new virtual keyboard associated with the
// client's default seat.
func (m *VirtualKeyboardManager) CreateVirtualKeyboard() (*VirtualKeyboard, error) {
	var seat *wl.Seat
	if m.client != nil {
		seat = m.client.Seat()
	}
	keyboard, err := m.manager.CreateVirtualKeyboard(m.conn, seat)
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual keyboard: %w", err)
	}
	return &VirtualKeyboard{conn: m.conn, keyboard: keyboard}, nil
}

// Close releases the manager's connection, if it owns one.
func (m *VirtualKeyboardManager) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// Keymap uploads a keymap description over fd, in the given format.
// The compositor mmaps fd's contents; the caller may close fd after this
// call returns.
func (k *VirtualKeyboard) Keymap(format uint32, fd *os.File, size uint32) error {
	if format != KEYMAP_FORMAT_NO_KEYMAP && format != KEYMAP_FORMAT_XKB_V1 {
		return &VirtualKeyboardError{Code: -1, Message: "invalid keymap format"}
	}
	if format != KEYMAP_FORMAT_NO_KEYMAP && fd == nil {
		return &VirtualKeyboardError{Code: -1, Message: "keymap file descriptor required for XKB format"}
	}
	if fd == nil {
		// The request always carries an fd; send /dev/null for no_keymap.
		devNull, err := os.Open(os.DevNull)
		if err != nil {
			return fmt.Errorf("virtual_keyboard: open %s: %w", os.DevNull, err)
		}
		defer devNull.Close()
		fd = devNull
	}
	return k.keyboard.Keymap(k.conn, format, int(fd.Fd()), size)
}

// Key sends a key press or release event.
func (k *VirtualKeyboard) Key(timeMs, key, state uint32) error {
	if state != KEY_STATE_PRESSED && state != KEY_STATE_RELEASED {
		return &VirtualKeyboardError{Code: -1, Message: "invalid key state"}
	}
	return k.keyboard.Key(k.conn, timeMs, key, state)
}

// KeyPress is a convenience method for pressing a key.
func (k *VirtualKeyboard) KeyPress(key uint32) error {
	return k.Key(getCurrentTime(), key, KEY_STATE_PRESSED)
}

// KeyRelease is a convenience method for releasing a key.
func (k *VirtualKeyboard) KeyRelease(key uint32) error {
	return k.Key(getCurrentTime(), key, KEY_STATE_RELEASED)
}

// Modifiers updates the modifier and group state.
func (k *VirtualKeyboard) Modifiers(modsDepressed, modsLatched, modsLocked, group uint32) error {
	return k.keyboard.Modifiers(k.conn, modsDepressed, modsLatched, modsLocked, group)
}

// Close releases the virtual keyboard device.
func (k *VirtualKeyboard) Close() error {
	return k.keyboard.Destroy(k.conn)
}

// CreateDefaultKeymap writes a minimal valid XKB keymap to a temp file and
// returns it ready to pass to Keymap. The caller is responsible for closing
// the returned file once the compositor has acknowledged the keymap.
func CreateDefaultKeymap() (*os.File, uint32, error) {
	const keymap = `xkb_keymap {
	xkb_keycodes { include "evdev+aliases(qwerty)" };
	xkb_types { include "complete" };
	xkb_compat { include "complete" };
	xkb_symbols { include "pc+us+inet(evdev)" };
};
`
	f, err := os.CreateTemp("", "go-wlwire-keymap-*.xkb")
	if err != nil {
		return nil, 0, fmt.Errorf("creating keymap file: %w", err)
	}
	if _, err := f.WriteString(keymap); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, 0, fmt.Errorf("writing keymap file: %w", err)
	}
	return f, uint32(len(keymap)), nil
}

// getCurrentTime returns the current timestamp in milliseconds, suitable
// for the time argument of Key/Motion-style requests.
func getCurrentTime() uint32 {
	return uint32(time.Now().UnixNano() / int64(time.Millisecond))
}

// Convenience functions for common operations.

// TypeKey performs a complete key press and release operation.
func TypeKey(keyboard *VirtualKeyboard, key uint32) error {
	if err := keyboard.KeyPress(key); err != nil {
		return err
	}
	return keyboard.KeyRelease(key)
}

// TypeString types a string by converting it to key events. This is a
// simplified implementation that only handles basic ASCII characters.
func TypeString(keyboard *VirtualKeyboard, text string) error {
	for _, char := range text {
		key, needsShift := charToKey(char)
		if key == 0 {
			continue
		}

		if needsShift {
			if err := keyboard.KeyPress(KEY_LEFTSHIFT); err != nil {
				return err
			}
		}

		if err := TypeKey(keyboard, key); err != nil {
			if needsShift {
				keyboard.KeyRelease(KEY_LEFTSHIFT)
			}
			return err
		}

		if needsShift {
			if err := keyboard.KeyRelease(KEY_LEFTSHIFT); err != nil {
				return err
			}
		}
	}
	return nil
}

// charToKey converts a character to its corresponding key code and whether
// shift is needed. This is a simplified mapping for basic ASCII characters.
func charToKey(char rune) (uint32, bool) {
	switch char {
	case ' ':
		return KEY_SPACE, false
	case '!':
		return KEY_1, true
	case '@':
		return KEY_2, true
	case '#':
		return KEY_3, true
	case '$':
		return KEY_4, true
	case '%':
		return KEY_5, true
	case '^':
		return KEY_6, true
	case '&':
		return KEY_7, true
	case '*':
		return KEY_8, true
	case '(':
		return KEY_9, true
	case ')':
		return KEY_0, true
	case '-':
		return KEY_MINUS, false
	case '_':
		return KEY_MINUS, true
	case '=':
		return KEY_EQUAL, false
	case '+':
		return KEY_EQUAL, true
	case '[':
		return KEY_LEFTBRACE, false
	case '{':
		return KEY_LEFTBRACE, true
	case ']':
		return KEY_RIGHTBRACE, false
	case '}':
		return KEY_RIGHTBRACE, true
	case '\\':
		return KEY_BACKSLASH, false
	case '|':
		return KEY_BACKSLASH, true
	case ';':
		return KEY_SEMICOLON, false
	case ':':
		return KEY_SEMICOLON, true
	case '\'':
		return KEY_APOSTROPHE, false
	case '"':
		return KEY_APOSTROPHE, true
	case '`':
		return KEY_GRAVE, false
	case '~':
		return KEY_GRAVE, true
	case ',':
		return KEY_COMMA, false
	case '<':
		return KEY_COMMA, true
	case '.':
		return KEY_DOT, false
	case '>':
		return KEY_DOT, true
	case '/':
		return KEY_SLASH, false
	case '?':
		return KEY_SLASH, true
	case '\t':
		return KEY_TAB, false
	case '\n':
		return KEY_ENTER, false
	case '0':
		return KEY_0, false
	case '1':
		return KEY_1, false
	case '2':
		return KEY_2, false
	case '3':
		return KEY_3, false
	case '4':
		return KEY_4, false
	case '5':
		return KEY_5, false
	case '6':
		return KEY_6, false
	case '7':
		return KEY_7, false
	case '8':
		return KEY_8, false
	case '9':
		return KEY_9, false
	case 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm',
		'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z':
		return KEY_A + uint32(char-'a'), false
	case 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
		'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z':
		return KEY_A + uint32(char-'A'), true
	default:
		return 0, false
	}
}

// SetModifiers sets the modifier state.
func SetModifiers(keyboard *VirtualKeyboard, modifiers uint32) error {
	return keyboard.Modifiers(modifiers, 0, 0, 0)
}

// PressModifiers presses the specified modifier keys.
func PressModifiers(keyboard *VirtualKeyboard, modifiers uint32) error {
	if modifiers&MOD_SHIFT != 0 {
		if err := keyboard.KeyPress(KEY_LEFTSHIFT); err != nil {
			return err
		}
	}
	if modifiers&MOD_CTRL != 0 {
		if err := keyboard.KeyPress(KEY_LEFTCTRL); err != nil {
			return err
		}
	}
	if modifiers&MOD_ALT != 0 {
		if err := keyboard.KeyPress(KEY_LEFTALT); err != nil {
			return err
		}
	}
	if modifiers&MOD_LOGO != 0 {
		if err := keyboard.KeyPress(KEY_LEFTMETA); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseModifiers releases the specified modifier keys.
func ReleaseModifiers(keyboard *VirtualKeyboard, modifiers uint32) error {
	if modifiers&MOD_SHIFT != 0 {
		if err := keyboard.KeyRelease(KEY_LEFTSHIFT); err != nil {
			return err
		}
	}
	if modifiers&MOD_CTRL != 0 {
		if err := keyboard.KeyRelease(KEY_LEFTCTRL); err != nil {
			return err
		}
	}
	if modifiers&MOD_ALT != 0 {
		if err := keyboard.KeyRelease(KEY_LEFTALT); err != nil {
			return err
		}
	}
	if modifiers&MOD_LOGO != 0 {
		if err := keyboard.KeyRelease(KEY_LEFTMETA); err != nil {
			return err
		}
	}
	return nil
}

// KeyCombo performs a key combination (e.g., Ctrl+C).
func KeyCombo(keyboard *VirtualKeyboard, modifiers uint32, key uint32) error {
	if err := PressModifiers(keyboard, modifiers); err != nil {
		return err
	}

	if err := TypeKey(keyboard, key); err != nil {
		ReleaseModifiers(keyboard, modifiers)
		return err
	}

	return ReleaseModifiers(keyboard, modifiers)
}
