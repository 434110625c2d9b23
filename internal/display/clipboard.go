package display

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no clipboard utility exists.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Clipboard receives the display string.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard (pbcopy, xclip, xsel,
// wl-copy or the Windows API).
type SystemClipboard struct{}

// WriteAll copies text.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

// Copy offers the summary's display string to cb.
func Copy(cb Clipboard, displayString string) error {
	if cb == nil {
		return ErrClipboardUnavailable
	}
	return cb.WriteAll(displayString)
}
