// Package clipboard copies yanked transcript text to the system clipboard.
package clipboard

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

// Write copies text to the system clipboard. The native clipboard tool
// (pbcopy, wl-copy, xclip, ...) is tried first; when none is available,
// for example over SSH or inside tmux, the OSC 52 escape sequence asks the
// terminal emulator to do the copy instead.
func Write(text string) error {
	if err := clipboard.WriteAll(text); err == nil {
		return nil
	}
	return writeOSC52(text)
}

func writeOSC52(text string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	_, err := fmt.Fprintf(os.Stderr, "\x1b]52;c;%s\x07", encoded)
	return err
}
