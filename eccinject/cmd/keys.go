package cmd

import (
	"bufio"
	"context"
	"io"

	"github.com/pkg/term"
)

// openKeys delivers single key presses from the controlling terminal. When
// there is no terminal, it falls back to reading fallback, where keys only
// arrive once a line is complete. The returned function restores the
// terminal.
func openKeys(ctx context.Context, fallback io.Reader) (<-chan byte, func()) {
	keys := make(chan byte)

	t, err := term.Open("/dev/tty", term.CBreakMode)
	if err != nil {
		go pumpKeys(ctx, bufio.NewReader(fallback), keys)
		return keys, func() {}
	}

	go pumpKeys(ctx, t, keys)

	return keys, func() {
		_ = t.Restore()
		_ = t.Close()
	}
}

func pumpKeys(ctx context.Context, r io.Reader, keys chan<- byte) {
	defer close(keys)

	buf := make([]byte, 1)

	for {
		n, err := r.Read(buf)
		if n == 1 && buf[0] != '\n' && buf[0] != '\r' {
			select {
			case keys <- buf[0]:
			case <-ctx.Done():
				return
			}
		}

		if err != nil {
			return
		}
	}
}
