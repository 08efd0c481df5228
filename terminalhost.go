// terminalhost.go - puts the controlling terminal into raw mode and pipes
// keystrokes into the board's virtual terminal

package main

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// TerminalHost puts the controlling terminal into raw mode and runs a
// small pipeline — a blocking reader goroutine feeding a dispatcher
// goroutine over a channel — that hands every keystroke to a
// TerminalRelay. Only instantiated by main.go for interactive sessions —
// never in tests.
type TerminalHost struct {
	relay    *TerminalRelay
	fd       int
	oldState *term.State
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewTerminalHost creates a host adapter that feeds raw stdin into relay.
func NewTerminalHost(relay *TerminalRelay) *TerminalHost {
	return &TerminalHost{relay: relay, stopCh: make(chan struct{})}
}

// Start puts stdin into raw mode and launches the reader/dispatcher pair.
// Key normalization (CR/DEL translation) and the board's own notion of
// which bytes its terminal accepts both live in TerminalRelay, not here —
// this adapter only moves bytes. Call Stop() to restore stdin.
func (h *TerminalHost) Start() {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jimkmd: failed to set raw mode: %v\n", err)
		return
	}
	h.oldState = oldState

	keys := make(chan byte, 32)
	go readKeystrokes(os.Stdin, keys)
	go h.dispatch(keys)
}

// readKeystrokes blocks on stdin — raw mode already disables line
// buffering and OS-level echo, so every byte arrives as its own
// keystroke — and forwards each one until stdin closes.
func readKeystrokes(r *os.File, keys chan<- byte) {
	defer close(keys)
	reader := bufio.NewReader(r)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return
		}
		keys <- b
	}
}

// dispatch hands each key off to the relay until told to stop or the key
// source closes.
func (h *TerminalHost) dispatch(keys <-chan byte) {
	for {
		select {
		case <-h.stopCh:
			return
		case b, ok := <-keys:
			if !ok {
				return
			}
			h.relay.PushInput(b)
		}
	}
}

// Stop restores stdin to blocking, cooked mode and halts the dispatcher.
// The blocking reader goroutine is abandoned rather than joined: there's
// no portable way to interrupt a read(2) already blocked on a terminal fd,
// and the process exits shortly after Stop regardless.
func (h *TerminalHost) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
	})
	if h.oldState != nil {
		_ = term.Restore(h.fd, h.oldState)
		h.oldState = nil
	}
}

// PrintOutput drains the board's pending terminal output and prints it to
// stdout. Call periodically from the foreground controller.
func (h *TerminalHost) PrintOutput() {
	out := h.relay.PullOutput()
	if len(out) > 0 {
		fmt.Print(out)
	}
}
