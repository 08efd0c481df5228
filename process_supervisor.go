// process_supervisor.go - spawns and tears down the assembler and emulator
// child processes

package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// ProcessSupervisor owns the emulator child process and the pipes wired to
// it (§4.10). It also drives one-shot assembler invocations used to turn a
// .s source file into a .kmd listing.
type ProcessSupervisor struct {
	cmd *exec.Cmd

	hostToBoard *os.File // host writes, board reads (board's stdin)
	boardToHost *os.File // board writes, host reads (board's stdout)
}

// StartEmulator launches the emulator binary at binPath wired to a fresh
// pipe pair and returns a Board driving it.
func (p *ProcessSupervisor) StartEmulator(binPath string) (*Board, error) {
	inRead, inWrite, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("supervisor: create input pipe: %w", err)
	}
	outRead, outWrite, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("supervisor: create output pipe: %w", err)
	}

	cmd := exec.Command(binPath)
	cmd.Stdin = inRead
	cmd.Stdout = outWrite
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("supervisor: start emulator: %w", err)
	}

	// The child owns its ends now; the host doesn't need them.
	inRead.Close()
	outWrite.Close()

	p.cmd = cmd
	p.hostToBoard = inWrite
	p.boardToHost = outRead

	return NewBoard(inWrite, outRead), nil
}

// Compile runs the assembler binary at asmBin against srcPath, producing
// kmdPath, and returns whatever the assembler wrote to stdout/stderr —
// the compiler output relay, read instead of discarded (supplemented over
// the original, which piped this to nowhere).
func (p *ProcessSupervisor) Compile(asmBin, srcPath, kmdPath string) (string, error) {
	commRead, commWrite, err := os.Pipe()
	if err != nil {
		return "", fmt.Errorf("supervisor: create compiler comms pipe: %w", err)
	}
	defer commRead.Close()

	cmd := exec.Command(asmBin, "-lk", kmdPath, srcPath)
	cmd.Stdout = commWrite
	cmd.Stderr = commWrite

	if err := cmd.Start(); err != nil {
		commWrite.Close()
		return "", fmt.Errorf("supervisor: start assembler: %w", err)
	}
	commWrite.Close()

	out, readErr := io.ReadAll(commRead)
	waitErr := cmd.Wait()
	if waitErr != nil {
		return string(out), fmt.Errorf("supervisor: assembler failed: %w", waitErr)
	}
	if readErr != nil {
		return string(out), fmt.Errorf("supervisor: read compiler output: %w", readErr)
	}
	return string(out), nil
}

// Shutdown sends SIGTERM to the emulator child and closes the host's pipe
// ends. Safe to call even if StartEmulator was never called or failed.
func (p *ProcessSupervisor) Shutdown() {
	if p.hostToBoard != nil {
		p.hostToBoard.Close()
	}
	if p.boardToHost != nil {
		p.boardToHost.Close()
	}
	if p.cmd == nil || p.cmd.Process == nil {
		return
	}
	if err := unix.Kill(p.cmd.Process.Pid, unix.SIGTERM); err != nil {
		fmt.Fprintf(os.Stderr, "jimkmd: failed to signal emulator: %v\n", err)
		return
	}
	_, _ = p.cmd.Process.Wait()
}
