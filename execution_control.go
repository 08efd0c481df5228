// execution_control.go - start/continue/pause/reset, gated on board status

package main

// ExecutionControl issues the board's run-control opcodes (§4.6). Start and
// Continue only fire when the board last reported NORMAL or BREAKPOINT —
// issuing them while the board is RUNNING or BUSY would desynchronise the
// protocol. Pause and Reset are always allowed.
type ExecutionControl struct {
	board  *Board
	status *StatusReader
}

// NewExecutionControl wires run control to board, consulting status for
// admission checks before START/CONTINUE.
func NewExecutionControl(board *Board, status *StatusReader) *ExecutionControl {
	return &ExecutionControl{board: board, status: status}
}

func (e *ExecutionControl) gated() bool {
	s := e.status.CheckBoardState()
	return s == StateNormal || s == StateBreakpoint
}

// Start begins execution for the given number of steps (0 means run until
// stopped). No-op unless the board is NORMAL or at a BREAKPOINT.
func (e *ExecutionControl) Start(steps uint32) {
	if !e.gated() {
		return
	}
	e.board.mu.Lock()
	defer e.board.mu.Unlock()

	e.board.sendOpcode(opStart)
	e.board.io.writeU(4, steps)
}

// Continue resumes from the current program counter. No-op unless the
// board is NORMAL or at a BREAKPOINT.
func (e *ExecutionControl) Continue() {
	if !e.gated() {
		return
	}
	e.board.mu.Lock()
	defer e.board.mu.Unlock()

	e.board.sendOpcode(opContinue)
}

// Pause stops execution immediately, regardless of current state.
func (e *ExecutionControl) Pause() {
	e.board.mu.Lock()
	defer e.board.mu.Unlock()

	e.board.sendOpcode(opStop)
}

// Reset restarts the board from its initial state, regardless of current
// state.
func (e *ExecutionControl) Reset() {
	e.board.mu.Lock()
	defer e.board.mu.Unlock()

	e.board.sendOpcode(opReset)
}
