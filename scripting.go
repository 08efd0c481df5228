// scripting.go - Lua scripting console over the board's run-control surface

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ScriptConsole exposes a handful of board operations as Lua globals so a
// debugging session can be driven from a script instead of interactively,
// one command per line, the same operations the REPL offers (§4.6, §4.5,
// §4.8).
type ScriptConsole struct {
	exec  *ExecutionControl
	bp    *BreakpointTable
	regs  *RegisterBank
}

// NewScriptConsole wires exec, bp and regs into a console ready to run
// scripts.
func NewScriptConsole(exec *ExecutionControl, bp *BreakpointTable, regs *RegisterBank) *ScriptConsole {
	return &ScriptConsole{exec: exec, bp: bp, regs: regs}
}

// RunFile executes the Lua script at path against the wired board.
func (c *ScriptConsole) RunFile(path string) error {
	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("start", L.NewFunction(c.luaStart))
	L.SetGlobal("continue", L.NewFunction(c.luaContinue))
	L.SetGlobal("pause", L.NewFunction(c.luaPause))
	L.SetGlobal("reset", L.NewFunction(c.luaReset))
	L.SetGlobal("set_breakpoint", L.NewFunction(c.luaSetBreakpoint))
	L.SetGlobal("read_registers", L.NewFunction(c.luaReadRegisters))

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	return nil
}

func (c *ScriptConsole) luaStart(L *lua.LState) int {
	steps := uint32(L.OptNumber(1, 0))
	c.exec.Start(steps)
	return 0
}

func (c *ScriptConsole) luaContinue(L *lua.LState) int {
	c.exec.Continue()
	return 0
}

func (c *ScriptConsole) luaPause(L *lua.LState) int {
	c.exec.Pause()
	return 0
}

func (c *ScriptConsole) luaReset(L *lua.LState) int {
	c.exec.Reset()
	return 0
}

func (c *ScriptConsole) luaSetBreakpoint(L *lua.LState) int {
	addr := uint32(L.CheckNumber(1))
	ok := c.bp.SetBreakpoint(addr)
	L.Push(lua.LBool(ok))
	return 1
}

func (c *ScriptConsole) luaReadRegisters(L *lua.LState) int {
	regs := c.regs.Read()
	tbl := L.NewTable()
	for i, r := range regs {
		tbl.RawSetInt(i+1, lua.LString(r))
	}
	L.Push(tbl)
	return 1
}
