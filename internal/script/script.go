// Package script exposes note shortcuts to Lua through a global "notes"
// table:
//
//	notes.open(path)  -> true | false, message
//	notes.list()      -> { {id=, name=, filePath=, active=}, ... }
//	notes.run(id)     -> true | false, message
//
// Scripts run in a reduced state with only the base, table, string and
// math libraries, and without the loading functions of base.
package script

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/opennotes/internal/logging"
	"github.com/dshills/opennotes/internal/settings"
)

// ModuleName is the Lua global the API is installed under.
const ModuleName = "notes"

// API is what scripts can reach.
type API interface {
	Open(ctx context.Context, filePath string) error
	Shortcuts() []settings.Shortcut
	Run(id string) error
}

// Engine is a Lua state with the notes module installed. It is not safe
// for concurrent use.
type Engine struct {
	L   *lua.LState
	ctx context.Context
	api API
	log *logging.Logger
}

// New creates an engine bound to api. ctx is passed to Open calls.
func New(ctx context.Context, api API, log *logging.Logger) (*Engine, error) {
	if api == nil {
		return nil, fmt.Errorf("script: nil API")
	}
	if log == nil {
		log = logging.Null
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	e := &Engine{L: L, ctx: ctx, api: api, log: log.WithComponent("script")}

	if err := e.openLibs(); err != nil {
		L.Close()
		return nil, err
	}
	e.register()
	return e, nil
}

func (e *Engine) openLibs() error {
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := e.L.CallByParam(lua.P{
			Fn:      e.L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return fmt.Errorf("opening lua %s library: %w", lib.name, err)
		}
	}

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		e.L.SetGlobal(name, lua.LNil)
	}
	return nil
}

func (e *Engine) register() {
	L := e.L
	mod := L.NewTable()
	L.SetField(mod, "open", L.NewFunction(e.open))
	L.SetField(mod, "list", L.NewFunction(e.list))
	L.SetField(mod, "run", L.NewFunction(e.run))
	L.SetGlobal(ModuleName, mod)
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	if err := e.L.DoString(src); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// DoFile runs a Lua file from disk.
func (e *Engine) DoFile(path string) error {
	e.log.Debug("running script %s", path)
	if err := e.L.DoFile(path); err != nil {
		return fmt.Errorf("lua %s: %w", path, err)
	}
	return nil
}

// Close releases the Lua state.
func (e *Engine) Close() {
	e.L.Close()
}

// open(path) -> true | false, message
func (e *Engine) open(L *lua.LState) int {
	path := L.CheckString(1)
	if err := e.api.Open(e.ctx, path); err != nil {
		return pushFailure(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

// list() -> array of shortcut tables
func (e *Engine) list(L *lua.LState) int {
	shortcuts := e.api.Shortcuts()
	result := L.CreateTable(len(shortcuts), 0)
	for _, sc := range shortcuts {
		entry := L.CreateTable(0, 4)
		entry.RawSetString("id", lua.LString(sc.ID))
		entry.RawSetString("name", lua.LString(sc.Name))
		entry.RawSetString("filePath", lua.LString(sc.FilePath))
		entry.RawSetString("active", lua.LBool(sc.Active()))
		result.Append(entry)
	}
	L.Push(result)
	return 1
}

// run(id) -> true | false, message
func (e *Engine) run(L *lua.LState) int {
	id := L.CheckString(1)
	if err := e.api.Run(id); err != nil {
		return pushFailure(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

func pushFailure(L *lua.LState, err error) int {
	L.Push(lua.LFalse)
	L.Push(lua.LString(err.Error()))
	return 2
}
