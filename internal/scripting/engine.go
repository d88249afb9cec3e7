package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/objpool/internal/core/pool"
)

// Engine wraps a single gopher-lua VM used for scripted object behaviour.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script under scriptsDir.
// A missing directory is not an error.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in dir and its subdirectories, in lexical
// order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := e.loadDir(path); err != nil {
				return err
			}
			continue
		}
		if filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk of Lua source in the engine's VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// BindPool exposes the pool to scripts:
//
//	pool_remove(id)  queue an object for removal after the update pass
//	pool_has(id)     whether id is registered
//	pool_len()       number of live objects
func (e *Engine) BindPool(p *pool.Pool) {
	e.vm.SetGlobal("pool_remove", e.vm.NewFunction(func(L *lua.LState) int {
		p.MarkForRemoval(pool.ObjectID(L.CheckInt64(1)))
		return 0
	}))
	e.vm.SetGlobal("pool_has", e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(p.Has(pool.ObjectID(L.CheckInt64(1)))))
		return 1
	}))
	e.vm.SetGlobal("pool_len", e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(p.Len()))
		return 1
	}))
}

// Behavior returns a pool.Behavior that calls the Lua global fnName with the
// object id and the tick delta in seconds.
func (e *Engine) Behavior(fnName string) (pool.Behavior, error) {
	fn, ok := e.vm.GetGlobal(fnName).(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("lua function %s not found", fnName)
	}
	return &luaBehavior{engine: e, name: fnName, fn: fn}, nil
}

// Close shuts the VM down.
func (e *Engine) Close() {
	e.vm.Close()
}

type luaBehavior struct {
	engine *Engine
	name   string
	fn     *lua.LFunction
}

func (b *luaBehavior) Update(obj *pool.GameObject, dt time.Duration) {
	err := b.engine.vm.CallByParam(lua.P{
		Fn:      b.fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(obj.ID()), lua.LNumber(dt.Seconds()))
	if err != nil {
		b.engine.log.Error("lua behaviour error",
			zap.String("fn", b.name),
			zap.Uint64("object", uint64(obj.ID())),
			zap.Error(err))
	}
}
