// Package pilot steers a snake from a Lua script. It is an input source like
// the keyboard: it reads snapshots and emits heading changes.
package pilot

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
)

const strategyFunction = "next_direction"

var (
	ErrNoStrategy   = errors.New("script does not define " + strategyFunction)
	ErrBadDirection = errors.New("script returned an invalid direction")
)

// Steerer accepts heading changes; *game.Loop satisfies it.
type Steerer interface {
	Turn(game.Direction)
}

// LuaPilot keeps one Lua state for its lifetime and is not safe for
// concurrent use.
type LuaPilot struct {
	Name  string
	state *lua.LState
}

func NewLuaPilot(name, source string) (*LuaPilot, error) {
	luaState := lua.NewState()
	luaState.SetGlobal("distance", luaState.NewFunction(luaDistance))

	if err := luaState.DoString(source); err != nil {
		luaState.Close()
		return nil, fmt.Errorf("load strategy %q: %w", name, err)
	}
	if _, ok := luaState.GetGlobal(strategyFunction).(*lua.LFunction); !ok {
		luaState.Close()
		return nil, fmt.Errorf("load strategy %q: %w", name, ErrNoStrategy)
	}

	return &LuaPilot{Name: name, state: luaState}, nil
}

// LoadLuaPilot reads a strategy script from disk. The name "builtin" selects
// the bundled food seeker.
func LoadLuaPilot(path string) (*LuaPilot, error) {
	if path == "builtin" {
		return NewLuaPilot("builtin", FoodSeekerScript)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategy: %w", err)
	}
	return NewLuaPilot(path, string(source))
}

func (p *LuaPilot) Close() {
	p.state.Close()
}

// NextDirection asks the script for a heading. ok is false when the script
// returned nil to keep the current heading.
func (p *LuaPilot) NextDirection(snap game.Snapshot) (dir game.Direction, ok bool, err error) {
	err = p.state.CallByParam(lua.P{
		Fn:      p.state.GetGlobal(strategyFunction),
		NRet:    1,
		Protect: true,
	}, p.snapshotTable(snap))
	if err != nil {
		return game.Direction{}, false, fmt.Errorf("run strategy %q: %w", p.Name, err)
	}

	ret := p.state.Get(-1)
	p.state.Pop(1)

	if ret == lua.LNil {
		return game.Direction{}, false, nil
	}
	luaTable, isTable := ret.(*lua.LTable)
	if !isTable {
		return game.Direction{}, false, fmt.Errorf("%w: got %s, expected table", ErrBadDirection, ret.Type())
	}

	dir = convertLuaDirectionTable(luaTable)
	if !dir.IsUnit() {
		return game.Direction{}, false, fmt.Errorf("%w: %s", ErrBadDirection, dir)
	}
	return dir, true, nil
}

// Drive reads snapshots until ctx is done or snaps is closed and turns the
// snake whenever the script picks a new heading.
func (p *LuaPilot) Drive(ctx context.Context, snaps <-chan game.Snapshot, steer Steerer) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, open := <-snaps:
			if !open {
				return
			}
			if snap.State != game.StateRunning {
				continue
			}

			dir, ok, err := p.NextDirection(snap)
			if err != nil {
				log.Warn("Autopilot skipped a tick", "strategy", p.Name, "tick", snap.Tick, "error", err)
				continue
			}
			if ok && dir != snap.Heading {
				steer.Turn(dir)
			}
		}
	}
}

func (p *LuaPilot) snapshotTable(snap game.Snapshot) *lua.LTable {
	L := p.state
	tbl := L.NewTable()

	body := L.NewTable()
	for _, c := range snap.Body {
		body.Append(cellTable(L, c))
	}

	heading := L.NewTable()
	heading.RawSetString("dx", lua.LNumber(snap.Heading.Dx))
	heading.RawSetString("dy", lua.LNumber(snap.Heading.Dy))

	tbl.RawSetString("head", cellTable(L, snap.Head()))
	tbl.RawSetString("food", cellTable(L, snap.Food))
	tbl.RawSetString("heading", heading)
	tbl.RawSetString("body", body)
	tbl.RawSetString("grid_count", lua.LNumber(snap.GridCount))
	tbl.RawSetString("score", lua.LNumber(snap.Score))
	tbl.RawSetString("tick", lua.LNumber(snap.Tick))
	return tbl
}

func cellTable(L *lua.LState, c game.Cell) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("x", lua.LNumber(c.X))
	tbl.RawSetString("y", lua.LNumber(c.Y))
	return tbl
}

func tableCell(tbl *lua.LTable) game.Cell {
	return game.Cell{
		X: int(lua.LVAsNumber(tbl.RawGetString("x"))),
		Y: int(lua.LVAsNumber(tbl.RawGetString("y"))),
	}
}

func convertLuaDirectionTable(luaTbl *lua.LTable) game.Direction {
	result := game.Direction{}
	luaTbl.ForEach(func(key, value lua.LValue) {
		if key.Type() != lua.LTString {
			return
		}

		switch lua.LVAsString(key) {
		case "dx":
			result.Dx = int(lua.LVAsNumber(value))
		case "dy":
			result.Dy = int(lua.LVAsNumber(value))
		}
	})
	return result
}

// luaDistance exposes the Manhattan distance between two {x, y} tables.
func luaDistance(L *lua.LState) int {
	a := tableCell(L.CheckTable(1))
	b := tableCell(L.CheckTable(2))
	L.Push(lua.LNumber(game.ManhattanDistance(a, b)))
	return 1
}
