package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/progression"
	"github.com/cory-johannsen/arena/internal/game/run"
)

// Hook names looked up as Lua globals.
const (
	HookRoundStart  = "on_round_start"
	HookAttack      = "on_attack"
	HookLevelUp     = "on_level_up"
	HookRunComplete = "on_run_complete"
)

// HookSet is a run.Hooks backed by one sandboxed Lua VM.
//
// Calls are serialized; one HookSet per run worker keeps VMs uncontended.
type HookSet struct {
	mu        sync.Mutex
	L         *lua.LState
	instLimit int
	logger    *zap.Logger
	failures  int
}

var _ run.Hooks = (*HookSet)(nil)

// NewHookSet creates a sandboxed VM, registers the arena module, then executes
// every *.lua file in scriptDir in lexicographic order.
//
// Precondition: scriptDir must be a readable directory; instLimit >= 0.
// Postcondition: Returns a ready HookSet, or an error naming the failing file.
func NewHookSet(scriptDir string, instLimit int, logger *zap.Logger) (*HookSet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState(instLimit)
	RegisterModules(L, logger)
	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			L.Close()
			return nil, fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	logger.Debug("scripting: hooks loaded", zap.Int("files", len(luaFiles)))
	return &HookSet{L: L, instLimit: instLimit, logger: logger}, nil
}

// Close releases the Lua VM.
func (h *HookSet) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.L.Close()
}

// Failures returns how many hook calls raised a Lua error.
func (h *HookSet) Failures() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failures
}

// call invokes the named global with a fresh instruction budget. Missing hooks
// are a no-op; Lua runtime errors are logged at Warn level and never propagated.
func (h *HookSet) call(hook string, build func(L *lua.LState) []lua.LValue) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn := h.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return
	}
	cancel := ArmLimit(h.L, h.instLimit)
	defer cancel()
	if err := h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, build(h.L)...); err != nil {
		h.failures++
		h.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
	}
}

func enemyTable(L *lua.LState, e combat.EnemyState) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("level", lua.LNumber(e.Level))
	t.RawSetString("hp", lua.LNumber(e.HP))
	t.RawSetString("max_hp", lua.LNumber(e.MaxHP))
	t.RawSetString("damage_min", lua.LNumber(e.DamageMin))
	t.RawSetString("damage_max", lua.LNumber(e.DamageMax))
	t.RawSetString("crit_max", lua.LNumber(e.CritMax))
	return t
}

func playerTable(L *lua.LState, p progression.PlayerState) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("level", lua.LNumber(p.Level))
	t.RawSetString("xp", lua.LNumber(p.XP))
	t.RawSetString("xp_to_next", lua.LNumber(p.XPToNext))
	t.RawSetString("total_xp", lua.LNumber(p.TotalXP))
	t.RawSetString("hp", lua.LNumber(p.HP))
	t.RawSetString("max_hp", lua.LNumber(p.MaxHP))
	t.RawSetString("wins", lua.LNumber(p.Wins))
	t.RawSetString("losses", lua.LNumber(p.Losses))
	return t
}

// RoundStarted calls on_round_start(round, enemy, player).
func (h *HookSet) RoundStarted(start run.RoundStart) {
	h.call(HookRoundStart, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{lua.LNumber(start.Round), enemyTable(L, start.Enemy), playerTable(L, start.Player)}
	})
}

// AttackResolved calls on_attack(round, outcome).
func (h *HookSet) AttackResolved(round int, out combat.RoundOutcome) {
	h.call(HookAttack, func(L *lua.LState) []lua.LValue {
		t := L.NewTable()
		t.RawSetString("result", lua.LString(out.Result.String()))
		t.RawSetString("damage_dealt", lua.LNumber(out.DamageDealt))
		t.RawSetString("damage_taken", lua.LNumber(out.DamageTaken))
		t.RawSetString("crit", lua.LBool(out.Crit))
		t.RawSetString("player_hp", lua.LNumber(out.PlayerHP))
		t.RawSetString("enemy_hp", lua.LNumber(out.EnemyHP))
		return []lua.LValue{lua.LNumber(round), t}
	})
}

// LeveledUp calls on_level_up(event).
func (h *HookSet) LeveledUp(ev progression.LevelUpEvent) {
	h.call(HookLevelUp, func(L *lua.LState) []lua.LValue {
		t := L.NewTable()
		t.RawSetString("from_level", lua.LNumber(ev.FromLevel))
		t.RawSetString("to_level", lua.LNumber(ev.ToLevel))
		t.RawSetString("levels_gained", lua.LNumber(ev.LevelsGained))
		t.RawSetString("old_damage", lua.LNumber(ev.OldDamage))
		t.RawSetString("new_damage", lua.LNumber(ev.NewDamage))
		t.RawSetString("old_xp_to_next", lua.LNumber(ev.OldXPToNext))
		t.RawSetString("new_xp_to_next", lua.LNumber(ev.NewXPToNext))
		t.RawSetString("xp_remainder", lua.LNumber(ev.XPRemainder))
		return []lua.LValue{t}
	})
}

// RunCompleted calls on_run_complete(player).
func (h *HookSet) RunCompleted(final progression.PlayerState) {
	h.call(HookRunComplete, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{playerTable(L, final)}
	})
}
