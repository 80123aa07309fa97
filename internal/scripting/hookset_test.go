package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/progression"
	"github.com/cory-johannsen/arena/internal/game/run"
	"github.com/cory-johannsen/arena/internal/scripting"
)

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0644))
	return dir
}

func newHookSet(t testing.TB, src string, limit int) (*scripting.HookSet, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	h, err := scripting.NewHookSet(writeTempLua(t, "hooks.lua", src), limit, zap.New(core))
	require.NoError(t, err)
	t.Cleanup(h.Close)
	return h, logs
}

func luaMessages(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.FilterMessage("lua").All() {
		out = append(out, e.ContextMap()["msg"].(string))
	}
	return out
}

func TestHookSet_RoundStartReceivesTables(t *testing.T) {
	h, logs := newHookSet(t, `
		function on_round_start(round, enemy, player)
			arena.log(string.format("r%d e%d/%d p%d", round, enemy.level, enemy.max_hp, player.hp))
		end
	`, 0)
	h.RoundStarted(run.RoundStart{
		Round:  3,
		Enemy:  combat.EnemyState{Level: 2, HP: 11, MaxHP: 11},
		Player: progression.PlayerState{Level: 2, HP: 20, MaxHP: 20},
	})
	assert.Equal(t, []string{"r3 e2/11 p20"}, luaMessages(logs))
}

func TestHookSet_AttackAndLevelUp(t *testing.T) {
	h, logs := newHookSet(t, `
		function on_attack(round, out)
			if out.crit then arena.log("crit " .. out.damage_taken) end
			arena.log(out.result)
		end
		function on_level_up(ev)
			arena.log(ev.from_level .. "->" .. ev.to_level)
		end
		function on_run_complete(p)
			arena.log("done " .. p.wins)
		end
	`, 0)
	h.AttackResolved(1, combat.RoundOutcome{Result: combat.InProgress, DamageTaken: 4, Crit: true})
	h.LeveledUp(progression.LevelUpEvent{FromLevel: 1, ToLevel: 3, LevelsGained: 2})
	h.RunCompleted(progression.PlayerState{Wins: 7})
	assert.Equal(t, []string{"crit 4", "in progress", "1->3", "done 7"}, luaMessages(logs))
}

func TestHookSet_MissingHooksAreNoOps(t *testing.T) {
	h, logs := newHookSet(t, `-- no hooks`, 0)
	h.RoundStarted(run.RoundStart{Round: 1})
	h.AttackResolved(1, combat.RoundOutcome{})
	h.LeveledUp(progression.LevelUpEvent{})
	h.RunCompleted(progression.PlayerState{})
	assert.Zero(t, logs.FilterMessage("scripting: Lua runtime error").Len())
	assert.Zero(t, h.Failures())
}

func TestHookSet_RuntimeErrorLoggedNotPropagated(t *testing.T) {
	h, logs := newHookSet(t, `
		function on_level_up(ev)
			error("intentional error")
		end
	`, 0)
	assert.NotPanics(t, func() { h.LeveledUp(progression.LevelUpEvent{}) })
	warns := logs.FilterMessage("scripting: Lua runtime error").All()
	require.Len(t, warns, 1)
	assert.Equal(t, zap.WarnLevel, warns[0].Level)
	assert.Equal(t, 1, h.Failures())
}

func TestHookSet_InstructionLimitPerCall(t *testing.T) {
	h, _ := newHookSet(t, `
		calls = 0
		function on_attack(round, out)
			calls = calls + 1
			if out.result == "loss" then
				while true do end
			end
			arena.log("ok " .. calls)
		end
	`, 1000)
	h.AttackResolved(1, combat.RoundOutcome{Result: combat.Loss})
	assert.Equal(t, 1, h.Failures())

	// A fresh budget is armed for the next call.
	for i := 0; i < 5; i++ {
		h.AttackResolved(1, combat.RoundOutcome{Result: combat.InProgress})
	}
	assert.Equal(t, 1, h.Failures())
}

func TestNewHookSet_LoadErrors(t *testing.T) {
	_, err := scripting.NewHookSet(filepath.Join(t.TempDir(), "missing"), 0, nil)
	assert.Error(t, err)

	dir := writeTempLua(t, "broken.lua", `function (`)
	_, err = scripting.NewHookSet(dir, 0, nil)
	assert.Error(t, err)
}

func TestHookSet_DrivesFromController(t *testing.T) {
	h, logs := newHookSet(t, `
		function on_round_start(round, enemy, player) arena.log("start " .. round) end
		function on_level_up(ev) arena.log("level " .. ev.to_level) end
		function on_run_complete(p) arena.log("complete " .. p.level) end
	`, 0)

	pcfg := progression.DefaultConfig()
	pcfg.LinearA = 10
	pcfg.XPPerWin = 10
	pcfg.TargetLevel = 2
	pcfg.PlayerBaseDamage = 1000
	eng, err := progression.NewEngine(pcfg)
	require.NoError(t, err)
	c, err := run.NewController(eng, combat.DefaultConfig(), run.WithHooks(h))
	require.NoError(t, err)

	_, err = c.BeginRound()
	require.NoError(t, err)
	_, err = c.OnAttack(dice.NewSequence(0.5))
	require.NoError(t, err)

	assert.Equal(t, []string{"start 1", "level 2", "complete 2"}, luaMessages(logs))
}
