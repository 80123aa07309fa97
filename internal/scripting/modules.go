package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the arena Lua table into L.
//
// arena.log(msg) writes msg to logger at info level.
//
// Precondition: L must be from NewSandboxedState; logger must be non-nil.
// Postcondition: arena global is defined in L.
func RegisterModules(L *lua.LState, logger *zap.Logger) {
	arena := L.NewTable()
	L.SetField(arena, "log", L.NewFunction(func(L *lua.LState) int {
		logger.Info("lua", zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetGlobal("arena", arena)
}
