package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM strips everything from the VM that could touch the host:
// command execution and exit (os), file access (io), loading other code
// (require, dofile, loadfile, load, loadstring) and the debug library.
//
// string, table and math stay available, as do the basic functions
// (type, tostring, tonumber, pairs, ipairs, next).
func sandboxLuaVM(L *lua.LState) {
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)

	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)

	// Could be used to reach the removed globals
	L.SetGlobal("debug", lua.LNil)
}

// newSandboxedVM creates a Lua state for evaluating a config file.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize:       256,
		SkipOpenLibs:        false,
		IncludeGoStackTrace: false,
	})
	sandboxLuaVM(L)
	return L
}
