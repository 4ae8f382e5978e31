package config

import "time"

// FileName is the optional config file looked up in the cache base directory.
const FileName = "ec-launcher.lua"

// ParseTimeout bounds evaluation of a config file.
const ParseTimeout = 5 * time.Second

// maxConfigSize is the largest config file ParseFile will read.
const maxConfigSize = 1 << 20

// Lua schema field names and globals
const (
	luaGlobalLauncher = "launcher"
	luaFieldRelease   = "release_url"
	luaFieldUserAgent = "user_agent"
	luaFieldDebug     = "debug"
)
