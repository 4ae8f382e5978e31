// Package config loads the launcher's optional Lua config file.
//
// The file is named ec-launcher.lua and lives next to the launcher
// executable. When it is absent the built-in defaults apply. When it is
// present it must assign a global "launcher" table:
//
//	launcher = {
//	    release_url = "https://mirror.example.com/ec/releases",
//	    user_agent  = "my-ec/1.0",
//	    debug       = platform.is_linux,
//	}
//
// All fields are optional. Unknown fields, wrong types and invalid values
// are reported as *ParseError and stop the launcher.
//
// # Sandbox
//
// The file runs in a gopher-lua VM with os, io, debug and every code
// loading function removed. The string, table and math libraries remain.
// A read-only "platform" table describes the detected host (see
// platform.InjectPlatformTable). Evaluation is cancelled after
// ParseTimeout.
//
// The pinned release version and the cache directory cannot be changed
// from the config file.
package config
