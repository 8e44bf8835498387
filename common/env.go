// Package common holds configuration names shared by the cookiectl CLI and
// the RPC daemon.
package common

// Environment variable names for configuration.
const (
	// StoreEnv overrides the path of the SQLite cookie store.
	StoreEnv = "NATIVECOOKIES_STORE"

	// DebugEnv enables debug logging.
	DebugEnv = "NATIVECOOKIES_DEBUG"

	// MatchPathEnv makes shared-store reads also check the cookie path.
	MatchPathEnv = "NATIVECOOKIES_MATCH_PATH"

	// RPCSecretEnv is the bearer token required by the RPC daemon.
	RPCSecretEnv = "NATIVECOOKIES_RPC_SECRET"

	// RPCPortEnv is the port the RPC daemon listens on.
	RPCPortEnv = "NATIVECOOKIES_RPC_PORT"
)

// StoreDirName is the directory under the user config dir holding the
// default cookie store.
const StoreDirName = "nativecookies"

// StoreFileName is the default cookie store file name.
const StoreFileName = "cookies.db"
