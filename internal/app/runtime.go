package app

import (
	"os"
	"sync"
)

const testModeEnv = "VENDORHUB_TEST_MODE"

var inTestMode = sync.OnceValue(func() bool {
	return os.Getenv(testModeEnv) == "1"
})

// InTestMode reports whether process entrypoints should exit before binding
// sockets. Smoke tests set VENDORHUB_TEST_MODE=1 to verify wiring without
// starting servers.
func InTestMode() bool {
	return inTestMode()
}
