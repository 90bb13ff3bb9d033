//go:build !windows

package app

import (
	"os"
	"syscall"
)

// shutdownSignals are the OS signals that cancel the running command.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
