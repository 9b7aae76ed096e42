package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/bodebridge/vxi11-bridge/pkg/util"
)

var (
	hooks = []func(){}
)

func addShutdown(f func()) {
	if len(hooks) == 0 {
		registerShutdown()
	}

	hooks = append(hooks, f)
	logrus.Debugf("Added shutdown func %v", util.GetFunctionName(f))
}

// shutdownContext is cancelled by the first SIGINT or SIGTERM.
func shutdownContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	addShutdown(cancel)
	return ctx, cancel
}

// registerShutdown runs the hooks on the first signal and exits on the
// second, in case the graceful path is stuck on the instrument.
func registerShutdown() {
	c := make(chan os.Signal, 1024)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		signalled := false
		for s := range c {
			if signalled {
				logrus.Warnf("Received signal %v again, exiting", s)
				os.Exit(1)
			}
			signalled = true
			logrus.Warnf("Received signal %v to shutdown", s)
			for _, hook := range hooks {
				logrus.Warnf("Starting to execute registered shutdown func %v", util.GetFunctionName(hook))
				hook()
			}
		}
	}()
}
