package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/temirov/fsgit/cmd/cli"
)

const (
	exitErrorTemplateConstant = "fsgit: %v\n"
)

// main runs the fsgit search until it completes or the process is interrupted.
func main() {
	signalContext, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	executionError := cli.Execute(signalContext)
	stopSignals()

	exitCode, reportable := cli.ExitStatus(executionError)
	if reportable {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(exitCode)
}
