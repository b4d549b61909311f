package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	err := newRootCmd(&appState{}).Execute()
	if err == nil {
		return
	}
	var exitErr *exitCodeError
	if !errors.As(err, &exitErr) {
		// a failing child has already spoken for itself on the terminal
		fmt.Fprintln(os.Stderr, "ttycodes:", err)
	}
	os.Exit(exitStatus(err))
}
