package cmd

import (
	"errors"
	"testing"

	"gopod/internal/client"
)

func TestGetExitCode(t *testing.T) {
	if got := getExitCode(errors.New("dispatch failed")); got != ExitCodeError {
		t.Errorf("generic error exit code = %d, want %d", got, ExitCodeError)
	}

	startup := &client.StartupError{Err: errors.New("download dir not writable")}
	if got := getExitCode(startup); got != ExitCodeStartupFailed {
		t.Errorf("startup error exit code = %d, want %d", got, ExitCodeStartupFailed)
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3")
	if got := GetVersion(); got != "1.2.3" {
		t.Errorf("GetVersion() = %q, want \"1.2.3\"", got)
	}
}
