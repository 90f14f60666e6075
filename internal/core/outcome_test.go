package core

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeNormalExit(t *testing.T) {
	o := Outcome{ExitCode: 3}
	assert.False(t, o.Interrupted())
	assert.Equal(t, 3, o.Code())
}

func TestOutcomeInterruptSignals(t *testing.T) {
	assert.True(t, Outcome{Signaled: true, Signal: syscall.SIGINT}.Interrupted())
	assert.True(t, Outcome{Signaled: true, Signal: syscall.SIGQUIT}.Interrupted())
	assert.False(t, Outcome{Signaled: true, Signal: syscall.SIGTERM}.Interrupted())
	assert.False(t, Outcome{Signal: syscall.SIGINT}.Interrupted())
}

func TestOutcomeSignalCodeFollowsShellConvention(t *testing.T) {
	o := Outcome{Signaled: true, Signal: syscall.SIGKILL}
	assert.Equal(t, 128+int(syscall.SIGKILL), o.Code())
}
