package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestFromEnvParsesLogLevel(t *testing.T) {
	t.Setenv("ORUS_LOG_LEVEL", "debug")
	c := FromEnv()
	assert.Equal(t, logrus.DebugLevel, c.LogLevel)
}

func TestFromEnvIgnoresInvalidDispatch(t *testing.T) {
	t.Setenv("ORUS_DISPATCH", "nonsense")
	c := FromEnv()
	assert.Equal(t, DispatchSwitch, c.Dispatch)
}

func TestFromEnvParsesGCThreshold(t *testing.T) {
	t.Setenv("ORUS_GC_INITIAL_THRESHOLD", "2048")
	c := FromEnv()
	assert.Equal(t, 2048, c.GCInitialThreshold)
}

func TestDefaultUsesSwitchDispatch(t *testing.T) {
	c := Default()
	assert.Equal(t, DispatchSwitch, c.Dispatch)
}
