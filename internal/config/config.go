// Package config centralizes the environment variables documented in
// spec.md section 6: ORUS_LOG_LEVEL, ORUS_GC_INITIAL_THRESHOLD, and
// ORUS_DISPATCH. No other package calls os.Getenv directly, matching
// the teacher's pattern of centralizing environment-derived state on
// one struct instead of scattering lookups across the codebase.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Dispatch selects the interpreter loop strategy internal/interp uses.
// Only DispatchSwitch is actually implemented; DispatchGoto is accepted
// here and rejected with a warning at VirtualMachine construction (see
// interp.New) rather than at parse time, so an operator's existing
// ORUS_DISPATCH=goto env var degrades instead of crashing the process.
type Dispatch string

const (
	DispatchSwitch Dispatch = "switch"
	DispatchGoto   Dispatch = "goto"
)

// Config is read once, at VirtualMachine construction time, and then
// treated as immutable for that VM's lifetime.
type Config struct {
	LogLevel         logrus.Level
	GCInitialThreshold int
	Dispatch         Dispatch
}

// Default mirrors the documented defaults: info-level logging, the
// memory manager's built-in initial threshold, switch-based dispatch
// (the portable fallback).
func Default() Config {
	return Config{
		LogLevel:           logrus.InfoLevel,
		GCInitialThreshold: 0, // 0 means "let internal/gc use its own default"
		Dispatch:           DispatchSwitch,
	}
}

// FromEnv reads the three documented variables, falling back to
// Default() for anything unset or unparseable.
func FromEnv() Config {
	c := Default()

	if raw := os.Getenv("ORUS_LOG_LEVEL"); raw != "" {
		if lvl, err := logrus.ParseLevel(strings.ToLower(raw)); err == nil {
			c.LogLevel = lvl
		}
	}

	if raw := os.Getenv("ORUS_GC_INITIAL_THRESHOLD"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			c.GCInitialThreshold = n
		}
	}

	if raw := Dispatch(strings.ToLower(os.Getenv("ORUS_DISPATCH"))); raw == DispatchGoto || raw == DispatchSwitch {
		c.Dispatch = raw
	}

	return c
}
