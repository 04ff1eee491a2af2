// Package logging builds the logrus logger injected into the
// VirtualMachine aggregate. No package outside this one constructs a
// *logrus.Logger; everything else receives an *logrus.Entry pre-bound
// with component fields, the way Consensys-go-corset's call sites pass
// a scoped logger down rather than reaching for a package-level
// singleton.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logger at the given level, formatted as structured text
// to stderr. Callers typically call this once per VirtualMachine and
// derive component-scoped entries with For.
func New(level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

// For derives a component-scoped entry, e.g. For(log, "gc") so every
// line that package emits carries component=gc without repeating the
// field at each call site.
func For(log *logrus.Logger, component string) *logrus.Entry {
	return log.WithField("component", component)
}
