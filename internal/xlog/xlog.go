// Package xlog builds leveled go-logging loggers for the packages of this
// module. Every logger gets its own backend, so configuring one component never
// changes the output of another.
package xlog

import (
	"io"

	"github.com/op/go-logging"
)

var format = logging.MustStringFormatter(
	"%{time:15:04:05.000} %{module} %{level:.1s} ▶ %{message}",
)

// New returns a logger for module that writes records at level or above to w.
func New(module string, w io.Writer, level logging.Level) *logging.Logger {
	backend := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format)
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(level, module)

	logger := logging.MustGetLogger(module)
	logger.SetBackend(leveled)
	return logger
}

// Discard returns a logger for module that drops every record. It is the
// default logger of components that were not given one.
func Discard(module string) *logging.Logger {
	return New(module, io.Discard, logging.CRITICAL)
}
