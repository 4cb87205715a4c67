package service

import "log"

// Logger is the minimal logging surface the services need. The stdlib
// logger satisfies it; so does any request-scoped wrapper.
type Logger interface {
	Printf(format string, v ...any)
}

func ensureLogger(l Logger) Logger {
	if l == nil {
		return log.Default()
	}

	return l
}
