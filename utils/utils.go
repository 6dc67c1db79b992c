package utils

import (
	"fmt"
	"log/slog"
	"strings"
)

// AddToLogMessage appends one entry to a request's log builder.
func AddToLogMessage(logMessagesBuilder *strings.Builder, strToAdd string) {
	logMessagesBuilder.WriteString(strToAdd)
	logMessagesBuilder.WriteString(";\n")
}

// AddToLogMessagef is AddToLogMessage with formatting.
func AddToLogMessagef(logMessagesBuilder *strings.Builder, format string, args ...any) {
	AddToLogMessage(logMessagesBuilder, fmt.Sprintf(format, args...))
}

// FlushLogMessage emits everything collected for a request as a single log line.
func FlushLogMessage(logger *slog.Logger, route string, logMessagesBuilder *strings.Builder) {
	if logMessagesBuilder.Len() == 0 {
		return
	}
	logger.Info("request", "route", route, "trace", strings.TrimSpace(logMessagesBuilder.String()))
}
