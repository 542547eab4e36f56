package rowdb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// printfLogger adapts a slog.Logger to the printf-style logger interfaces of
// Badger (Errorf, Warningf, Infof, Debugf) and Pebble (Infof, Errorf, Fatalf).
// Informational backend chatter is demoted to debug level.
type printfLogger struct {
	logger    *slog.Logger
	component string
}

func newPrintfLogger(logger *slog.Logger, component string) *printfLogger {
	return &printfLogger{logger: logger, component: component}
}

func (l *printfLogger) log(level slog.Level, format string, args []any) {
	if !l.logger.Enabled(context.Background(), level) {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	l.logger.LogAttrs(context.Background(), level, msg, slog.String("component", l.component))
}

func (l *printfLogger) Errorf(format string, args ...any) {
	l.log(slog.LevelError, format, args)
}

func (l *printfLogger) Warningf(format string, args ...any) {
	l.log(slog.LevelWarn, format, args)
}

func (l *printfLogger) Infof(format string, args ...any) {
	l.log(slog.LevelDebug, format, args)
}

func (l *printfLogger) Debugf(format string, args ...any) {
	l.log(slog.LevelDebug, format, args)
}

func (l *printfLogger) Fatalf(format string, args ...any) {
	l.log(slog.LevelError, format, args)
	panic(fmt.Errorf("%s: "+format, append([]any{l.component}, args...)...))
}
