package logging

import (
	"fmt"

	"github.com/rs/zerolog"
)

// CalcLogger adapts a zerolog.Logger to the printf-style logger the
// simulation engine accepts.
type CalcLogger struct {
	logger zerolog.Logger
}

// NewCalcLogger tags every entry with the component name.
func NewCalcLogger(logger zerolog.Logger, component string) *CalcLogger {
	return &CalcLogger{logger: logger.With().Str("component", component).Logger()}
}

func (l *CalcLogger) Debugf(format string, args ...any) {
	l.logger.Debug().Msg(fmt.Sprintf(format, args...))
}

func (l *CalcLogger) Infof(format string, args ...any) {
	l.logger.Info().Msg(fmt.Sprintf(format, args...))
}

func (l *CalcLogger) Warnf(format string, args ...any) {
	l.logger.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l *CalcLogger) Errorf(format string, args ...any) {
	l.logger.Error().Msg(fmt.Sprintf(format, args...))
}
