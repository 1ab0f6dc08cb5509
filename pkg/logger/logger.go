package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Interface is the logging contract injected into every component.
type Interface interface {
	Debug(message string, args ...interface{})
	Info(message string, args ...interface{})
	Warn(message string, args ...interface{})
	Error(err error, args ...interface{})
	Fatal(err error, args ...interface{})
}

type Logger struct {
	logger *zerolog.Logger
}

var _ Interface = (*Logger)(nil)

func New(level string) *Logger {
	var l zerolog.Level

	switch strings.ToLower(level) {
	case "error":
		l = zerolog.ErrorLevel
	case "warn":
		l = zerolog.WarnLevel
	case "info":
		l = zerolog.InfoLevel
	case "debug":
		l = zerolog.DebugLevel
	default:
		l = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(l)

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	return &Logger{
		logger: &logger,
	}
}

func (l *Logger) Debug(message string, args ...interface{}) {
	l.logger.Debug().Msgf(message, args...)
}

func (l *Logger) Info(message string, args ...interface{}) {
	l.logger.Info().Msgf(message, args...)
}

func (l *Logger) Warn(message string, args ...interface{}) {
	l.logger.Warn().Msgf(message, args...)
}

func (l *Logger) Error(err error, args ...interface{}) {
	l.event(l.logger.Error(), err, args...)
}

func (l *Logger) Fatal(err error, args ...interface{}) {
	l.event(l.logger.Fatal(), err, args...)

	os.Exit(1)
}

// event attaches the error and an optional printf-style context message.
func (l *Logger) event(e *zerolog.Event, err error, args ...interface{}) {
	e = e.Err(err)

	if len(args) == 0 {
		e.Msg(err.Error())

		return
	}

	msg, ok := args[0].(string)
	if !ok {
		e.Msgf("%v", args...)

		return
	}

	e.Msgf(msg, args[1:]...)
}
