package logger

import (
	"os"

	"github.com/sirupsen/logrus"

	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// AppLogger adapts a logrus entry to the IAppLogger interface.
type AppLogger struct {
	entry *logrus.Entry
}

// NewLogger creates a logrus backed logger. Production uses JSON output.
func NewLogger(level string, production bool) usecasecontract.IAppLogger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if production {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return &AppLogger{entry: logrus.NewEntry(log)}
}

// NewFromLogrus wraps an existing logrus logger.
func NewFromLogrus(log *logrus.Logger) usecasecontract.IAppLogger {
	return &AppLogger{entry: logrus.NewEntry(log)}
}

var _ usecasecontract.IAppLogger = (*AppLogger)(nil)

func (l *AppLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *AppLogger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *AppLogger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *AppLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Fatalf logs a fatal message and exits.
func (l *AppLogger) Fatalf(format string, args ...interface{}) {
	l.entry.Fatalf(format, args...)
}

func (l *AppLogger) WithField(key string, value interface{}) usecasecontract.IAppLogger {
	return &AppLogger{entry: l.entry.WithField(key, value)}
}
