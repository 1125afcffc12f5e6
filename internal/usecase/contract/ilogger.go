package usecasecontract

// IAppLogger is the logging surface used by usecases and handlers.
type IAppLogger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	// WithField returns a logger that attaches key=value to every entry.
	WithField(key string, value interface{}) IAppLogger
}
