package core

// Logger is any service that can log application events.
// expected fmt: msg, keyvals...
type Logger interface {
	Info(msg string, keyvals ...interface{})
	Error(msg string, err error, keyvals ...interface{})
}
