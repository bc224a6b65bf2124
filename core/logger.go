package core

// Logger is the logging contract shared by the apps and services.
// args may contain errors, `map[string]interface{}` extras or any printable value.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
