package logger

// Field is a single structured log attribute.
type Field struct {
	Key   string
	Value any
}

// Err wraps an error as a log field under the conventional "err" key.
func Err(err error) Field {
	return Field{Key: "err", Value: err}
}

// Client is the logging interface used across the service.
type Client interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}
