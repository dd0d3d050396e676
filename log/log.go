package log

// DefaultLogger 包级别日志函数使用的logger
var DefaultLogger Logger

func SetLogger(logger Logger) {
	DefaultLogger = logger
}

// Debugf logs to DEBUG log. Arguments are handled in the manner of fmt.Printf.
func Debugf(format string, args ...interface{}) {
	DefaultLogger.Debugf(format, args...)
}

// Infof logs to INFO log. Arguments are handled in the manner of fmt.Printf.
func Infof(format string, args ...interface{}) {
	DefaultLogger.Infof(format, args...)
}

// Warnf logs to WARNING log. Arguments are handled in the manner of fmt.Printf.
func Warnf(format string, args ...interface{}) {
	DefaultLogger.Warnf(format, args...)
}

// Errorf logs to ERROR log. Arguments are handled in the manner of fmt.Printf.
func Errorf(format string, args ...interface{}) {
	DefaultLogger.Errorf(format, args...)
}

// SetLevel 设置DefaultLogger第output个输出端的日志级别
func SetLevel(output string, level Level) {
	DefaultLogger.SetLevel(output, level)
}

// Sync flushes DefaultLogger.
func Sync() error {
	return DefaultLogger.Sync()
}
