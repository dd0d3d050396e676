package log

// Level 日志级别
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

const (
	// OutputConsole 控制台输出
	OutputConsole = "console"
	// OutputFile 文件输出
	OutputFile = "file"
)

// Logger 日志接口
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	// Sync 刷新缓冲中的日志
	Sync() error

	// SetLevel 设置第output个输出端的日志级别
	SetLevel(output string, level Level)
	// GetLevel 获取第output个输出端的日志级别
	GetLevel(output string) Level
}
