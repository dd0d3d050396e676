package log

// Config log config每个log可以支持多个output
type Config []OutputConfig

type OutputConfig struct {
	// Writer 输出端 console file
	Writer      string      `yaml:"writer"`
	WriteConfig WriteConfig `yaml:"writer_config"`

	// Formatter 输出格式 console json
	Formatter    string       `yaml:"formatter"`
	FormatConfig FormatConfig `yaml:"formatter_config"`

	// Level 控制日志级别 debug info warn error
	Level string `yaml:"level"`

	// CallerSkip 控制log函数嵌套深度
	CallerSkip int `yaml:"caller_skip"`
}

type WriteConfig struct {
	// LogPath 日志路径名
	LogPath string `yaml:"log_path"`
	// Filename 日志路径文件名
	Filename string `yaml:"filename"`
}

type FormatConfig struct {
	// TimeFmt 日志输出时间格式
	TimeFmt string `yaml:"time_fmt"`

	// TimeKey 日志输出时间Key
	TimeKey string `yaml:"time_key"`

	// LevelKey 日志级别输出Key
	LevelKey string `yaml:"level_key"`

	// NameKey 日志名称Key
	NameKey string `yaml:"name_key"`

	// CallerKey 日志输出调用者Key
	CallerKey string `yaml:"caller_key"`

	// MessageKey 日志输出消息体Key
	MessageKey string `yaml:"message_key"`

	// StacktraceKey 日志输出堆栈trace key
	StacktraceKey string `yaml:"stacktrace_key"`
}
