package log

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var defaultConfig = []OutputConfig{
	{
		Writer:    OutputConsole,
		Level:     "info",
		Formatter: "console",
	},
}

// Levels zapcore level
var Levels = map[string]zapcore.Level{
	"":      zapcore.DebugLevel,
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

var levelToZapLevel = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

var zapLevelToLevel = map[zapcore.Level]Level{
	zapcore.DebugLevel: LevelDebug,
	zapcore.InfoLevel:  LevelInfo,
	zapcore.WarnLevel:  LevelWarn,
	zapcore.ErrorLevel: LevelError,
}

// NewZapLog 创建一个zap默认实现的logger, callerskip为2, 配置错误时返回nil
func NewZapLog(c Config) Logger {
	logger, err := newZapLogWithCallerSkip(c, 2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "new zap logger fail:%v\n", err)
		return nil
	}
	return logger
}

// NewZapLogWithLogger 包装一个已有的zap logger，测试里配合zaptest/observer使用
func NewZapLogWithLogger(l *zap.Logger) Logger {
	return &zapLog{logger: l}
}

func newZapLogWithCallerSkip(c Config, callerSkip int) (Logger, error) {
	cores := make([]zapcore.Core, 0, len(c))
	levels := make([]zap.AtomicLevel, 0, len(c))
	for i := range c {
		o := c[i]
		writer, ok := writers[o.Writer]
		if !ok {
			return nil, fmt.Errorf("log writer core:%s no registered", o.Writer)
		}

		decoder := &Decoder{OutputConfig: &o}
		if err := writer.Setup(o.Writer, decoder); err != nil {
			return nil, fmt.Errorf("log writer setup core:%s fail:%w", o.Writer, err)
		}

		cores = append(cores, decoder.Core)
		levels = append(levels, decoder.ZapLevel)
	}

	logger := zap.New(
		zapcore.NewTee(cores...),
		zap.AddCallerSkip(callerSkip),
		zap.AddCaller(),
	)

	return &zapLog{
		levels: levels,
		logger: logger,
	}, nil
}

func newConsoleCore(c *OutputConfig) (zapcore.Core, zap.AtomicLevel) {
	lvl := zap.NewAtomicLevelAt(Levels[c.Level])
	return zapcore.NewCore(
		newEncoder(c),
		zapcore.Lock(os.Stdout),
		lvl), lvl
}

func newFileCore(c *OutputConfig) (zapcore.Core, zap.AtomicLevel, error) {
	lvl := zap.NewAtomicLevelAt(Levels[c.Level])

	// 追加写入，文件不存在则创建
	ws, _, err := zap.Open(c.WriteConfig.Filename)
	if err != nil {
		return nil, lvl, err
	}

	return zapcore.NewCore(newEncoder(c), ws, lvl), lvl, nil
}

func newEncoder(cfg *OutputConfig) zapcore.Encoder {
	zapCfg := zapcore.EncoderConfig{
		MessageKey:     GetLogEncoderKey("M", cfg.FormatConfig.MessageKey),
		LevelKey:       GetLogEncoderKey("L", cfg.FormatConfig.LevelKey),
		TimeKey:        GetLogEncoderKey("T", cfg.FormatConfig.TimeKey),
		NameKey:        GetLogEncoderKey("N", cfg.FormatConfig.NameKey),
		CallerKey:      GetLogEncoderKey("C", cfg.FormatConfig.CallerKey),
		StacktraceKey:  GetLogEncoderKey("S", cfg.FormatConfig.StacktraceKey),
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     NewTimeEncoder(cfg.FormatConfig.TimeFmt),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	switch cfg.Formatter {
	case "json":
		return zapcore.NewJSONEncoder(zapCfg)
	default:
		return zapcore.NewConsoleEncoder(zapCfg)
	}
}

func GetLogEncoderKey(defaultKey, key string) string {
	if key == "" {
		return defaultKey
	}
	return key
}

func NewTimeEncoder(format string) zapcore.TimeEncoder {
	switch format {
	case "":
		return func(t time.Time, encoder zapcore.PrimitiveArrayEncoder) {
			encoder.AppendString(t.Local().Format("2006-01-02 15:04:05.000"))
		}
	case "seconds": // 序列化成秒
		return zapcore.EpochTimeEncoder
	case "milliseconds": // 序列化成毫秒
		return zapcore.EpochMillisTimeEncoder
	case "nanoseconds":
		return zapcore.EpochNanosTimeEncoder
	default:
		// 自定义的时间格式
		return func(t time.Time, encoder zapcore.PrimitiveArrayEncoder) {
			encoder.AppendString(t.Format(format))
		}
	}
}

// zapLog 基于zaplogger的Logger实现
type zapLog struct {
	levels []zap.AtomicLevel
	logger *zap.Logger
}

func (l *zapLog) Debugf(format string, args ...interface{}) {
	if l.logger.Core().Enabled(zapcore.DebugLevel) {
		l.logger.Debug(fmt.Sprintf(format, args...))
	}
}

func (l *zapLog) Infof(format string, args ...interface{}) {
	if l.logger.Core().Enabled(zapcore.InfoLevel) {
		l.logger.Info(fmt.Sprintf(format, args...))
	}
}

func (l *zapLog) Warnf(format string, args ...interface{}) {
	if l.logger.Core().Enabled(zapcore.WarnLevel) {
		l.logger.Warn(fmt.Sprintf(format, args...))
	}
}

func (l *zapLog) Errorf(format string, args ...interface{}) {
	if l.logger.Core().Enabled(zapcore.ErrorLevel) {
		l.logger.Error(fmt.Sprintf(format, args...))
	}
}

// Sync calls the zap logger's Sync method, flushing any buffered log entries.
func (l *zapLog) Sync() error {
	return l.logger.Sync()
}

// SetLevel 设置输出端日志级别
func (l *zapLog) SetLevel(output string, level Level) {
	i, e := strconv.Atoi(output)
	if e != nil {
		return
	}
	if i < 0 || i >= len(l.levels) {
		return
	}
	l.levels[i].SetLevel(levelToZapLevel[level])
}

// GetLevel 获取输出端日志级别
func (l *zapLog) GetLevel(output string) Level {
	i, e := strconv.Atoi(output)
	if e != nil {
		return LevelDebug
	}
	if i < 0 || i >= len(l.levels) {
		return LevelDebug
	}
	return zapLevelToLevel[l.levels[i].Level()]
}
