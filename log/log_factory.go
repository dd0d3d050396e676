package log

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func init() {
	RegisterWriter(OutputConsole, DefaultConsoleWriterFactory)
	RegisterWriter(OutputFile, DefaultFileWriterFactory)
	DefaultLogger = NewZapLog(defaultConfig)
}

var (
	writers = make(map[string]FactoryInterface)

	DefaultLogFactory           = &Factory{}
	DefaultConsoleWriterFactory = &ConsoleWriterFactory{}
	DefaultFileWriterFactory    = &FileWriterFactory{}
)

type FactoryInterface interface {
	Setup(name string, configDec DecodeInterface) error
}

func RegisterWriter(name string, writer FactoryInterface) {
	writers[name] = writer
}

type Factory struct {
}

// New 解析配置并创建logger
func (f *Factory) New(configDec DecodeInterface) (Logger, error) {
	if configDec == nil {
		return nil, errors.New("log config decoder empty")
	}

	conf, callerSkip, err := f.setupConfig(configDec)
	if err != nil {
		return nil, err
	}

	return newZapLogWithCallerSkip(conf, callerSkip)
}

// Setup 解析配置并替换DefaultLogger
func (f *Factory) Setup(configDec DecodeInterface) error {
	logger, err := f.New(configDec)
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

func (f *Factory) setupConfig(decoder DecodeInterface) (Config, int, error) {
	conf := Config{}

	err := decoder.Decode(&conf)
	if err != nil {
		return nil, 0, err
	}

	if len(conf) == 0 {
		return nil, 0, errors.New("log config output empty")
	}

	callerSkip := 2
	for i := 0; i < len(conf); i++ {
		if conf[i].CallerSkip != 0 {
			callerSkip = conf[i].CallerSkip
		}
	}
	return conf, callerSkip, nil
}

// DecodeInterface yaml.Node等配置节点都满足该接口
type DecodeInterface interface {
	Decode(interface{}) error
}

// Decoder 输出端配置的解码器，writer Setup后填充Core和ZapLevel
type Decoder struct {
	OutputConfig *OutputConfig
	Core         zapcore.Core
	ZapLevel     zap.AtomicLevel
}

// Decode 解析writer配置 复制一份
func (d *Decoder) Decode(conf interface{}) error {
	output, ok := conf.(**OutputConfig)
	if !ok {
		return fmt.Errorf("decoder config type:%T invalid, not **OutputConfig", conf)
	}

	*output = d.OutputConfig

	return nil
}

type ConsoleWriterFactory struct {
}

// Setup 启动加载配置 并注册console output writer
func (f *ConsoleWriterFactory) Setup(name string, configDec DecodeInterface) error {
	if configDec == nil {
		return errors.New("console writer decoder empty")
	}
	decoder, ok := configDec.(*Decoder)
	if !ok {
		return errors.New("console writer log decoder type invalid")
	}

	conf := &OutputConfig{}
	err := decoder.Decode(&conf)
	if err != nil {
		return err
	}

	decoder.Core, decoder.ZapLevel = newConsoleCore(conf)
	return nil
}

// FileWriterFactory  new file writer instance
type FileWriterFactory struct {
}

// Setup 启动加载配置 并注册file output writer
func (f *FileWriterFactory) Setup(name string, configDec DecodeInterface) error {
	if configDec == nil {
		return errors.New("file writer decoder empty")
	}

	decoder, ok := configDec.(*Decoder)
	if !ok {
		return errors.New("file writer log decoder type invalid")
	}

	return f.setupConfig(decoder)
}

func (f *FileWriterFactory) setupConfig(decoder *Decoder) error {
	conf := &OutputConfig{}
	err := decoder.Decode(&conf)
	if err != nil {
		return err
	}

	if conf.WriteConfig.Filename == "" {
		return errors.New("file writer filename empty")
	}
	if conf.WriteConfig.LogPath != "" {
		conf.WriteConfig.Filename = filepath.Join(conf.WriteConfig.LogPath, conf.WriteConfig.Filename)
	}

	decoder.Core, decoder.ZapLevel, err = newFileCore(conf)
	return err
}
