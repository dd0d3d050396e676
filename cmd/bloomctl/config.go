package main

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v3"

	"github.com/hust-tianbo/go_bloom/bloom"
	"github.com/hust-tianbo/go_bloom/hash"
	"github.com/hust-tianbo/go_bloom/snapshot"
)

// Config bloomctl配置文件
type Config struct {
	// Log 日志配置，格式见log.Config
	Log yaml.Node `yaml:"log"`

	Filter   FilterConfig   `yaml:"filter"`
	Cache    CacheConfig    `yaml:"cache"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

type FilterConfig struct {
	Entries   uint32  `yaml:"entries"`
	ErrorRate float64 `yaml:"error_rate"`
	// Hash murmur2 murmur3，murmur2与libbloom兼容
	Hash string `yaml:"hash"`
}

type CacheConfig struct {
	Capacity int `yaml:"capacity"`
}

type SnapshotConfig struct {
	MaxHistory int    `yaml:"max_history"`
	MaxDay     int    `yaml:"max_day"`
	TimeFormat string `yaml:"time_format"`
}

func defaultConfig() *Config {
	return &Config{
		Filter: FilterConfig{
			Entries:   100000,
			ErrorRate: 0.01,
			Hash:      "murmur2",
		},
		Cache: CacheConfig{Capacity: 16},
		Snapshot: SnapshotConfig{
			TimeFormat: snapshot.DefaultTimeFormat,
		},
	}
}

// loadConfig 读取path，path为空时使用默认配置
func loadConfig(path string) (*Config, error) {
	conf := defaultConfig()
	if path == "" {
		return conf, nil
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return conf, nil
}

func (c *FilterConfig) options() ([]bloom.Option, error) {
	switch c.Hash {
	case "", "murmur2":
		return nil, nil
	case "murmur3":
		return []bloom.Option{bloom.WithHash(hash.Murmur3)}, nil
	default:
		return nil, fmt.Errorf("unknown hash %q", c.Hash)
	}
}

func (c *SnapshotConfig) options() []snapshot.Option {
	opts := []snapshot.Option{
		snapshot.WithMaxHistory(c.MaxHistory),
		snapshot.WithMaxDay(c.MaxDay),
	}
	if c.TimeFormat != "" {
		opts = append(opts, snapshot.WithTimeFormat(c.TimeFormat))
	}
	return opts
}
