// Command bloomctl creates, queries and maintains bloom filter files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hust-tianbo/go_bloom/log"
)

const usage = `usage: bloomctl [-config file] [-v] <command> [args]

commands:
  create [-entries n] [-error r] <file>   create an empty filter
  add <file> <elem>...                    add elements
  check <file> <elem>...                  print present/absent per element
  info <file>                             print filter metadata
  merge <dst> <src>...                    merge filters into dst
  reset <file>                            remove every element
  snapshot <file>                         save a time-stamped copy
  restore <file>                          replace file with its newest snapshot
`

var errUsage = errors.New("bad usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		log.Errorf("bloomctl: %v", err)
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("bloomctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "yaml config file")
	verbose := fs.Bool("v", false, "debug logging on the first log output")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	conf, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if conf.Log.Kind != 0 {
		if err := log.DefaultLogFactory.Setup(&conf.Log); err != nil {
			return fmt.Errorf("setup log: %w", err)
		}
	}
	if *verbose {
		log.SetLevel("0", log.LevelDebug)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, rest[0])
	}

	env, err := newEnv(conf, out)
	if err != nil {
		return err
	}
	return cmd(env, rest[1:])
}
