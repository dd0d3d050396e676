package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/hust-tianbo/go_bloom/bloom"
	"github.com/hust-tianbo/go_bloom/cache/bluele_cache"
	"github.com/hust-tianbo/go_bloom/log"
	"github.com/hust-tianbo/go_bloom/snapshot"
)

type env struct {
	conf       *Config
	out        io.Writer
	filterOpts []bloom.Option
	cache      *bluele_cache.FilterCache
}

func newEnv(conf *Config, out io.Writer) (*env, error) {
	opts, err := conf.Filter.options()
	if err != nil {
		return nil, err
	}
	capacity := conf.Cache.Capacity
	if capacity <= 0 {
		capacity = 1
	}
	return &env{
		conf:       conf,
		out:        out,
		filterOpts: opts,
		cache:      bluele_cache.NewFilterCacheWithCapacity(capacity, bluele_cache.WithFilterOptions(opts...)),
	}, nil
}

type command func(e *env, args []string) error

var commands = map[string]command{
	"create":   cmdCreate,
	"add":      cmdAdd,
	"check":    cmdCheck,
	"info":     cmdInfo,
	"merge":    cmdMerge,
	"reset":    cmdReset,
	"snapshot": cmdSnapshot,
	"restore":  cmdRestore,
}

func cmdCreate(e *env, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	entries := fs.Uint("entries", uint(e.conf.Filter.Entries), "expected entries")
	rate := fs.Float64("error", e.conf.Filter.ErrorRate, "target false positive rate")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: create takes one file", errUsage)
	}
	if *entries > uint(^uint32(0)) {
		return fmt.Errorf("%w: entries %d", bloom.ErrInvalidParameters, *entries)
	}

	f, err := bloom.New(uint32(*entries), *rate, e.filterOpts...)
	if err != nil {
		return err
	}
	if err := f.Save(fs.Arg(0)); err != nil {
		return err
	}
	log.Infof("created %s entries:%d error:%v bytes:%d", fs.Arg(0), f.Entries(), f.ErrorRate(), f.Bytes())
	return nil
}

func cmdAdd(e *env, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: add takes a file and elements", errUsage)
	}
	l, err := e.cache.Get(args[0])
	if err != nil {
		return err
	}
	for _, elem := range args[1:] {
		present, err := l.Add([]byte(elem))
		if err != nil {
			return err
		}
		state := "added"
		if present {
			state = "present"
		}
		fmt.Fprintf(e.out, "%s\t%s\n", state, elem)
	}
	return l.Save(args[0])
}

func cmdCheck(e *env, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: check takes a file and elements", errUsage)
	}
	l, err := e.cache.Get(args[0])
	if err != nil {
		return err
	}
	for _, elem := range args[1:] {
		ok, err := l.Check([]byte(elem))
		if err != nil {
			return err
		}
		state := "absent"
		if ok {
			state = "present"
		}
		fmt.Fprintf(e.out, "%s\t%s\n", state, elem)
	}
	return nil
}

func cmdInfo(e *env, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: info takes one file", errUsage)
	}
	l, err := e.cache.Get(args[0])
	if err != nil {
		return err
	}
	return l.Do(func(f *bloom.Filter) error {
		fmt.Fprint(e.out, f.String())
		fmt.Fprintf(e.out, " ->bits set = %d\n", f.SetBits())
		return nil
	})
}

func cmdMerge(e *env, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: merge takes a destination and sources", errUsage)
	}
	dst, err := e.cache.Get(args[0])
	if err != nil {
		return err
	}
	for _, path := range args[1:] {
		src, err := bloom.Load(path, e.filterOpts...)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := dst.Merge(src); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return dst.Save(args[0])
}

func cmdReset(e *env, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: reset takes one file", errUsage)
	}
	l, err := e.cache.Get(args[0])
	if err != nil {
		return err
	}
	if err := l.Reset(); err != nil {
		return err
	}
	return l.Save(args[0])
}

func cmdSnapshot(e *env, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: snapshot takes one file", errUsage)
	}
	s, err := snapshot.NewSnapshotter(args[0], e.conf.Snapshot.options()...)
	if err != nil {
		return err
	}
	l, err := e.cache.Get(args[0])
	if err != nil {
		return err
	}
	path, err := s.Save(l)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, path)
	return nil
}

func cmdRestore(e *env, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: restore takes one file", errUsage)
	}
	s, err := snapshot.NewSnapshotter(args[0], e.conf.Snapshot.options()...)
	if err != nil {
		return err
	}
	latest, err := s.Latest()
	if err != nil {
		return err
	}
	f, err := bloom.Load(latest, e.filterOpts...)
	if err != nil {
		return fmt.Errorf("%s: %w", latest, err)
	}
	if err := f.Save(args[0]); err != nil {
		return err
	}
	e.cache.Remove(args[0])
	fmt.Fprintln(e.out, latest)
	return nil
}
