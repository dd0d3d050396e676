// Package snapshot writes time-stamped copies of a filter next to each other
// and expires old ones.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/strftime"
)

// DefaultTimeFormat 默认快照文件后缀
const DefaultTimeFormat = ".%Y%m%d-%H%M%S"

// ErrNoSnapshot 目录下没有匹配的快照
var ErrNoSnapshot = errors.New("snapshot: no snapshot found")

type Options struct {
	MaxHistory int              // 保留的最大快照数
	MaxDay     int              // 快照最大保留天数
	TimeFormat string           // 快照文件名的strftime后缀
	Now        func() time.Time // 时钟
}

type Option func(*Options)

func WithMaxHistory(n int) Option {
	return func(opt *Options) {
		opt.MaxHistory = n
	}
}

func WithMaxDay(day int) Option {
	return func(opt *Options) {
		opt.MaxDay = day
	}
}

func WithTimeFormat(s string) Option {
	return func(opt *Options) {
		opt.TimeFormat = s
	}
}

func WithClock(now func() time.Time) Option {
	return func(opt *Options) {
		opt.Now = now
	}
}

// Saver 可以把自己写到path的对象，*bloom.Filter满足该接口
type Saver interface {
	Save(path string) error
}

type Snapshotter struct {
	filePath string // 快照文件前缀
	opts     *Options

	pattern *strftime.Strftime
	match   *regexp.Regexp // 只匹配pattern生成的文件名
	currDir string

	mu sync.Mutex
}

func NewSnapshotter(filePath string, opt ...Option) (*Snapshotter, error) {
	opts := &Options{
		TimeFormat: DefaultTimeFormat,
		Now:        time.Now,
	}

	for _, o := range opt {
		o(opts)
	}

	if filePath == "" {
		return nil, errors.New("snapshot: no file path")
	}

	pattern, err := strftime.New(filePath + opts.TimeFormat)
	if err != nil {
		return nil, err
	}

	match, err := nameMatcher(filepath.Base(filePath), opts.TimeFormat)
	if err != nil {
		return nil, err
	}

	s := &Snapshotter{
		filePath: filePath,
		opts:     opts,
		pattern:  pattern,
		match:    match,
		currDir:  filepath.Dir(filePath),
	}

	if err := os.MkdirAll(s.currDir, 0755); err != nil {
		return nil, err
	}
	return s, nil
}

// Save 将f写入按当前时间命名的快照文件，并清理过期快照
func (s *Snapshotter) Save(f Saver) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pattern.FormatString(s.opts.Now())
	if err := f.Save(path); err != nil {
		return "", err
	}

	if err := s.expire(); err != nil {
		return path, err
	}
	return path, nil
}

// Latest 返回最新的快照路径
func (s *Snapshotter) Latest() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.history()
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", ErrNoSnapshot
	}
	return filepath.Join(s.currDir, files[0].Name()), nil
}

// History 返回全部快照路径，新的在前
func (s *Snapshotter) History() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.history()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, filepath.Join(s.currDir, f.Name()))
	}
	return paths, nil
}

func (s *Snapshotter) expire() error {
	if s.opts.MaxHistory == 0 && s.opts.MaxDay == 0 { // 这种情况下不清理历史快照
		return nil
	}

	files, err := s.history()
	if err != nil || len(files) == 0 {
		return err
	}

	var remove []snapshotWithT
	files = expireWithMaxHistory(files, &remove, s.opts.MaxHistory)
	_ = expireWithDay(files, &remove, s.opts.MaxDay, s.opts.Now())

	for _, f := range remove {
		if err := os.Remove(filepath.Join(s.currDir, f.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("snapshot: remove %s: %w", f.Name(), err)
		}
	}
	return nil
}

// 超过最大快照个数后，删除最旧的
func expireWithMaxHistory(files []snapshotWithT, remove *[]snapshotWithT, maxHistory int) []snapshotWithT {
	if maxHistory == 0 || len(files) <= maxHistory {
		return files
	}

	*remove = append(*remove, files[maxHistory:]...)
	return files[:maxHistory]
}

// 超过最大天数后，即删除
func expireWithDay(files []snapshotWithT, remove *[]snapshotWithT, maxDay int, now time.Time) []snapshotWithT {
	if maxDay == 0 {
		return files
	}

	var remain []snapshotWithT
	detTs := now.Add(-1 * time.Duration(int64(24*time.Hour)*int64(maxDay)))
	for _, f := range files {
		if f.modTime.Before(detTs) {
			*remove = append(*remove, f)
		} else {
			remain = append(remain, f)
		}
	}

	return remain
}

// 查找目录下与快照前缀匹配的文件
func (s *Snapshotter) history() ([]snapshotWithT, error) {
	entries, err := os.ReadDir(s.currDir)
	if err != nil {
		return nil, fmt.Errorf("snapshot: can not read dir files:%w", err)
	}

	files := make([]snapshotWithT, 0)
	for _, e := range entries {
		if e.IsDir() || !s.match.MatchString(e.Name()) {
			continue
		}

		st, err := e.Info()
		if err != nil { // 文件可能已被删除
			continue
		}

		files = append(files, snapshotWithT{
			modTime:  st.ModTime(),
			FileInfo: st,
		})
	}

	sort.Sort(byModTime(files))
	return files, nil
}

// strftime转换符对应的文件名片段，未列出的按任意非空串匹配
var verbPatterns = map[byte]string{
	'Y': `\d{4}`,
	'C': `\d{2}`,
	'y': `\d{2}`,
	'm': `\d{2}`,
	'd': `\d{2}`,
	'H': `\d{2}`,
	'I': `\d{2}`,
	'M': `\d{2}`,
	'S': `\d{2}`,
	'U': `\d{2}`,
	'V': `\d{2}`,
	'W': `\d{2}`,
	'j': `\d{3}`,
	'u': `\d`,
	'w': `\d`,
	'e': `[ \d]\d`,
	'F': `\d{4}-\d{2}-\d{2}`,
	'R': `\d{2}:\d{2}`,
	'T': `\d{2}:\d{2}:\d{2}`,
	'%': `%`,
}

// nameMatcher 根据前缀和strftime后缀生成快照文件名的正则
func nameMatcher(prefix, format string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	b.WriteString(regexp.QuoteMeta(prefix))
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i == len(format)-1 {
			b.WriteString(regexp.QuoteMeta(string(c)))
			continue
		}
		i++
		if p, ok := verbPatterns[format[i]]; ok {
			b.WriteString(p)
		} else {
			b.WriteString(".+?")
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

type snapshotWithT struct {
	modTime time.Time
	os.FileInfo
}

// byModTime 新的在前，修改时间相同时按文件名倒序
type byModTime []snapshotWithT

func (b byModTime) Less(i, j int) bool {
	if b[i].modTime.Equal(b[j].modTime) {
		return b[i].Name() > b[j].Name()
	}
	return b[i].modTime.After(b[j].modTime)
}

func (b byModTime) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}

func (b byModTime) Len() int {
	return len(b)
}
