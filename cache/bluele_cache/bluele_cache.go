package bluele_cache

import (
	"errors"
	"fmt"
	"sync"

	bl "github.com/bluele/gcache"

	"github.com/hust-tianbo/go_bloom/bloom"
	"github.com/hust-tianbo/go_bloom/log"
)

var defaultCapacity = 64

// ErrExists Add的路径已在缓存中
var ErrExists = errors.New("filter cache: path already cached")

// FilterCache LRU缓存已加载的bloom文件，key为文件路径
// 未命中时从磁盘Load，淘汰时可选写回
type FilterCache struct {
	D         bl.Cache
	opts      []bloom.Option
	writeBack bool

	mu      sync.Mutex
	evicted []evictedFilter // 待写回，gcache释放锁后再落盘
}

type evictedFilter struct {
	path string
	l    *bloom.Locked
}

type Option func(*FilterCache)

// WithWriteBack 淘汰或Flush时把filter写回原路径
func WithWriteBack(b bool) Option {
	return func(c *FilterCache) {
		c.writeBack = b
	}
}

// WithFilterOptions 加载filter时使用的选项，例如bloom.WithHash
func WithFilterOptions(opts ...bloom.Option) Option {
	return func(c *FilterCache) {
		c.opts = opts
	}
}

func NewFilterCache(opt ...Option) *FilterCache {
	return NewFilterCacheWithCapacity(defaultCapacity, opt...)
}

func NewFilterCacheWithCapacity(capacity int, opt ...Option) *FilterCache {
	c := &FilterCache{}
	for _, o := range opt {
		o(c)
	}
	c.D = bl.New(capacity).LRU().
		LoaderFunc(c.load).
		EvictedFunc(c.onEvicted).
		Build()
	return c
}

func (c *FilterCache) load(key interface{}) (interface{}, error) {
	path := key.(string)
	f, err := bloom.Load(path, c.opts...)
	if err != nil {
		return nil, err
	}
	log.Debugf("[FilterCache]loaded %s", path)
	return bloom.NewLocked(f), nil
}

func (c *FilterCache) onEvicted(key, v interface{}) {
	if !c.writeBack {
		return
	}
	c.mu.Lock()
	c.evicted = append(c.evicted, evictedFilter{path: key.(string), l: v.(*bloom.Locked)})
	c.mu.Unlock()
}

// writeBackEvicted 写回已淘汰的filter，返回第一个错误
func (c *FilterCache) writeBackEvicted() error {
	c.mu.Lock()
	pending := c.evicted
	c.evicted = nil
	c.mu.Unlock()

	var first error
	for _, e := range pending {
		if err := e.l.Save(e.path); err != nil {
			log.Errorf("[FilterCache]write back %s fail:%v", e.path, err)
			if first == nil {
				first = fmt.Errorf("%s: %w", e.path, err)
			}
		}
	}
	return first
}

// Get 返回path对应的filter，未命中时从磁盘加载
func (c *FilterCache) Get(path string) (*bloom.Locked, error) {
	v, err := c.D.Get(path)
	c.writeBackEvicted()
	if err != nil {
		return nil, err
	}
	return v.(*bloom.Locked), nil
}

// Add 放入一个新建的filter，Flush时写到path；path已缓存时返回ErrExists
func (c *FilterCache) Add(path string, f *bloom.Filter) (*bloom.Locked, error) {
	if c.D.Has(path) {
		return nil, fmt.Errorf("%w: %s", ErrExists, path)
	}
	l := bloom.NewLocked(f)
	err := c.D.Set(path, l)
	c.writeBackEvicted()
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Remove 移出缓存，开启写回时先写回磁盘
func (c *FilterCache) Remove(path string) bool {
	ok := c.D.Remove(path)
	c.writeBackEvicted()
	return ok
}

func (c *FilterCache) Len() int {
	return c.D.Len(false)
}

// Flush 把所有缓存的filter写回各自的路径
func (c *FilterCache) Flush() error {
	var errs []error
	if err := c.writeBackEvicted(); err != nil {
		errs = append(errs, err)
	}
	for k, v := range c.D.GetALL(false) {
		path := k.(string)
		if err := v.(*bloom.Locked).Save(path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("flush %d filters fail, first:%w", len(errs), errs[0])
	}
	return nil
}

// Clear 清空缓存，开启写回时先Flush
func (c *FilterCache) Clear() error {
	var err error
	if c.writeBack {
		err = c.Flush()
	}
	c.D.Purge()
	return err
}
