package bloom

import "sync"

// Locked guards a Filter with a RWMutex. Check and Save take the read lock,
// everything else the write lock.
type Locked struct {
	mu sync.RWMutex
	f  *Filter
}

func NewLocked(f *Filter) *Locked {
	return &Locked{f: f}
}

func (l *Locked) Add(elem []byte) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Add(elem)
}

func (l *Locked) Check(elem []byte) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.f.Check(elem)
}

func (l *Locked) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Reset()
}

// Merge merges src into the guarded filter. src must not be modified
// concurrently.
func (l *Locked) Merge(src *Filter) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Merge(src)
}

func (l *Locked) Save(path string) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.f.Save(path)
}

func (l *Locked) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.f.Release()
}

// Do runs fn with the write lock held.
func (l *Locked) Do(fn func(f *Filter) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.f)
}
