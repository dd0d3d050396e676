package bloom

import (
	"fmt"

	"github.com/hust-tianbo/go_bloom/log"
)

// Compatible reports whether f and other can be merged: same capacity, error
// rate, format version and byte length.
func (f *Filter) Compatible(other *Filter) bool {
	return f.incompatibility(other) == ""
}

func (f *Filter) incompatibility(other *Filter) string {
	switch {
	case f.entries != other.entries:
		return fmt.Sprintf("entries %d != %d", f.entries, other.entries)
	case f.errorRate != other.errorRate:
		return fmt.Sprintf("error rate %v != %v", f.errorRate, other.errorRate)
	case f.major != other.major, f.minor != other.minor:
		return fmt.Sprintf("version %d.%d != %d.%d", f.major, f.minor, other.major, other.minor)
	case f.bytes != other.bytes:
		return fmt.Sprintf("bytes %d != %d", f.bytes, other.bytes)
	}
	return ""
}

// Merge ORs the bit array of src into f, so f answers for the union of both.
// src is never modified. Both filters must be ready and compatible; on error
// neither is modified.
func (f *Filter) Merge(src *Filter) error {
	if err := f.checkReady("merge"); err != nil {
		return err
	}
	if err := src.checkReady("merge"); err != nil {
		return err
	}

	if reason := f.incompatibility(src); reason != "" {
		return fmt.Errorf("%w: %s", ErrIncompatible, reason)
	}
	if !f.bf.Or(src.bf) {
		return fmt.Errorf("%w: bit arrays differ in size", ErrIncompatible)
	}

	log.Debugf("bloom merged %p into %p", src, f)
	return nil
}
