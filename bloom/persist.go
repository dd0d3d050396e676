package bloom

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/hust-tianbo/go_bloom/cache/bitmap/willf_bitmap"
	"github.com/hust-tianbo/go_bloom/log"
)

const (
	// Magic opens every saved filter.
	Magic = "libbloom2"

	// MetadataSize is the byte size of the metadata record.
	MetadataSize = 64

	headerSize = len(Magic) + 2 + MetadataSize
)

// Metadata record, little endian, zero padded. The layout is the LP64 layout
// of the libbloom2 struct; offset 56 held its buffer pointer and is written
// as zero.
const (
	offEntries  = 0  // u32
	offBits     = 8  // u64
	offBytes    = 16 // u64
	offHashes   = 24 // u8
	offError    = 32 // f64
	offReady    = 40 // u8
	offMajor    = 41 // u8
	offMinor    = 42 // u8
	offBPE      = 48 // f64
	offReserved = 56 // u64
)

func (f *Filter) encodeMetadata() []byte {
	md := make([]byte, MetadataSize)
	binary.LittleEndian.PutUint32(md[offEntries:], f.entries)
	binary.LittleEndian.PutUint64(md[offBits:], f.bits)
	binary.LittleEndian.PutUint64(md[offBytes:], f.bytes)
	md[offHashes] = f.hashes
	binary.LittleEndian.PutUint64(md[offError:], math.Float64bits(f.errorRate))
	if f.ready {
		md[offReady] = 1
	}
	md[offMajor] = f.major
	md[offMinor] = f.minor
	binary.LittleEndian.PutUint64(md[offBPE:], math.Float64bits(f.bpe))
	return md
}

// decodeMetadata fills the sizing fields of f. ready is not restored.
func (f *Filter) decodeMetadata(md []byte) {
	f.entries = binary.LittleEndian.Uint32(md[offEntries:])
	f.bits = binary.LittleEndian.Uint64(md[offBits:])
	f.bytes = binary.LittleEndian.Uint64(md[offBytes:])
	f.hashes = md[offHashes]
	f.errorRate = math.Float64frombits(binary.LittleEndian.Uint64(md[offError:]))
	f.major = md[offMajor]
	f.minor = md[offMinor]
	f.bpe = math.Float64frombits(binary.LittleEndian.Uint64(md[offBPE:]))
}

func writeFull(w io.Writer, p []byte, what string) error {
	n, err := w.Write(p)
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrIO, what, err)
	}
	if n != len(p) {
		return fmt.Errorf("%w: short write of %s, %d of %d bytes", ErrIO, what, n, len(p))
	}
	return nil
}

// Encode writes f to w in the libbloom2 format. A failed write may leave w
// holding a partial filter.
func (f *Filter) Encode(w io.Writer) error {
	if err := f.checkReady("encode"); err != nil {
		return err
	}

	if err := writeFull(w, []byte(Magic), "magic"); err != nil {
		return err
	}

	var size [2]byte
	binary.LittleEndian.PutUint16(size[:], MetadataSize)
	if err := writeFull(w, size[:], "metadata size"); err != nil {
		return err
	}

	if err := writeFull(w, f.encodeMetadata(), "metadata"); err != nil {
		return err
	}

	return writeFull(w, f.bf.Bytes(), "bit array")
}

// Save creates or truncates path and writes f to it. On failure the file may
// be left truncated; removing it is up to the caller.
func (f *Filter) Save(path string) error {
	if err := f.checkReady("save"); err != nil {
		return err
	}

	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	if err := f.Encode(fd); err != nil {
		fd.Close()
		return err
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	log.Debugf("bloom saved to %s, %d bytes", path, headerSize+int(f.bytes))
	return nil
}

func readFull(r io.Reader, p []byte, what string) error {
	_, err := io.ReadFull(r, p)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: reading %s", ErrTruncatedData, what)
	}
	return fmt.Errorf("%w: read %s: %v", ErrIO, what, err)
}

// Decode replaces f with a filter read from r. On error f is left cleared
// and not ready.
func (f *Filter) Decode(r io.Reader, opts ...Option) error {
	return f.decode(r, -1, opts)
}

// decode reads a filter; avail is the number of bytes left in r after the
// header, or negative when unknown.
func (f *Filter) decode(r io.Reader, avail int64, opts []Option) error {
	f.clear(opts)

	magic := make([]byte, len(Magic))
	if err := readFull(r, magic, "magic"); err != nil {
		return err
	}
	if string(magic) != Magic {
		return fmt.Errorf("%w: %q", ErrBadMagic, magic)
	}

	var size [2]byte
	if err := readFull(r, size[:], "metadata size"); err != nil {
		return err
	}
	if n := binary.LittleEndian.Uint16(size[:]); n != MetadataSize {
		return fmt.Errorf("%w: %d, want %d", ErrUnexpectedMetadataSize, n, MetadataSize)
	}

	md := make([]byte, MetadataSize)
	if err := readFull(r, md, "metadata"); err != nil {
		return err
	}
	f.decodeMetadata(md)

	if f.major != VersionMajor {
		err := fmt.Errorf("%w: %d.%d, want major %d", ErrIncompatibleVersion, f.major, f.minor, VersionMajor)
		f.clear(opts)
		return err
	}
	if err := f.validate(); err != nil {
		f.clear(opts)
		return err
	}
	if avail >= 0 && uint64(avail) < f.bytes {
		err := fmt.Errorf("%w: %d bytes of bit array, want %d", ErrTruncatedData, avail, f.bytes)
		f.clear(opts)
		return err
	}

	buf, err := readBitArray(r, f.bytes, avail)
	if err != nil {
		f.clear(opts)
		return err
	}

	f.bf = willf_bitmap.FromBytes(buf)
	f.ready = true
	return nil
}

func (f *Filter) validate() error {
	if f.bits == 0 {
		return fmt.Errorf("%w: zero bits", ErrBadMetadata)
	}
	if f.hashes == 0 {
		return fmt.Errorf("%w: zero hash functions", ErrBadMetadata)
	}
	want := f.bits / 8
	if f.bits%8 != 0 {
		want++
	}
	if f.bytes != want {
		return fmt.Errorf("%w: %d bytes for %d bits", ErrBadMetadata, f.bytes, f.bits)
	}
	return nil
}

func allocateBytes(n uint64) (buf []byte, err error) {
	if n > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrOutOfMemory, n)
	}
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%w: %d bytes: %v", ErrOutOfMemory, n, r)
		}
	}()
	return make([]byte, n), nil
}

// readBitArray reads n bytes of bit array. With a known avail the array is
// allocated up front; on a stream it grows only as data arrives, so a forged
// byte count fails as truncated instead of exhausting memory.
func readBitArray(r io.Reader, n uint64, avail int64) ([]byte, error) {
	if n > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrOutOfMemory, n)
	}
	if avail >= 0 {
		buf, err := allocateBytes(n)
		if err != nil {
			return nil, err
		}
		if err := readFull(r, buf, "bit array"); err != nil {
			return nil, err
		}
		return buf, nil
	}

	var buf bytes.Buffer
	got, err := io.CopyN(&buf, r, int64(n))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read bit array: %v", ErrIO, err)
	}
	if uint64(got) != n {
		return nil, fmt.Errorf("%w: reading bit array, %d of %d bytes", ErrTruncatedData, got, n)
	}
	return buf.Bytes(), nil
}

// Decode reads a filter from r.
func Decode(r io.Reader, opts ...Option) (*Filter, error) {
	f := &Filter{}
	if err := f.Decode(r, opts...); err != nil {
		return nil, err
	}
	return f, nil
}

// Load replaces f with the filter saved at path. On error f is left cleared
// and not ready.
func (f *Filter) Load(path string, opts ...Option) error {
	fd, err := os.Open(path)
	if err != nil {
		f.clear(opts)
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer fd.Close()

	avail := int64(-1)
	if st, err := fd.Stat(); err == nil && st.Mode().IsRegular() {
		avail = st.Size() - int64(headerSize)
		if avail < 0 {
			avail = 0
		}
	}

	if err := f.decode(fd, avail, opts); err != nil {
		log.Debugf("bloom load %s fail:%v", path, err)
		return err
	}

	log.Debugf("bloom loaded from %s, entries:%d bits:%d", path, f.entries, f.bits)
	return nil
}

// Load reads the filter saved at path.
func Load(path string, opts ...Option) (*Filter, error) {
	f := &Filter{}
	if err := f.Load(path, opts...); err != nil {
		return nil, err
	}
	return f, nil
}
