package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// FileExtension is the extension for recorded chunk streams.
const FileExtension = ".vrlog"

// Stream header: magic followed by a little-endian format version.
const (
	Magic         = "VRLG"
	FormatVersion = uint16(1)

	// MaxFrameSize bounds a single frame so a corrupt length cannot force
	// a huge allocation.
	MaxFrameSize = 1 << 30
)

var (
	ErrBadMagic     = errors.New("not a chunk stream")
	ErrBadVersion   = errors.New("unsupported stream version")
	ErrTruncated    = errors.New("truncated frame")
	ErrFrameTooLong = errors.New("frame exceeds maximum size")
	ErrEmptyFrame   = errors.New("frame holds no record")
	ErrCorruptFrame = errors.New("corrupt frame")
)

// Compression selects the IPC body codec.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionLZ4  Compression = "lz4"
	CompressionZstd Compression = "zstd"
)

// ParseCompression accepts "", "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(s); c {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionLZ4, CompressionZstd:
		return c, nil
	}
	return "", fmt.Errorf("unknown compression %q (want none, lz4 or zstd)", s)
}

// Encoder writes chunks as length-prefixed Arrow IPC streams, one chunk
// per frame.
type Encoder struct {
	w           io.Writer
	mem         memory.Allocator
	compression Compression
	wroteHeader bool
	frames      int
	bytes       int64
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithCompression sets the IPC body compression.
func WithCompression(c Compression) EncoderOption {
	return func(e *Encoder) { e.compression = c }
}

// WithEncoderAllocator sets the allocator used while writing.
func WithEncoderAllocator(mem memory.Allocator) EncoderOption {
	return func(e *Encoder) { e.mem = mem }
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer, opts ...EncoderOption) *Encoder {
	e := &Encoder{w: w, mem: memory.DefaultAllocator, compression: CompressionNone}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Encoder) writeHeader() error {
	if e.wroteHeader {
		return nil
	}
	hdr := make([]byte, len(Magic)+2)
	copy(hdr, Magic)
	binary.LittleEndian.PutUint16(hdr[len(Magic):], FormatVersion)
	if _, err := e.w.Write(hdr); err != nil {
		return fmt.Errorf("failed to write stream header: %w", err)
	}
	e.wroteHeader = true
	e.bytes += int64(len(hdr))
	return nil
}

// Encode appends one chunk to the stream.
func (e *Encoder) Encode(c *Chunk) error {
	if err := e.writeHeader(); err != nil {
		return err
	}
	rec := c.ToRecord()
	defer rec.Release()

	opts := []ipc.Option{ipc.WithSchema(rec.Schema()), ipc.WithAllocator(e.mem)}
	switch e.compression {
	case CompressionLZ4:
		opts = append(opts, ipc.WithLZ4())
	case CompressionZstd:
		opts = append(opts, ipc.WithZstd())
	}

	var buf bytes.Buffer
	iw := ipc.NewWriter(&buf, opts...)
	if err := iw.Write(rec); err != nil {
		iw.Close()
		return fmt.Errorf("failed to write chunk %s: %w", c.ID(), err)
	}
	if err := iw.Close(); err != nil {
		return fmt.Errorf("failed to finish chunk %s: %w", c.ID(), err)
	}
	if buf.Len() > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLong, buf.Len())
	}

	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(buf.Len()))
	if _, err := e.w.Write(lenBuf); err != nil {
		return fmt.Errorf("failed to write frame length: %w", err)
	}
	if _, err := e.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write frame data: %w", err)
	}
	e.frames++
	e.bytes += int64(4 + buf.Len())
	tracef("frame %d: chunk %s (%s), %d bytes", e.frames, c.ID(), c.EntityPath(), buf.Len())
	return nil
}

// Close writes the header if no chunk was encoded, so an empty stream is
// still valid. It does not close the underlying writer.
func (e *Encoder) Close() error {
	if err := e.writeHeader(); err != nil {
		return err
	}
	diagf("stream closed: %d frames, %d bytes, compression=%s", e.frames, e.bytes, e.compression)
	return nil
}

// Frames returns the number of chunks written.
func (e *Encoder) Frames() int { return e.frames }

// Decoder reads chunks written by an Encoder.
type Decoder struct {
	r          io.Reader
	mem        memory.Allocator
	readHeader bool
	frames     int
}

// NewDecoder returns a decoder reading from r. A nil allocator selects the
// default Go allocator.
func NewDecoder(r io.Reader, mem memory.Allocator) *Decoder {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &Decoder{r: r, mem: mem}
}

func (d *Decoder) header() error {
	if d.readHeader {
		return nil
	}
	hdr := make([]byte, len(Magic)+2)
	if _, err := io.ReadFull(d.r, hdr); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: stream shorter than header", ErrBadMagic)
		}
		return fmt.Errorf("failed to read stream header: %w", err)
	}
	if string(hdr[:len(Magic)]) != Magic {
		return fmt.Errorf("%w: magic %q", ErrBadMagic, hdr[:len(Magic)])
	}
	if v := binary.LittleEndian.Uint16(hdr[len(Magic):]); v != FormatVersion {
		return fmt.Errorf("%w: %d", ErrBadVersion, v)
	}
	d.readHeader = true
	return nil
}

// Next returns the next chunk, or io.EOF after the last frame. The caller
// owns the chunk and must Release it.
func (d *Decoder) Next() (*Chunk, error) {
	if err := d.header(); err != nil {
		return nil, err
	}

	lenBuf := make([]byte, 4)
	n, err := io.ReadFull(d.r, lenBuf)
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			diagf("stream ended after %d frames", d.frames)
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: frame %d length", ErrTruncated, d.frames)
		}
		return nil, fmt.Errorf("failed to read frame length: %w", err)
	}
	frameLen := binary.LittleEndian.Uint32(lenBuf)
	if frameLen > MaxFrameSize {
		opsf("frame %d claims %d bytes", d.frames, frameLen)
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLong, frameLen)
	}

	var data bytes.Buffer
	if _, err := io.CopyN(&data, d.r, int64(frameLen)); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: frame %d wants %d bytes, got %d", ErrTruncated, d.frames, frameLen, data.Len())
		}
		return nil, fmt.Errorf("failed to read frame data: %w", err)
	}

	// ipc errors for a short body wrap io.EOF; keep them off the end-of-stream path.
	rdr, err := ipc.NewReader(&data, ipc.WithAllocator(d.mem))
	if err != nil {
		return nil, fmt.Errorf("%w: frame %d: %v", ErrCorruptFrame, d.frames, err)
	}
	defer rdr.Release()
	if !rdr.Next() {
		if err := rdr.Err(); err != nil {
			return nil, fmt.Errorf("%w: frame %d: %v", ErrCorruptFrame, d.frames, err)
		}
		return nil, fmt.Errorf("%w: frame %d", ErrEmptyFrame, d.frames)
	}
	c, err := FromRecord(rdr.Record())
	if err != nil {
		return nil, fmt.Errorf("%w: frame %d: %v", ErrCorruptFrame, d.frames, err)
	}
	d.frames++
	tracef("frame %d: chunk %s (%s), %d rows", d.frames, c.ID(), c.EntityPath(), c.NumRows())
	return c, nil
}

// ReadAll decodes every remaining chunk. On error the chunks read so far
// are released.
func (d *Decoder) ReadAll() ([]*Chunk, error) {
	var out []*Chunk
	for {
		c, err := d.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			for _, c := range out {
				c.Release()
			}
			return nil, err
		}
		out = append(out, c)
	}
}
