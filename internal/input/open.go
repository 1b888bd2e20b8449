package input

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic starts every zstd frame
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Open opens an event log for reading. zstd-compressed files (as left
// behind by log rotation) are decompressed on the fly.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	br := bufio.NewReader(f)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		f.Close()
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if !bytes.Equal(head, zstdMagic) {
		return &reader{Reader: br, closers: []io.Closer{f}}, nil
	}

	dec, err := zstd.NewReader(br)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening zstd stream %s: %w", path, err)
	}
	return &reader{Reader: dec, closers: []io.Closer{decoderCloser{dec}, f}}, nil
}

type reader struct {
	io.Reader
	closers []io.Closer
}

func (r *reader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// decoderCloser adapts zstd.Decoder, whose Close returns nothing
type decoderCloser struct {
	dec *zstd.Decoder
}

func (d decoderCloser) Close() error {
	d.dec.Close()
	return nil
}
