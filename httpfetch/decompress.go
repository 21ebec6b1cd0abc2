package httpfetch

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicXz   = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

// Decompress wraps resp.Body in a decoder matching whatever compression
// format its first few bytes identify, regardless of what the response's
// Content-Type or the request URL's extension claimed. Repository mirrors
// are not always consistent about advertising the format they actually
// served, so sniffing the magic bytes is the only reliable signal.
func Decompress(resp *http.Response) (io.Reader, error) {
	br := bufio.NewReaderSize(resp.Body, 16)
	magic, err := br.Peek(6)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("httpfetch: peek magic bytes: %w", err)
	}

	switch {
	case bytes.HasPrefix(magic, magicGzip):
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("httpfetch: open gzip stream: %w", err)
		}
		return gr, nil
	case bytes.HasPrefix(magic, magicZstd):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("httpfetch: open zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	case bytes.HasPrefix(magic, magicXz):
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("httpfetch: open xz stream: %w", err)
		}
		return xr, nil
	default:
		return br, nil
	}
}
