package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("file is empty")
)

// sniffLen is how many leading bytes are inspected for magic numbers
const sniffLen = 3072

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes map[string]bool
	MaxSize          int64
}

// ImageConstraints defines validation rules for image uploads
var ImageConstraints = FileConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
		"image/bmp":  true,
	},
	MaxSize: 10 << 20, // 10MB
}

// WithMaxSize returns a copy of c with a different size limit
func (c FileConstraints) WithMaxSize(max int64) FileConstraints {
	c.MaxSize = max
	return c
}

// Body replays a validated payload and enforces the size limit on the bytes actually read
type Body struct {
	r   io.Reader
	max int64
	n   int64
}

// Read fails with ErrFileTooLarge as soon as more than the limit has been read
func (b *Body) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	b.n += int64(n)
	if b.n > b.max {
		return n, fmt.Errorf("%w: maximum size is %d MB", ErrFileTooLarge, b.max/(1<<20))
	}
	return n, err
}

// Size returns the number of bytes read so far
func (b *Body) Size() int64 {
	return b.n
}

// ValidateFile checks the declared size and the detected content type of body.
// The type comes from the content itself (magic numbers), never from the client's Content-Type.
// The declared size is only a fast reject: the returned Body replays the complete payload
// and enforces the limit on the real byte count while it is read.
func ValidateFile(body io.Reader, size int64, constraints FileConstraints) (string, *Body, error) {
	if size > constraints.MaxSize {
		return "", nil, fmt.Errorf("%w: maximum size is %d MB", ErrFileTooLarge, constraints.MaxSize/(1<<20))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	if n == 0 {
		return "", nil, ErrEmptyFile
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	mime, _, _ := strings.Cut(detected.String(), ";")
	if !constraints.AllowedMimeTypes[mime] {
		return "", nil, fmt.Errorf("%w (detected: %s)", ErrUnsupportedType, mime)
	}

	return mime, &Body{
		r:   io.MultiReader(bytes.NewReader(head), body),
		max: constraints.MaxSize,
	}, nil
}
