// Package qrcode renders QR code PNGs for participant deep links.
package qrcode

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// EncodeFunc matches qrcode.Encode and allows tests to substitute the encoder.
type EncodeFunc func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// Generator renders QR code PNGs.
type Generator struct {
	encode EncodeFunc
}

// New constructs a generator. A nil encoder falls back to the library default.
func New(encode EncodeFunc) *Generator {
	if encode == nil {
		encode = qrcode.Encode
	}
	return &Generator{encode: encode}
}

// PNG encodes the given content as a QR code PNG of the requested pixel size.
func (g *Generator) PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr content must not be empty")
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid size: must be positive")
	}

	return g.encode(content, qrcode.Medium, size)
}
