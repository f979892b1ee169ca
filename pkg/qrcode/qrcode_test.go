package qrcode

import (
	"bytes"
	"errors"
	"testing"

	qr "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/require"
)

func TestPNG_GeneratesImage(t *testing.T) {
	g := New(nil)

	png, err := g.PNG("https://tally.example/participants/abc", 256)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "expected PNG magic bytes")
}

func TestPNG_RejectsEmptyContent(t *testing.T) {
	g := New(nil)

	_, err := g.PNG("", 256)
	require.Error(t, err)
}

func TestPNG_RejectsNonPositiveSize(t *testing.T) {
	g := New(nil)

	_, err := g.PNG("something", 0)
	require.Error(t, err)
}

func TestPNG_PropagatesEncoderError(t *testing.T) {
	wantErr := errors.New("encoder down")
	g := New(func(string, qr.RecoveryLevel, int) ([]byte, error) {
		return nil, wantErr
	})

	_, err := g.PNG("content", 128)
	require.ErrorIs(t, err, wantErr)
}
