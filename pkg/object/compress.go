package object

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Compress deflates data into a zlib stream, the on-disk form of a loose
// object.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, fmt.Errorf("compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress: close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream produced by Compress. Invalid or
// truncated input fails with ErrCorruptObject.
func Decompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib header: %v", ErrCorruptObject, err)
	}
	out, err := io.ReadAll(zr)
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("%w: inflate: %v", ErrCorruptObject, err)
	}
	if err := zr.Close(); err != nil {
		return nil, fmt.Errorf("%w: close: %v", ErrCorruptObject, err)
	}
	return out, nil
}
