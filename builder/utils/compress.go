package utils

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/gzip"
)

// GzipSize returns the gzip-compressed byte length of data. The compressed
// size approximates the asset's network transfer cost.
func GzipSize(data []byte) (int64, error) {
	var buf bytes.Buffer

	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return 0, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return 0, fmt.Errorf("failed to compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("failed to flush gzip stream: %w", err)
	}

	return int64(buf.Len()), nil
}
