package api

import (
	"fmt"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// gzipMinSize is the smallest response worth compressing
const gzipMinSize = 1024

// Compress wraps h with gzip response compression. PDFs are sent as stored.
func Compress(h http.Handler) (http.Handler, error) {
	wrap, err := gzhttp.NewWrapper(
		gzhttp.MinSize(gzipMinSize),
		gzhttp.ExceptContentTypes([]string{"application/pdf"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip wrapper: %w", err)
	}
	return wrap(h), nil
}
