package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Sync batches carry base64-encoded encrypted payloads and compress well, so
// both directions of /api/sync/batch benefit from gzip. Writers and readers
// are pooled; a batch-heavy agent reconnecting after a long offline stretch
// can produce bursts of large requests.
var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(nil)
	},
}

var gzipReaderPool = sync.Pool{
	New: func() any {
		return new(gzip.Reader)
	},
}

// withGZip transparently decompresses gzip request bodies and compresses
// responses for clients that advertise gzip support.
func withGZip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if strings.Contains(req.Header.Get("Content-Encoding"), "gzip") && req.Body != nil {
			if !decompressRequestBody(w, req) {
				return
			}
		}

		if !strings.Contains(req.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, req)
			return
		}

		gzipWriter := gzipWriterPool.Get().(*gzip.Writer)
		gzipWriter.Reset(w)

		next.ServeHTTP(&gzipResponseWriter{ResponseWriter: w, gzipWriter: gzipWriter}, req)

		gzipWriter.Close()
		gzipWriterPool.Put(gzipWriter)
	})
}

// decompressRequestBody swaps req.Body for a pooled gzip reader. It reports
// false after writing a 400 response when the body is not valid gzip.
func decompressRequestBody(w http.ResponseWriter, req *http.Request) bool {
	gzipReader := gzipReaderPool.Get().(*gzip.Reader)
	if err := gzipReader.Reset(req.Body); err != nil {
		gzipReaderPool.Put(gzipReader)
		http.Error(w, "Invalid gzip data", http.StatusBadRequest)
		return false
	}

	req.Body = &wrappedReadCloser{
		Reader: gzipReader,
		OnClose: func() {
			gzipReader.Close()
			gzipReaderPool.Put(gzipReader)
		},
	}
	req.Header.Del("Content-Encoding")

	return true
}

// wrappedReadCloser turns an io.Reader into an io.ReadCloser whose Close
// runs OnClose, used to return pooled gzip readers on body close.
type wrappedReadCloser struct {
	io.Reader
	OnClose func()
}

func (w *wrappedReadCloser) Close() error {
	if w.OnClose != nil {
		w.OnClose()
	}
	return nil
}

type gzipResponseWriter struct {
	http.ResponseWriter
	gzipWriter *gzip.Writer
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	w.Header().Set("Content-Encoding", "gzip")
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	return w.gzipWriter.Write(data)
}

func (w *gzipResponseWriter) Close() error {
	return w.gzipWriter.Close()
}
