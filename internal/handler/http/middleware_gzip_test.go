// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipeJSON = `{"id":1,"title":"Sample recipe","time_minutes":22,"price":"5.25","tags":[],"ingredients":[]}`

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func gunzip(t *testing.T, r io.Reader) string {
	t.Helper()
	zr, err := gzip.NewReader(r)
	require.NoError(t, err)
	defer zr.Close()
	data, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(data)
}

// echoHandler answers with status and the request body.
func echoHandler(t *testing.T, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	})
}

// ---- responses ----

func TestGZip_Responses(t *testing.T) {
	tests := []struct {
		name           string
		acceptEncoding string
		wantGzip       bool
	}{
		{name: "gzip", acceptEncoding: "gzip", wantGzip: true},
		{name: "among others", acceptEncoding: "deflate, gzip, br", wantGzip: true},
		{name: "with weight", acceptEncoding: "gzip;q=0.8, identity;q=0.5", wantGzip: true},
		{name: "upper case", acceptEncoding: "GZIP", wantGzip: true},
		{name: "refused", acceptEncoding: "gzip;q=0, identity", wantGzip: false},
		{name: "not offered", acceptEncoding: "br", wantGzip: false},
		{name: "no header", wantGzip: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(recipeJSON))
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rr := httptest.NewRecorder()

			withGZip(echoHandler(t, http.StatusCreated)).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusCreated, rr.Code)
			if !tt.wantGzip {
				assert.Empty(t, rr.Header().Get("Content-Encoding"))
				assert.Equal(t, recipeJSON, rr.Body.String())
				return
			}
			assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
			assert.Equal(t, "Accept-Encoding", rr.Header().Get("Vary"))
			assert.Equal(t, recipeJSON, gunzip(t, rr.Body))
		})
	}
}

func TestGZip_LargeListShrinks(t *testing.T) {
	list := "[" + strings.TrimSuffix(strings.Repeat(recipeJSON+",", 200), ",") + "]"
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(list))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	withGZip(next).ServeHTTP(rr, req)

	assert.Less(t, rr.Body.Len(), len(list)/10)
	assert.Equal(t, list, gunzip(t, rr.Body))
}

func TestGZip_ImplicitStatusDropsContentLength(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "2")
		_, _ = w.Write([]byte("[]"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	withGZip(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
	assert.Empty(t, rr.Header().Get("Content-Length"))
	assert.Equal(t, "[]", gunzip(t, rr.Body))
}

func TestGZip_SniffsContentTypeBeforeCompressing(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	withGZip(next).ServeHTTP(rr, req)

	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
}

func TestGZip_PlainResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
	}{
		{name: "deleted recipe", status: http.StatusNoContent},
		{name: "not modified image", status: http.StatusNotModified, contentType: "image/png"},
		{name: "png", status: http.StatusOK, contentType: "image/png", body: "\x89PNG\r\n\x1a\n"},
		{name: "jpeg", status: http.StatusOK, contentType: "image/jpeg", body: "\xff\xd8\xff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			req := httptest.NewRequest(http.MethodGet, "/media/uploads/recipe/a.png", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			rr := httptest.NewRecorder()
			withGZip(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			assert.Empty(t, rr.Header().Get("Content-Encoding"))
			assert.Equal(t, tt.body, rr.Body.String())
		})
	}
}

func TestGZip_SVGIsCompressed(t *testing.T) {
	assert.False(t, precompressed("image/svg+xml"))
	assert.True(t, precompressed("image/gif"))
	assert.False(t, precompressed("application/json"))
}

func TestGZip_NothingWritten(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()

	withGZip(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Content-Encoding"))
	assert.Zero(t, rr.Body.Len())
}

// ---- requests ----

func TestGZip_InflatesRequestBody(t *testing.T) {
	for _, encoding := range []string{"gzip", "GZIP", "identity, gzip"} {
		t.Run(encoding, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Empty(t, r.Header.Get("Content-Encoding"))
				assert.EqualValues(t, -1, r.ContentLength)
				echoHandler(t, http.StatusCreated).ServeHTTP(w, r)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/recipes", bytes.NewReader(gzipBytes(t, []byte(recipeJSON))))
			req.Header.Set("Content-Encoding", encoding)
			rr := httptest.NewRecorder()
			withGZip(next).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusCreated, rr.Code)
			assert.Equal(t, recipeJSON, rr.Body.String())
		})
	}
}

func TestGZip_InvalidRequestBody(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(recipeJSON))
	req.Header.Set("Content-Encoding", "gzip")
	rr := httptest.NewRecorder()
	withGZip(next).ServeHTTP(rr, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"detail":"Invalid gzip data."}`, rr.Body.String())
}

func TestGZip_BothDirections(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/api/recipes/1", bytes.NewReader(gzipBytes(t, []byte(recipeJSON))))
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()

	withGZip(echoHandler(t, http.StatusOK)).ServeHTTP(rr, req)

	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
	assert.Equal(t, recipeJSON, gunzip(t, rr.Body))
}

// ---- pools ----

func TestGZip_ConcurrentPoolUse(t *testing.T) {
	handler := withGZip(echoHandler(t, http.StatusOK))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPut, "/api/recipes/1", bytes.NewReader(gzipBytes(t, []byte(recipeJSON))))
			req.Header.Set("Content-Encoding", "gzip")
			req.Header.Set("Accept-Encoding", "gzip")
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, recipeJSON, gunzip(t, rr.Body))
		}()
	}
	wg.Wait()
}

func TestPooledReadCloser_Close(t *testing.T) {
	closed := false
	rc := &pooledReadCloser{Reader: strings.NewReader("x"), OnClose: func() { closed = true }}
	assert.NoError(t, rc.Close())
	assert.True(t, closed)

	assert.NoError(t, (&pooledReadCloser{Reader: strings.NewReader("x")}).Close())
}
