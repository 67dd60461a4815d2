// Package s3test runs an in-memory S3-compatible endpoint for tests.
//
// Requests are served by gofakes3 over an s3mem backend. The wrapper adds what
// the storage tests need on top: a switch that denies every request, a request
// counter, and decoding of aws-chunked upload bodies.
package s3test

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
)

// Object is a stored object.
type Object struct {
	Data        []byte
	ContentType string
	ETag        string
	Modified    time.Time
}

// Server is an in-memory S3 endpoint.
type Server struct {
	*httptest.Server

	backend *s3mem.Backend
	s3      http.Handler

	deny     atomic.Bool
	requests atomic.Int64
}

// NewServer starts a server. Callers must Close it.
func NewServer() *Server {
	s := &Server{backend: s3mem.New()}
	s.s3 = gofakes3.New(s.backend).Server()
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Endpoint returns the base URL of the server.
func (s *Server) Endpoint() string {
	return s.URL
}

// DenyAccess makes every following request fail with 403 AccessDenied.
func (s *Server) DenyAccess(deny bool) {
	s.deny.Store(deny)
}

// Requests returns the number of requests served over the network so far.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// CreateBucket creates a bucket directly, bypassing HTTP.
func (s *Server) CreateBucket(name string) {
	if ok, _ := s.backend.BucketExists(name); ok {
		return
	}
	if err := s.backend.CreateBucket(name); err != nil {
		panic(fmt.Sprintf("s3test: create bucket %q: %v", name, err))
	}
}

// HasBucket reports whether a bucket exists.
func (s *Server) HasBucket(name string) bool {
	ok, _ := s.backend.BucketExists(name)
	return ok
}

// Object returns a stored object.
func (s *Server) Object(bucket, key string) (Object, bool) {
	rec := s.direct(http.MethodGet, bucket, key, nil, "")
	if rec.Code != http.StatusOK {
		return Object{}, false
	}
	modified, _ := http.ParseTime(rec.Header().Get("Last-Modified"))
	return Object{
		Data:        rec.Body.Bytes(),
		ContentType: rec.Header().Get("Content-Type"),
		ETag:        strings.Trim(rec.Header().Get("ETag"), `"`),
		Modified:    modified,
	}, true
}

// PutObject stores an object directly, creating the bucket when needed.
func (s *Server) PutObject(bucket, key string, data []byte, contentType string) Object {
	s.CreateBucket(bucket)
	rec := s.direct(http.MethodPut, bucket, key, data, contentType)
	if rec.Code != http.StatusOK {
		panic(fmt.Sprintf("s3test: put %s/%s: status %d: %s", bucket, key, rec.Code, rec.Body.String()))
	}
	obj, _ := s.Object(bucket, key)
	return obj
}

// direct serves a request through gofakes3 without going over the network.
func (s *Server) direct(method, bucket, key string, data []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/"+bucket+"/"+key, bytes.NewReader(data))
	req.Header.Set("X-Amz-Date", time.Now().UTC().Format("20060102T150405Z"))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.s3.ServeHTTP(rec, req)
	return rec
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)

	if s.deny.Load() {
		denied(w, r)
		return
	}
	if isChunked(r) {
		if err := unchunk(r); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	s.s3.ServeHTTP(w, r)
}

func denied(w http.ResponseWriter, r *http.Request) {
	// HEAD replies never carry a body; clients infer the code from the status.
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusForbidden)
	_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
		`<Error><Code>AccessDenied</Code><Message>Access Denied</Message>`+
		`<Resource>`+r.URL.Path+`</Resource></Error>`)
}

func isChunked(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Content-Encoding"), "aws-chunked") {
		return true
	}
	if r.Header.Get("X-Amz-Decoded-Content-Length") != "" {
		return true
	}
	return strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-")
}

// unchunk replaces an aws-chunked body with the plain payload it frames.
func unchunk(r *http.Request) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	data, err := decodeChunked(raw)
	if err != nil {
		return err
	}

	r.Body = io.NopCloser(bytes.NewReader(data))
	r.ContentLength = int64(len(data))
	r.Header.Set("Content-Length", strconv.Itoa(len(data)))
	r.Header.Set("X-Amz-Content-Sha256", "UNSIGNED-PAYLOAD")
	r.Header.Del("X-Amz-Decoded-Content-Length")
	r.Header.Del("X-Amz-Trailer")

	var encodings []string
	for _, enc := range strings.Split(r.Header.Get("Content-Encoding"), ",") {
		if enc = strings.TrimSpace(enc); enc != "" && enc != "aws-chunked" {
			encodings = append(encodings, enc)
		}
	}
	if len(encodings) == 0 {
		r.Header.Del("Content-Encoding")
	} else {
		r.Header.Set("Content-Encoding", strings.Join(encodings, ","))
	}
	return nil
}

func decodeChunked(raw []byte) ([]byte, error) {
	var out bytes.Buffer
	br := bufio.NewReader(bytes.NewReader(raw))
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("read chunk header: %w", err)
		}
		sizeField, _, _ := strings.Cut(strings.TrimRight(line, "\r\n"), ";")
		size, err := strconv.ParseInt(strings.TrimSpace(sizeField), 16, 64)
		if err != nil {
			return nil, fmt.Errorf("parse chunk size %q: %w", sizeField, err)
		}
		if size == 0 {
			// Trailing checksum headers, if any, are ignored.
			return out.Bytes(), nil
		}
		if _, err := io.CopyN(&out, br, size); err != nil {
			return nil, fmt.Errorf("read chunk: %w", err)
		}
		if _, err := br.ReadString('\n'); err != nil {
			return nil, fmt.Errorf("read chunk terminator: %w", err)
		}
	}
}
