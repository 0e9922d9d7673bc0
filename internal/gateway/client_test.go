package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibe_studio/internal/project"
)

func TestGenerate(t *testing.T) {
	var got GenerateRequest
	var gotID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, generatePath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotID = r.Header.Get(RequestIDHeader)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"files":[{"path":"b.py","content":"2"},{"path":"a.py","content":"1"}],"meta":{}}`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	ctx := WithRequestID(context.Background(), "ticket-1")

	files, err := c.Generate(ctx, "x")
	require.NoError(t, err)

	assert.Equal(t, "x", got.Prompt)
	assert.Equal(t, "ticket-1", gotID)
	assert.Equal(t, []project.FileItem{
		{Path: "b.py", Content: "2"},
		{Path: "a.py", Content: "1"},
	}, files)
}

func TestGenerateFailureWithDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail":"quota exceeded"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, "quota exceeded", err.Error())

	var rf *RequestFailedError
	require.True(t, errors.As(err, &rf))
	assert.Equal(t, http.StatusTooManyRequests, rf.Status)
	assert.Equal(t, "generate", rf.Op)
}

func TestFailureWithoutDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`Internal Server Error`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, "request failed with status code 500", err.Error())
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Invalid path outside root"}`, "Invalid path outside root"},
		{"validation list", `{"detail":[{"loc":["body","prompt"],"msg":"field required"}]}`, "field required"},
		{"error key", `{"error":"bad"}`, "bad"},
		{"empty object", `{}`, ""},
		{"not json", `oops`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDetail([]byte(tt.body)))
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).Generate(context.Background(), "x")
	require.Error(t, err)

	var rf *RequestFailedError
	require.True(t, errors.As(err, &rf))
	assert.Zero(t, rf.Status)
	assert.Empty(t, rf.Detail)
	assert.NotNil(t, rf.Cause)
	assert.Equal(t, rf.Cause.Error(), err.Error())
}

func TestDecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"files": "nope"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestWrite(t *testing.T) {
	var got WriteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, writePath, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":"ok","written":2}`))
	}))
	defer srv.Close()

	files := []project.FileItem{{Path: "a.py", Content: "1"}, {Path: "b.py", Content: "2"}}
	ack, err := New(srv.URL).Write(context.Background(), "out", files)
	require.NoError(t, err)

	assert.Equal(t, "out", got.RootDir)
	assert.Equal(t, files, got.Files)
	assert.Equal(t, WriteAck{Status: "ok", Written: 2}, ack)
}

func TestWriteEmptyAck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ack, err := New(srv.URL).Write(context.Background(), "out", nil)
	require.NoError(t, err)
	assert.Equal(t, WriteAck{}, ack)
}

func TestWriteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Invalid path outside root"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Write(context.Background(), "out", []project.FileItem{{Path: "../x"}})
	require.Error(t, err)
	assert.Equal(t, "Invalid path outside root", err.Error())
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).Generate(context.Background(), "x")
	require.Error(t, err)
}

func TestReconfigure(t *testing.T) {
	c := New("http://old.example")
	c.Reconfigure("http://new.example/", time.Second)
	assert.Equal(t, "http://new.example", c.BaseURL())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestReconfigureKeepsTransport(t *testing.T) {
	var hosts []string
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		hosts = append(hosts, r.URL.Host)
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"files":[]}`)),
		}, nil
	})

	c := New("http://old.example", WithHTTPClient(&http.Client{Transport: transport}), WithTimeout(time.Minute))
	c.Reconfigure("http://new.example", time.Second)

	_, err := c.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"new.example"}, hosts)
}
