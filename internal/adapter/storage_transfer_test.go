package adapter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/MKhiriev/go-secrets-manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── UploadToStorage ─────────────────────────────────────────────────────────

func TestUploadToStorage_Success(t *testing.T) {
	blob := []byte("encrypted-bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "files/abc", r.FormValue("key"))
		assert.Equal(t, "3", r.FormValue("attempt"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		assert.Equal(t, "report.pdf", header.Filename)

		got, _ := io.ReadAll(file)
		assert.Equal(t, blob, got)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	slot := models.FileUploadResponse{
		URL:               srv.URL,
		Parameters:        `{"key":"files/abc","attempt":3}`,
		SuccessStatusCode: http.StatusCreated,
	}
	err := newTestAdapter(t).UploadToStorage(context.Background(), slot, "report.pdf", blob)
	assert.NoError(t, err)
}

func TestUploadToStorage_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	slot := models.FileUploadResponse{URL: srv.URL, SuccessStatusCode: http.StatusNoContent}
	err := newTestAdapter(t).UploadToStorage(context.Background(), slot, "f", []byte("x"))

	assert.ErrorIs(t, err, ErrUpload)
}

func TestUploadToStorage_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestAdapter(t).UploadToStorage(context.Background(), models.FileUploadResponse{URL: srv.URL}, "f", []byte("x"))

	assert.ErrorIs(t, err, ErrUpload)
}

func TestUploadToStorage_BadParameters(t *testing.T) {
	err := newTestAdapter(t).UploadToStorage(context.Background(),
		models.FileUploadResponse{URL: "http://127.0.0.1:1", Parameters: `[1,2]`}, "f", nil)

	assert.ErrorIs(t, err, ErrUpload)
}

// ── DownloadFromStorage ─────────────────────────────────────────────────────

func TestDownloadFromStorage(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		switch r.URL.Path {
		case "/flaky":
			if n == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("blob"))
		case "/ok":
			_, _ = w.Write([]byte("blob"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a := newTestAdapter(t)

	got, err := a.DownloadFromStorage(context.Background(), srv.URL+"/flaky")
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), got)
	assert.Equal(t, int32(2), calls.Load())

	got, err = a.DownloadFromStorage(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), got)

	_, err = a.DownloadFromStorage(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = a.DownloadFromStorage(context.Background(), "")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestUploadFormFields(t *testing.T) {
	fields, err := uploadFormFields(`{"key":"k","policy":{"a":1},"n":5}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"key": "k", "policy": `{"a":1}`, "n": "5"}, fields)

	fields, err = uploadFormFields("")
	require.NoError(t, err)
	assert.Empty(t, fields)

	_, err = uploadFormFields("{not json")
	assert.Error(t, err)
}
