package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadReturnsPublicURL(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "test-key")
	url, err := store.Upload(context.Background(), AttachmentsBucket, "scan.pdf", []byte("pdf-bytes"))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/object/medical-attachments/scan.pdf", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, []byte("pdf-bytes"), gotBody)
	assert.Equal(t, srv.URL+"/object/public/medical-attachments/scan.pdf", url)
}

func TestUploadSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket quota exceeded", http.StatusInsufficientStorage)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "test-key")
	_, err := store.Upload(context.Background(), AttachmentsBucket, "scan.pdf", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket quota exceeded")
}

func TestRemoveSwallowsAbsentObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "test-key")
	err := store.Remove(context.Background(), AttachmentsBucket, "gone.pdf")
	assert.NoError(t, err)
}

func TestRemoveSurfacesOtherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "test-key")
	err := store.Remove(context.Background(), AttachmentsBucket, "scan.pdf")
	assert.Error(t, err)
}

func TestObjectNameSanitizesAndPrefixes(t *testing.T) {
	name := ObjectName("../etc/pass wd & more.pdf")

	assert.True(t, strings.HasSuffix(name, "pass_wd_more.pdf"))
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, " ")
	assert.NotContains(t, name, "&")

	// Two uploads of the same file never collide.
	assert.NotEqual(t, name, ObjectName("../etc/pass wd & more.pdf"))
}

func TestNameFromURL(t *testing.T) {
	url := "http://store.local/object/public/medical-attachments/abc123_scan.pdf"
	assert.Equal(t, "abc123_scan.pdf", NameFromURL(url))
}
