package pasteupload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/emberlauncher/ember/internal/logging"
	"github.com/emberlauncher/ember/internal/settings"
)

func newTestUploader(t *testing.T) (*Uploader, *settings.Store) {
	t.Helper()

	store := settings.NewStore(filepath.Join(t.TempDir(), "ember.cfg"), nil)
	u := NewUploader(store, nil, logging.NewDefaultCLILogger())
	u.newClient = func(*settings.Store, *logging.Logger) (*retryablehttp.Client, error) {
		client := retryablehttp.NewClient()
		client.RetryMax = 0
		client.Logger = nil
		return client, nil
	}
	return u, store
}

func TestService_FallbackForUnknownStoredService(t *testing.T) {
	u, store := newTestUploader(t)
	store.Set(settings.KeyPastebinType, "99")

	if got := u.Service().ID; got != settings.DefaultPasteService {
		t.Errorf("expected fallback to %s, got %s", settings.DefaultPasteService, got)
	}
}

func TestUpload_Mclogs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1/log" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("bad form: %v", err)
		}
		if got := r.PostForm.Get("content"); got != "crash log" {
			t.Errorf("unexpected content: %q", got)
		}
		w.Write([]byte(`{"success": true, "url": "https://mclo.gs/abc123"}`))
	}))
	defer server.Close()

	u, store := newTestUploader(t)
	store.Set(settings.KeyPastebinType, "mclogs")
	store.Set(settings.KeyPastebinCustomAPIBase, server.URL)

	shareURL, err := u.Upload(context.Background(), "latest.log", "crash log")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if shareURL != "https://mclo.gs/abc123" {
		t.Errorf("unexpected share URL: %s", shareURL)
	}
}

func TestUpload_MclogsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "log too large"}`))
	}))
	defer server.Close()

	u, store := newTestUploader(t)
	store.Set(settings.KeyPastebinType, "mclogs")
	store.Set(settings.KeyPastebinCustomAPIBase, server.URL)

	if _, err := u.Upload(context.Background(), "latest.log", "big"); err == nil {
		t.Error("expected error for rejected upload")
	} else if !strings.Contains(err.Error(), "log too large") {
		t.Errorf("error should carry server reason, got: %v", err)
	}
}

func TestUpload_NullPointer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing multipart file: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "latest.log" {
			t.Errorf("unexpected filename: %s", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "crash log" {
			t.Errorf("unexpected content: %q", content)
		}
		w.Write([]byte("https://0x0.st/abc.log\n"))
	}))
	defer server.Close()

	u, store := newTestUploader(t)
	store.Set(settings.KeyPastebinType, "0x0")
	store.Set(settings.KeyPastebinCustomAPIBase, server.URL)

	shareURL, err := u.Upload(context.Background(), "latest.log", "crash log")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if shareURL != "https://0x0.st/abc.log" {
		t.Errorf("unexpected share URL: %q", shareURL)
	}
}

func TestUpload_Hastebin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "crash log" {
			t.Errorf("unexpected body: %q", body)
		}
		w.Write([]byte(`{"key": "abcdef"}`))
	}))
	defer server.Close()

	u, store := newTestUploader(t)
	store.Set(settings.KeyPastebinType, "hastebin")
	store.Set(settings.KeyPastebinCustomAPIBase, server.URL)

	shareURL, err := u.Upload(context.Background(), "latest.log", "crash log")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if shareURL != server.URL+"/abcdef" {
		t.Errorf("unexpected share URL: %q", shareURL)
	}
}

func TestUpload_PasteGG(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/pastes" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"status": "success", "result": {"id": "xyz789"}}`))
	}))
	defer server.Close()

	u, store := newTestUploader(t)
	store.Set(settings.KeyPastebinType, "pastegg")
	store.Set(settings.KeyPastebinCustomAPIBase, server.URL)

	shareURL, err := u.Upload(context.Background(), "latest.log", "crash log")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if shareURL != server.URL+"/p/anonymous/xyz789" {
		t.Errorf("unexpected share URL: %q", shareURL)
	}
}

func TestUpload_CustomBaseFallsBackToDefaultWhenEmpty(t *testing.T) {
	u, store := newTestUploader(t)
	store.Set(settings.KeyPastebinType, "hastebin")

	// No custom base set: the request would go to the service default.
	// Resolve through the same path Upload uses.
	svc := u.Service()
	if svc.DefaultBase != "https://hst.sh" {
		t.Errorf("unexpected default base: %s", svc.DefaultBase)
	}
}
