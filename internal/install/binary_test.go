// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"bifrost-cli/internal/remote"
)

func withGOOS(t *testing.T, goos string) {
	t.Helper()
	orig := currentGOOS
	t.Cleanup(func() { currentGOOS = orig })
	currentGOOS = func() string { return goos }
}

func TestBinaryInstaller_DownloadsPlatformArtifact(t *testing.T) {
	withGOOS(t, "linux")

	var requestedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		_, _ = w.Write([]byte("\x7fELF fake binary"))
	}))
	defer srv.Close()

	cfg := sourceTestConfig(t.TempDir())
	cfg.ReleaseBase = srv.URL
	b := NewBinaryInstaller(cfg, remote.NewClient())

	if err := b.Install(context.Background(), "0.6.1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requestedPath != "/download/0.6.1/heimdall-linux-amd64" {
		t.Errorf("download path: got %q", requestedPath)
	}

	info, err := os.Stat(cfg.ArtifactPath())
	if err != nil {
		t.Fatalf("artifact not installed: %v", err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		t.Errorf("artifact is not executable: mode %v", info.Mode())
	}
}

func TestBinaryInstaller_ReplacesPriorArtifact(t *testing.T) {
	withGOOS(t, "darwin")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("new build"))
	}))
	defer srv.Close()

	cfg := sourceTestConfig(t.TempDir())
	cfg.ReleaseBase = srv.URL
	if err := os.MkdirAll(cfg.BinDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.ArtifactPath(), []byte("old build"), 0o755); err != nil {
		t.Fatal(err)
	}

	b := NewBinaryInstaller(cfg, remote.NewClient())
	if err := b.Install(context.Background(), "0.6.1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(cfg.ArtifactPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new build" {
		t.Errorf("artifact content: got %q, want the fresh download", got)
	}
}

func TestBinaryInstaller_UnsupportedPlatform(t *testing.T) {
	withGOOS(t, "windows")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request must be made for an unsupported platform")
	}))
	defer srv.Close()

	cfg := sourceTestConfig(t.TempDir())
	cfg.ReleaseBase = srv.URL
	b := NewBinaryInstaller(cfg, remote.NewClient())

	err := b.Install(context.Background(), "0.6.1")
	var unsupported *UnsupportedPlatformError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedPlatformError, got %v", err)
	}
	if unsupported.GOOS != "windows" {
		t.Errorf("reported GOOS: got %q", unsupported.GOOS)
	}

	// No file may be written to bin/.
	if _, err := os.Stat(cfg.BinDir()); !os.IsNotExist(err) {
		t.Error("bin/ must not be created for an unsupported platform")
	}
}

func TestBinaryInstaller_NonSuccessStatusIsFatal(t *testing.T) {
	withGOOS(t, "linux")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such release", http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := sourceTestConfig(t.TempDir())
	cfg.ReleaseBase = srv.URL
	b := NewBinaryInstaller(cfg, remote.NewClient())

	if err := b.Install(context.Background(), "9.9.9"); err == nil {
		t.Fatal("expected error for missing release asset")
	}
	if _, err := os.Stat(cfg.ArtifactPath()); !os.IsNotExist(err) {
		t.Error("no artifact may be written on a failed download")
	}
}

func TestBinaryInstaller_VersionInURL(t *testing.T) {
	withGOOS(t, "linux")

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := sourceTestConfig(t.TempDir())
	cfg.ReleaseBase = srv.URL
	b := NewBinaryInstaller(cfg, remote.NewClient())

	for _, version := range []string{"0.6.0", "0.7.3"} {
		if err := b.Install(context.Background(), version); err != nil {
			t.Fatalf("install %s: %v", version, err)
		}
	}

	for i, version := range []string{"0.6.0", "0.7.3"} {
		want := fmt.Sprintf("/download/%s/heimdall-linux-amd64", version)
		if paths[i] != want {
			t.Errorf("request %d: got %q, want %q", i, paths[i], want)
		}
	}
}
