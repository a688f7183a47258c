// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDownloadAsset_StreamsBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("binary-bytes"))
	}))
	defer srv.Close()

	c := NewClient()
	body, err := c.DownloadAsset(context.Background(), srv.URL+"/heimdall-linux-amd64")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer body.Close()

	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if string(got) != "binary-bytes" {
		t.Errorf("body: got %q", got)
	}
}

func TestDownloadAsset_FollowsRedirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("redirected"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient()
	body, err := c.DownloadAsset(context.Background(), srv.URL+"/redirect")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer body.Close()

	got, _ := io.ReadAll(body)
	if string(got) != "redirected" {
		t.Errorf("body after redirect: got %q", got)
	}
}

func TestDownloadAsset_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient()
	if _, err := c.DownloadAsset(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestFetchBootstrap(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("#!/usr/bin/env sh\necho installing\n"))
	}))
	defer srv.Close()

	c := NewClient()
	script, err := c.FetchBootstrap(context.Background(), srv.URL+"/install")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if script == "" || script[0] != '#' {
		t.Errorf("script: got %q", script)
	}
}

func TestLatestReleaseTag(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/Jon-Becker/heimdall-rs/releases/latest" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"tag_name": "0.6.1"})
	}))
	defer srv.Close()

	c := NewClient(WithAPIBase(srv.URL))
	tag, err := c.LatestReleaseTag(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != "0.6.1" {
		t.Errorf("tag: got %q, want %q", tag, "0.6.1")
	}
}

func TestLatestReleaseTag_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	c := NewClient(WithAPIBase(srv.URL))
	_, err := c.LatestReleaseTag(context.Background())
	if !errors.Is(err, ErrReleaseNotFound) {
		t.Fatalf("expected ErrReleaseNotFound, got %v", err)
	}
}
