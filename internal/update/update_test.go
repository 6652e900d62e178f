package update

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func releaseServer(t *testing.T, status int, tag string) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"tag_name": %q, "html_url": "https://example.com/r/%s"}`, tag, tag)
	}))
	t.Cleanup(srv.Close)
	return &Checker{URL: srv.URL, Client: srv.Client()}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		current string
		tag     string
		want    string
	}{
		{"newer", "v0.1.0", "v0.2.0", "0.2.0"},
		{"same", "v0.2.0", "v0.2.0", ""},
		{"same without prefix", "0.2.0", "v0.2.0", ""},
		{"dev build", "dev", "v0.2.0", ""},
		{"no tag", "v0.1.0", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := releaseServer(t, http.StatusOK, tt.tag)
			res, err := c.Check(context.Background(), tt.current)
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			got := ""
			if res != nil {
				got = res.LatestVersion
			}
			if got != tt.want {
				t.Errorf("Check(%q) latest = %q, want %q", tt.current, got, tt.want)
			}
		})
	}
}

func TestCheckServerError(t *testing.T) {
	c := releaseServer(t, http.StatusInternalServerError, "")
	if _, err := c.Check(context.Background(), "v0.1.0"); err == nil {
		t.Error("expected error for 500 response")
	}
}
