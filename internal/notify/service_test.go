package notify_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coursespider/internal/config"
	"coursespider/internal/notify"
)

func TestNoopWhenTopicEmpty(t *testing.T) {
	cfg := config.Default()
	service := notify.NewService(&cfg)
	if err := service.Test(context.Background()); err != nil {
		t.Fatalf("noop Test: %v", err)
	}
	if err := service.CollectionCompleted(context.Background(), "job-1", 3, 1); err != nil {
		t.Fatalf("noop CollectionCompleted: %v", err)
	}
}

func TestNtfySend(t *testing.T) {
	var gotTitle, gotBody, gotTags string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		gotTags = r.Header.Get("Tags")
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	service := notify.NewService(&cfg)

	if err := service.CollectionCompleted(context.Background(), "job-42", 7, 2); err != nil {
		t.Fatalf("CollectionCompleted: %v", err)
	}
	if gotTitle != "CourseSpider - Run Complete" {
		t.Errorf("title = %q", gotTitle)
	}
	if !strings.Contains(gotBody, "7 imported, 2 skipped") {
		t.Errorf("body = %q", gotBody)
	}
	if !strings.Contains(gotTags, "collect") {
		t.Errorf("tags = %q", gotTags)
	}
}

func TestNtfyErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	service := notify.NewService(&cfg)

	err := service.CollectionFailed(context.Background(), "job-1", "boom")
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("error should carry status: %v", err)
	}
}
