package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayane/letterdrop/internal/tracking"
)

type mockTrackingRecorder struct {
	recordOpenFn func(ctx context.Context, newsletterID, subscriberID string)
}

func (m *mockTrackingRecorder) RecordOpen(ctx context.Context, newsletterID, subscriberID string) {
	if m.recordOpenFn != nil {
		m.recordOpenFn(ctx, newsletterID, subscriberID)
	}
}

// ビーコンが200でGIFを返し、パラメータが記録されることを検証する。
func TestTrackingHandler_Open_ReturnsPixel(t *testing.T) {
	var gotNewsletterID, gotSubscriberID string
	rec := &mockTrackingRecorder{
		recordOpenFn: func(_ context.Context, newsletterID, subscriberID string) {
			gotNewsletterID = newsletterID
			gotSubscriberID = subscriberID
		},
	}
	h := NewTrackingHandler(rec)

	req := httptest.NewRequest(http.MethodGet, "/tracking/open?id=nl-1&sub=sub-1", nil)
	w := httptest.NewRecorder()

	h.Open(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/gif" {
		t.Errorf("Content-Type = %q, want image/gif", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc == "" {
		t.Error("Cache-Control should be set")
	}
	if !bytes.Equal(w.Body.Bytes(), tracking.Pixel) {
		t.Error("body should be the tracking pixel")
	}
	if gotNewsletterID != "nl-1" || gotSubscriberID != "sub-1" {
		t.Errorf("recorded (%q, %q), want (nl-1, sub-1)", gotNewsletterID, gotSubscriberID)
	}
}

// パラメータなしでも常に200でGIFが返ることを検証する。
func TestTrackingHandler_Open_MissingParams(t *testing.T) {
	h := NewTrackingHandler(&mockTrackingRecorder{})

	req := httptest.NewRequest(http.MethodGet, "/tracking/open", nil)
	w := httptest.NewRecorder()

	h.Open(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !bytes.Equal(w.Body.Bytes(), tracking.Pixel) {
		t.Error("body should be the tracking pixel")
	}
}
