package server

import (
	"net/http"
	"slices"
	"testing"

	"github.com/ejdedart/dartscore/internal/darts"
)

func TestParseDartEndpoint(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/api/darts/t20", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var d DartResponse
	decode(t, w, &d)
	if d.Token != "T20" || d.Kind != darts.Triple || d.Points != 60 || d.IsDouble {
		t.Errorf("unexpected dart: %+v", d)
	}

	w = e.do(t, http.MethodGet, "/api/darts/DB", "", nil)
	d = DartResponse{}
	decode(t, w, &d)
	if d.Points != 50 || !d.IsDouble {
		t.Errorf("expected inner bull to be a double worth 50, got %+v", d)
	}

	w = e.do(t, http.MethodGet, "/api/darts/Q7", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCheckoutEndpoint(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/api/checkout/170", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp CheckoutResponse
	decode(t, w, &resp)
	if !resp.Finishable || !slices.Equal(resp.Line, []string{"T20", "T20", "DB"}) {
		t.Errorf("unexpected checkout for 170: %+v", resp)
	}
	if resp.OutRule != darts.DoubleOut {
		t.Errorf("expected double out by default, got %q", resp.OutRule)
	}

	w = e.do(t, http.MethodGet, "/api/checkout/60?n=5", "", nil)
	resp = CheckoutResponse{}
	decode(t, w, &resp)
	if len(resp.Alternatives) != 5 {
		t.Errorf("expected 5 alternatives, got %d", len(resp.Alternatives))
	}
	if !slices.Equal(resp.Line, resp.Alternatives[0]) {
		t.Errorf("line %v is not the first alternative", resp.Line)
	}

	w = e.do(t, http.MethodGet, "/api/checkout/169", "", nil)
	resp = CheckoutResponse{}
	decode(t, w, &resp)
	if resp.Finishable || resp.Line == nil || len(resp.Line) != 0 {
		t.Errorf("169 is a bogey number, got %+v", resp)
	}
}

func TestCheckoutEndpointRejects(t *testing.T) {
	e := newTestEnv(t)

	for _, path := range []string{
		"/api/checkout/abc",
		"/api/checkout/40?out=triple",
		"/api/checkout/40?n=0",
		"/api/checkout/40?n=11",
	} {
		w := e.do(t, http.MethodGet, path, "", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}
