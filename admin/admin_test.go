package admin_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	comet "github.com/gocomet/cometd"
	"github.com/gocomet/cometd/admin"
)

// it should serve an HTML index page
func TestAdminHTTPIndex(t *testing.T) {
	core := comet.NewCore(comet.NewConfig())
	defer core.Stop()

	req, err := http.NewRequest(http.MethodGet, "/admin/", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	admin.Handler(core).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("status = %v, want %v", status, http.StatusOK)
	}
	if ctype := rr.Header().Get("Content-Type"); ctype != "text/html" {
		t.Errorf("content type = %v, want text/html", ctype)
	}
}

// it should expose a JSON status endpoint reflecting live core counters
func TestAdminHTTPStatusAPI(t *testing.T) {
	core := comet.NewCore(comet.NewConfig())
	defer core.Stop()

	if _, err := core.Sign(comet.SignParams{CName: "x"}); err != nil {
		t.Fatalf("sign: %v", err)
	}

	req, err := http.NewRequest(http.MethodGet, "/admin/status.json", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	admin.Handler(core).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("status = %v, want %v", status, http.StatusOK)
	}
	if ctype := rr.Header().Get("Content-Type"); ctype != "application/json" {
		t.Errorf("content type = %v, want application/json", ctype)
	}

	var got admin.Status
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal status.json: %v", err)
	}
	if got.Channels != 1 {
		t.Errorf("Channels = %d, want 1", got.Channels)
	}
}
