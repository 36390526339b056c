package asrtest

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"asrprobe/internal/model"
)

func TestHealthDefault(t *testing.T) {
	s := New(t)

	resp, err := http.Get(s.URL + "/api/asr/health/")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"status":"ok"`) || !strings.Contains(string(body), `"service":"asr"`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if s.HealthCalls() != 1 {
		t.Fatalf("unexpected health calls: %d", s.HealthCalls())
	}
}

func TestConvertRecordsRequests(t *testing.T) {
	s := New(t, WithConvertResponse(Raw(http.StatusForbidden, `{"message":"quota exhausted"}`)))

	req, _ := http.NewRequest(http.MethodPost, s.URL+"/api/asr/convert/", strings.NewReader(`{"cos_url":"u","auto_split":true,"supervise_type":2}`))
	req.Header.Set("X-Request-Id", "rid-1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST convert: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-Id") != "rid-1" {
		t.Fatalf("request id not echoed: %q", resp.Header.Get("X-Request-Id"))
	}
	got := s.Requests()
	if len(got) != 1 || got[0] != (model.ConvertRequest{CosURL: "u", AutoSplit: true, SuperviseType: 2}) {
		t.Fatalf("unexpected requests: %+v", got)
	}
	if ids := s.RequestIDs(); len(ids) != 1 || ids[0] != "rid-1" {
		t.Fatalf("unexpected request ids: %v", ids)
	}
}

func TestDefaultConvert(t *testing.T) {
	if resp := DefaultConvert(model.ConvertRequest{}); resp.Status != http.StatusBadRequest {
		t.Fatalf("missing cos_url should be a 400, got %d", resp.Status)
	}
	sim := DefaultConvert(model.ConvertRequest{CosURL: "u", Simulate: "true"})
	if !strings.Contains(sim.Body, `"simulated":true`) {
		t.Fatalf("unexpected simulated body: %s", sim.Body)
	}
	realResp := DefaultConvert(model.ConvertRequest{CosURL: "u"})
	if !strings.Contains(realResp.Body, "speaker_text_lines") || strings.Contains(realResp.Body, "simulated") {
		t.Fatalf("unexpected real body: %s", realResp.Body)
	}
}

func TestUnknownRouteReturnsJSON(t *testing.T) {
	s := New(t)

	resp, err := http.Get(s.URL + "/api/asr/convert/")
	if err != nil {
		t.Fatalf("GET convert: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "method not allowed") {
		t.Fatalf("unexpected body: %s", body)
	}
}
