package telemetry

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/preload/pkg/config"
	"mercator-hq/preload/pkg/evaluator"
)

func TestNew(t *testing.T) {
	if _, err := New(nil, BuildInfo{}); err == nil {
		t.Error("New(nil) should fail")
	}

	cfg := config.DefaultConfig().Telemetry
	cfg.Logging.Level = "loud"
	if _, err := New(&cfg, BuildInfo{}); err == nil {
		t.Error("New() with invalid log level should fail")
	}
}

func TestHandler(t *testing.T) {
	cfg := config.DefaultConfig().Telemetry
	cfg.Metrics.Enabled = true

	tel, err := New(&cfg, BuildInfo{Version: "1.2.3"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer tel.Shutdown(context.Background())

	tel.Metrics().ObserveRun(evaluator.RunStats{Rows: 3})

	srv := httptest.NewServer(tel.Handler())
	defer srv.Close()

	for _, path := range []string{"/metrics", "/healthz", "/readyz", "/version"} {
		resp, err := srv.Client().Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		var body bytes.Buffer
		_, _ = body.ReadFrom(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d", path, resp.StatusCode)
		}
		if path == "/metrics" && !bytes.Contains(body.Bytes(), []byte("preload_verifier_rows_total 3")) {
			t.Errorf("metrics body missing rows counter:\n%s", body.String())
		}
		if path == "/version" && !bytes.Contains(body.Bytes(), []byte(`"version":"1.2.3"`)) {
			t.Errorf("version body = %s", body.String())
		}
	}
}
