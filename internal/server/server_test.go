package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agentstation/techmarket"
	mockapp "github.com/agentstation/techmarket/internal/cmd/application"
	"github.com/agentstation/techmarket/internal/storage/memory"
	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/logging"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *techmarket.Service) {
	t.Helper()
	logger := logging.NewNopLogger()
	svc, err := techmarket.New(
		techmarket.WithStore(memory.New(catalogs.TestCatalog(t))),
		techmarket.WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("techmarket.New() failed: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	app := &mockapp.Mock{
		ServiceFunc: func() (*techmarket.Service, error) { return svc, nil },
	}
	srv, err := New(app, cfg)
	if err != nil {
		t.Fatalf("server.New() failed: %v", err)
	}
	return srv, svc
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func request(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: invalid body %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

func TestNewAppliesDefaults(t *testing.T) {
	srv, _ := newTestServer(t, Config{Host: "localhost", Port: 18081, PathPrefix: "/api/v1"})

	if srv.config.CacheTTL == 0 {
		t.Error("expected default cache TTL")
	}
	if srv.Addr() != "localhost:18081" {
		t.Errorf("Addr() = %q", srv.Addr())
	}
	if srv.StartTime().IsZero() {
		t.Error("expected start time to be set")
	}
}

// TestRoutes exercises every route through the full middleware chain.
func TestRoutes(t *testing.T) {
	srv, _ := newTestServer(t, DefaultConfig())
	h := srv.Handler()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		check  func(t *testing.T, data json.RawMessage)
	}{
		{name: "health", method: "GET", path: "/health", status: http.StatusOK},
		{name: "prefixed health", method: "GET", path: "/api/v1/health", status: http.StatusOK},
		{name: "ready", method: "GET", path: "/api/v1/ready", status: http.StatusOK},
		{
			name: "list devices", method: "GET", path: "/api/v1/devices", status: http.StatusOK,
			check: func(t *testing.T, data json.RawMessage) {
				var page struct {
					Items []catalogs.Device `json:"items"`
				}
				if err := json.Unmarshal(data, &page); err != nil {
					t.Fatal(err)
				}
				if len(page.Items) != 2 || page.Items[0].Name != "Notebook Pro" {
					t.Errorf("unexpected devices %+v", page.Items)
				}
			},
		},
		{name: "list by remote name", method: "GET", path: "/api/v1/dispositivos", status: http.StatusOK},
		{
			name: "get option", method: "GET", path: "/api/v1/options/3", status: http.StatusOK,
			check: func(t *testing.T, data json.RawMessage) {
				var o catalogs.Option
				if err := json.Unmarshal(data, &o); err != nil {
					t.Fatal(err)
				}
				if o.Customization == nil || o.Customization.ID != 2 {
					t.Errorf("expected option 3 to belong to customization 2, got %+v", o.Customization)
				}
			},
		},
		{
			name: "customization form", method: "GET", path: "/api/v1/customizations/2/form", status: http.StatusOK,
			check: func(t *testing.T, data json.RawMessage) {
				var view struct {
					Fields []struct {
						Name     string  `json:"name"`
						Selected []int64 `json:"selected"`
						Options  []struct {
							ID int64 `json:"id"`
						} `json:"options"`
					} `json:"fields"`
				}
				if err := json.Unmarshal(data, &view); err != nil {
					t.Fatal(err)
				}
				if len(view.Fields) != 2 {
					t.Fatalf("expected device and options fields, got %+v", view.Fields)
				}
				if got := view.Fields[1].Selected; len(got) != 2 || got[0] != 3 || got[1] != 4 {
					t.Errorf("options selected = %v, want [3 4]", got)
				}
			},
		},
		{name: "new option form", method: "GET", path: "/api/v1/options/new/form", status: http.StatusOK},
		{name: "missing device form", method: "GET", path: "/api/v1/devices/99/form", status: http.StatusNotFound},
		{name: "unknown entity", method: "GET", path: "/api/v1/widgets", status: http.StatusNotFound},
		{
			name: "quote", method: "POST", path: "/api/v1/quotes",
			body:   `{"device_id":1,"option_ids":[1],"add_on_ids":[1,2]}`,
			status: http.StatusOK,
			check: func(t *testing.T, data json.RawMessage) {
				var q struct {
					Total float64 `json:"total"`
				}
				if err := json.Unmarshal(data, &q); err != nil {
					t.Fatal(err)
				}
				if q.Total != 1540 {
					t.Errorf("total = %v, want 1540", q.Total)
				}
			},
		},
		{
			name: "quote foreign option", method: "POST", path: "/api/v1/quotes",
			body:   `{"device_id":1,"option_ids":[5]}`,
			status: http.StatusUnprocessableEntity,
		},
		{name: "sync without remote", method: "POST", path: "/api/v1/sync", status: http.StatusServiceUnavailable},
		{name: "wrong method", method: "DELETE", path: "/api/v1/devices/1", status: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Error("expected a request id header")
			}
			if tt.check != nil {
				var env envelope
				if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
					t.Fatal(err)
				}
				tt.check(t, env.Data)
			}
		})
	}
}

func TestSaleInvalidatesCachedSales(t *testing.T) {
	srv, _ := newTestServer(t, DefaultConfig())
	h := srv.Handler()

	_, env := request(t, h, "GET", "/api/v1/sales", "")
	if !strings.Contains(string(env.Data), `"total":1`) {
		t.Fatalf("expected one sale, got %s", env.Data)
	}
	request(t, h, "GET", "/api/v1/devices", "")
	cached := srv.Cache().ItemCount()

	w, _ := request(t, h, "POST", "/api/v1/sales", `{"device_id":2,"user_id":1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("sell status = %d: %s", w.Code, w.Body.String())
	}
	if got := srv.Cache().ItemCount(); got != cached-1 {
		t.Errorf("expected only the sales listing to be dropped, cache has %d of %d", got, cached)
	}

	_, env = request(t, h, "GET", "/api/v1/sales", "")
	if !strings.Contains(string(env.Data), `"total":2`) {
		t.Errorf("expected two sales after selling, got %s", env.Data)
	}
}

func TestSaveClearsCache(t *testing.T) {
	srv, svc := newTestServer(t, DefaultConfig())
	h := srv.Handler()

	request(t, h, "GET", "/api/v1/add-ons", "")
	request(t, h, "GET", "/api/v1/devices/1", "")
	if srv.Cache().ItemCount() != 2 {
		t.Fatalf("expected 2 cached responses, got %d", srv.Cache().ItemCount())
	}

	addOn, err := svc.Get(context.Background(), catalogs.KindAddOn, 1)
	if err != nil {
		t.Fatal(err)
	}
	renamed := addOn.(*catalogs.AddOn)
	renamed.Name = "Sleeve"
	if err := svc.Save(context.Background(), renamed); err != nil {
		t.Fatal(err)
	}

	if srv.Cache().ItemCount() != 0 {
		t.Errorf("expected cache to be cleared, %d items left", srv.Cache().ItemCount())
	}
	_, env := request(t, h, "GET", "/api/v1/devices/1", "")
	if !strings.Contains(string(env.Data), "Sleeve") {
		t.Errorf("expected renamed add-on in device, got %s", env.Data)
	}
}

func TestCORSEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CORSEnabled = true
	cfg.CORSOrigins = []string{"https://admin.example.com"}
	srv, _ := newTestServer(t, cfg)

	req := httptest.NewRequest("GET", "/api/v1/devices", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

// TestRun verifies the server stops when its context is canceled.
func TestRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 0
	srv, _ := newTestServer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
