package transport

import (
	"net/http"
	"net/url"
	"testing"
)

func TestNoAuth(t *testing.T) {
	auth := &NoAuth{}
	req := &http.Request{Header: make(http.Header)}

	auth.Apply(req, "jwt")

	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}

func TestBearerAuth(t *testing.T) {
	auth := &BearerAuth{}
	req := &http.Request{Header: make(http.Header)}

	auth.Apply(req, "eyJhbGciOiJIUzUxMiJ9.e30.sig")

	expected := "Bearer eyJhbGciOiJIUzUxMiJ9.e30.sig"
	if got := req.Header.Get("Authorization"); got != expected {
		t.Errorf("Expected Authorization header '%s', got '%s'", expected, got)
	}
}

func TestHeaderAuth(t *testing.T) {
	auth := &HeaderAuth{Header: "X-Catalog-Token"}
	req := &http.Request{Header: make(http.Header)}

	auth.Apply(req, "secret")

	if got := req.Header.Get("X-Catalog-Token"); got != "secret" {
		t.Errorf("Expected X-Catalog-Token header 'secret', got '%s'", got)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header")
	}
}

func TestQueryAuth(t *testing.T) {
	auth := &QueryAuth{Param: "token"}

	reqURL, _ := url.Parse("https://catalog.example.com/api/catedra/dispositivos?page=2")
	req := &http.Request{URL: reqURL, Header: make(http.Header)}

	auth.Apply(req, "secret")

	query := req.URL.Query()
	if query.Get("token") != "secret" {
		t.Errorf("Expected query param 'token=secret', got '%s'", req.URL.RawQuery)
	}
	if query.Get("page") != "2" {
		t.Errorf("Expected existing query param to be kept, got '%s'", req.URL.RawQuery)
	}

	// no URL is a no-op
	(&QueryAuth{Param: "token"}).Apply(&http.Request{Header: make(http.Header)}, "secret")
}
