package util

import (
	"net/http"
	"testing"
)

func TestNewProxyFunc_ExplicitProxy(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.internal:3128", "", "")

	req, _ := http.NewRequest(http.MethodGet, "http://example.com/doc", nil)
	u, err := proxy(req)
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	if u == nil || u.Host != "proxy.internal:3128" {
		t.Errorf("proxy = %v, want proxy.internal:3128", u)
	}
}

func TestNewProxyFunc_NoProxyExclusion(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.internal:3128", "", "example.com")

	req, _ := http.NewRequest(http.MethodGet, "http://example.com/doc", nil)
	u, err := proxy(req)
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	if u != nil {
		t.Errorf("excluded host routed through proxy %v", u)
	}

	req2, _ := http.NewRequest(http.MethodGet, "http://other.com/doc", nil)
	u2, err := proxy(req2)
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	if u2 == nil {
		t.Error("non-excluded host should use the proxy")
	}
}

func TestNewProxyFunc_HTTPSProxy(t *testing.T) {
	proxy := NewProxyFunc("http://plain.internal:3128", "http://secure.internal:3128", "")

	req, _ := http.NewRequest(http.MethodGet, "https://example.com/doc", nil)
	u, err := proxy(req)
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	if u == nil || u.Host != "secure.internal:3128" {
		t.Errorf("https proxy = %v, want secure.internal:3128", u)
	}
}
