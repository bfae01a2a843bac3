//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8082")

type product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestSystem_E2E_CatalogPersists(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")
	token := os.Getenv("E2E_EDITOR_TOKEN")

	var before []product
	doJSON(t, http.MethodGet, baseURL+"/products", "", nil, &before, 200)
	if len(before) == 0 {
		t.Fatalf("expected a seeded or persisted catalog")
	}

	name := fmt.Sprintf("e2e_%d_%d", time.Now().Unix(), rand.Intn(100000))

	var created []product
	doJSON(t, http.MethodPost, baseURL+"/products", token, map[string]any{
		"name":  "  " + name + "  ",
		"price": "499",
	}, &created, 201)

	added := created[len(created)-1]
	if added.Name != name || added.Price != 499 {
		t.Fatalf("unexpected product: %#v", added)
	}

	doJSON(t, http.MethodPost, baseURL+"/products", token, map[string]any{
		"name":  name,
		"price": "0",
	}, nil, 400)

	var updated []product
	doJSON(t, http.MethodPut, fmt.Sprintf("%s/products/%d", baseURL, added.ID), token, map[string]any{
		"name":  name + "_v2",
		"price": 999,
	}, &updated, 200)

	if os.Getenv("E2E_RESTART_CATALOG") == "1" {
		restartContainer(t, ctx, "catalog")
		waitReady(t, ctx, baseURL+"/readyz")
	}

	var after []product
	doJSON(t, http.MethodGet, baseURL+"/products", "", nil, &after, 200)
	if !containsName(after, name+"_v2") {
		t.Fatalf("updated product missing after reload: %#v", after)
	}

	var removed []product
	doJSON(t, http.MethodDelete, fmt.Sprintf("%s/products/%d", baseURL, added.ID), token, nil, &removed, 200)
	if containsName(removed, name+"_v2") {
		t.Fatalf("product still present after delete")
	}
}

func containsName(ps []product, name string) bool {
	for _, p := range ps {
		if p.Name == name {
			return true
		}
	}
	return false
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url, token string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
