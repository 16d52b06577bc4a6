package catalog_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"KeeperStore/internal/catalog"
)

func newTS(t *testing.T) *httptest.Server {
	t.Helper()

	s := &catalog.Server{Store: catalog.NewMemStore(), Log: zap.NewNop()}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	})

	return httptest.NewServer(h)
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func listProducts(t *testing.T, ts *httptest.Server, query string) catalog.ProductsResponse {
	t.Helper()

	resp, raw := get(t, ts.URL+"/products"+query)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status=%d body=%s", resp.StatusCode, string(raw))
	}

	var pr catalog.ProductsResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		t.Fatalf("decode products: %v body=%s", err, string(raw))
	}
	return pr
}

func TestCatalogHTTP_ListExcludesInactive(t *testing.T) {
	ts := newTS(t)
	t.Cleanup(ts.Close)

	pr := listProducts(t, ts, "")
	if pr.Total != 3 {
		t.Fatalf("total=%d", pr.Total)
	}
	for _, p := range pr.Products {
		if !p.Active {
			t.Fatalf("inactive product %s in listing", p.ID)
		}
	}
}

func TestCatalogHTTP_FilterByTagAndPrice(t *testing.T) {
	ts := newTS(t)
	t.Cleanup(ts.Close)

	pr := listProducts(t, ts, "?tag=pro")
	if pr.Total != 2 {
		t.Fatalf("total=%d", pr.Total)
	}

	pr = listProducts(t, ts, "?tag=pro&max_price=60")
	if pr.Total != 1 || pr.Products[0].ID != "g3" {
		t.Fatalf("products=%+v", pr.Products)
	}

	pr = listProducts(t, ts, "?min_price=29.90&max_price=29.90")
	if pr.Total != 1 || pr.Products[0].ID != "g2" {
		t.Fatalf("products=%+v", pr.Products)
	}
}

func TestCatalogHTTP_Pagination(t *testing.T) {
	ts := newTS(t)
	t.Cleanup(ts.Close)

	pr := listProducts(t, ts, "?size=2&page=1")
	if len(pr.Products) != 2 || pr.Pages != 2 {
		t.Fatalf("page1=%+v pages=%d", ids(pr.Products), pr.Pages)
	}

	pr = listProducts(t, ts, "?size=2&page=2")
	if len(pr.Products) != 1 {
		t.Fatalf("page2=%+v", ids(pr.Products))
	}

	// Past the end is an empty page, not an error.
	pr = listProducts(t, ts, "?size=2&page=9")
	if len(pr.Products) != 0 || pr.Pages != 2 {
		t.Fatalf("page9=%+v pages=%d", ids(pr.Products), pr.Pages)
	}
}

func TestCatalogHTTP_BadQueryIs400(t *testing.T) {
	ts := newTS(t)
	t.Cleanup(ts.Close)

	for _, q := range []string{"?page=0", "?page=x", "?size=0", "?size=1000", "?min_price=abc"} {
		resp, raw := get(t, ts.URL+"/products"+q)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("query %q status=%d body=%s", q, resp.StatusCode, string(raw))
		}
	}
}

func TestCatalogHTTP_Facets(t *testing.T) {
	ts := newTS(t)
	t.Cleanup(ts.Close)

	resp, raw := get(t, ts.URL+"/products/facets")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("facets status=%d body=%s", resp.StatusCode, string(raw))
	}

	var f catalog.Facets
	if err := json.Unmarshal(raw, &f); err != nil {
		t.Fatalf("decode facets: %v body=%s", err, string(raw))
	}
	if f.MinPrice.String() != "29.9" || f.MaxPrice.String() != "79.9" {
		t.Fatalf("price range [%s, %s]", f.MinPrice, f.MaxPrice)
	}
	if len(f.Sizes) == 0 || f.Sizes[0] != "6" {
		t.Fatalf("sizes=%v", f.Sizes)
	}
}

func TestCatalogHTTP_GetProduct(t *testing.T) {
	ts := newTS(t)
	t.Cleanup(ts.Close)

	resp, raw := get(t, ts.URL+"/products/g1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status=%d body=%s", resp.StatusCode, string(raw))
	}

	var p catalog.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("decode product: %v body=%s", err, string(raw))
	}
	if p.Name != "Pro Grip Elite" || p.Price.String() != "79.9" {
		t.Fatalf("product=%+v", p)
	}

	resp, _ = get(t, ts.URL+"/products/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing product status=%d", resp.StatusCode)
	}
}

func ids(products []catalog.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
