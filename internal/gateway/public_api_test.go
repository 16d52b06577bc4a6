package gateway_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"KeeperStore/internal/auth"
	"KeeperStore/internal/campus"
	"KeeperStore/internal/cart"
	"KeeperStore/internal/catalog"
	"KeeperStore/internal/gateway"
)

func newAuthTS(t *testing.T, jwtSecret string) *httptest.Server {
	t.Helper()

	s := &auth.Server{
		Log:   zap.NewNop(),
		Store: auth.NewMemStore(),
		JWT:   auth.NewTokenMaker(jwtSecret),
	}

	h := auth.NewHandler(s, auth.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "auth",
	})

	return httptest.NewServer(h)
}

func newCatalogTS(t *testing.T) *httptest.Server {
	t.Helper()

	s := &catalog.Server{Store: catalog.NewMemStore(), Log: zap.NewNop()}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	})

	return httptest.NewServer(h)
}

func newCartTS(t *testing.T, catalogURL string) *httptest.Server {
	t.Helper()

	s := &cart.Server{
		Carts:   cart.NewService(cart.NewMemPersister(), zap.NewNop()),
		Catalog: cart.NewCatalogClient(catalogURL),
		Log:     zap.NewNop(),
	}

	h := cart.NewHandler(s, cart.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "cart",
	})

	return httptest.NewServer(h)
}

func newCampusTS(t *testing.T) *httptest.Server {
	t.Helper()

	s := &campus.Server{Store: campus.NewMemStore(), Log: zap.NewNop()}

	h := campus.NewHandler(s, campus.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "campus",
	})

	return httptest.NewServer(h)
}

func newGatewayTS(t *testing.T, jwtSecret, authURL, catalogURL, cartURL, campusURL string) *httptest.Server {
	t.Helper()

	h, err := gateway.NewHandler(
		gateway.Deps{
			JWTSecret:  jwtSecret,
			AuthURL:    authURL,
			CatalogURL: catalogURL,
			CartURL:    cartURL,
			CampusURL:  campusURL,
		},
		gateway.HTTPDeps{
			Log:     zap.NewNop(),
			Service: "gateway",
			// Registry: nil
		},
	)
	if err != nil {
		t.Fatalf("gateway.NewHandler: %v", err)
	}

	return httptest.NewServer(h)
}

type stack struct {
	gw *httptest.Server
}

func newStack(t *testing.T) stack {
	t.Helper()

	const jwtSecret = "test-secret"

	authTS := newAuthTS(t, jwtSecret)
	t.Cleanup(authTS.Close)

	catalogTS := newCatalogTS(t)
	t.Cleanup(catalogTS.Close)

	cartTS := newCartTS(t, catalogTS.URL)
	t.Cleanup(cartTS.Close)

	campusTS := newCampusTS(t)
	t.Cleanup(campusTS.Close)

	gwTS := newGatewayTS(t, jwtSecret, authTS.URL, catalogTS.URL, cartTS.URL, campusTS.URL)
	t.Cleanup(gwTS.Close)

	return stack{gw: gwTS}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func TestGateway_PublicAPI_HappyPath(t *testing.T) {
	st := newStack(t)
	c := &http.Client{}

	{
		resp, raw := doJSON(t, c, http.MethodPost, st.gw.URL+"/auth/register", map[string]any{
			"email":      "keeper@example.com",
			"password":   "password123",
			"first_name": "Iker",
		}, nil)

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("register status=%d body=%s", resp.StatusCode, string(raw))
		}
	}

	var accessToken string
	{
		resp, raw := doJSON(t, c, http.MethodPost, st.gw.URL+"/auth/login", map[string]any{
			"email":    "keeper@example.com",
			"password": "password123",
		}, nil)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("login status=%d body=%s", resp.StatusCode, string(raw))
		}

		var lr struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(raw, &lr); err != nil {
			t.Fatalf("decode login: %v body=%s", err, string(raw))
		}
		if lr.AccessToken == "" {
			t.Fatalf("empty access_token")
		}
		accessToken = lr.AccessToken
	}

	{
		resp, raw := doJSON(t, c, http.MethodGet, st.gw.URL+"/products?tag=pro", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("products status=%d body=%s", resp.StatusCode, string(raw))
		}

		var pr catalog.ProductsResponse
		if err := json.Unmarshal(raw, &pr); err != nil {
			t.Fatalf("decode products: %v body=%s", err, string(raw))
		}
		if pr.Total != 2 {
			t.Fatalf("total=%d", pr.Total)
		}
	}

	bearer := map[string]string{"Authorization": "Bearer " + accessToken}

	{
		resp, raw := doJSON(t, c, http.MethodPost, st.gw.URL+"/cart/items", map[string]any{
			"product_id": "g1",
			"size":       "9",
			"quantity":   2,
		}, bearer)

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add to cart status=%d body=%s", resp.StatusCode, string(raw))
		}

		var cr cart.CartResponse
		if err := json.Unmarshal(raw, &cr); err != nil {
			t.Fatalf("decode cart: %v body=%s", err, string(raw))
		}
		if cr.TotalItems != 2 {
			t.Fatalf("total_items=%d", cr.TotalItems)
		}
		if got := cr.TotalAmount.String(); got != "159.8" {
			t.Fatalf("total_amount=%s", got)
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodGet, st.gw.URL+"/cart", nil, bearer)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get cart status=%d body=%s", resp.StatusCode, string(raw))
		}

		var cr cart.CartResponse
		if err := json.Unmarshal(raw, &cr); err != nil {
			t.Fatalf("decode cart: %v", err)
		}
		if len(cr.Items) != 1 || cr.Items[0].ProductID != "g1" {
			t.Fatalf("items=%+v", cr.Items)
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodPost, st.gw.URL+"/campus/bookings", map[string]any{
			"session_id":        "cs_morning_w1",
			"participant_name":  "Unai Etxeberria",
			"participant_email": "unai@example.com",
			"participant_age":   23,
		}, nil)

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("booking status=%d body=%s", resp.StatusCode, string(raw))
		}
	}
}

func TestGateway_PublicAPI_CartRequiresAuth(t *testing.T) {
	st := newStack(t)
	c := &http.Client{}

	resp, raw := doJSON(t, c, http.MethodGet, st.gw.URL+"/cart", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}

	resp, raw = doJSON(t, c, http.MethodPost, st.gw.URL+"/cart/items", map[string]any{
		"product_id": "g1", "size": "9", "quantity": 1,
	}, map[string]string{"Authorization": "Bearer garbage"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}
}

func TestGateway_PublicAPI_ClientIdentityHeadersAreStripped(t *testing.T) {
	st := newStack(t)
	c := &http.Client{}

	// Spoofed identity headers must not reach the cart service without a
	// valid token.
	resp, raw := doJSON(t, c, http.MethodGet, st.gw.URL+"/cart", nil, map[string]string{
		"X-User-Id":   "u_spoofed",
		"X-User-Role": "admin",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}
}

func TestGateway_PublicAPI_CartsAreIsolatedPerUser(t *testing.T) {
	st := newStack(t)
	c := &http.Client{}

	token := func(email string) string {
		resp, raw := doJSON(t, c, http.MethodPost, st.gw.URL+"/auth/register", map[string]any{
			"email":    email,
			"password": "password123",
		}, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("register status=%d body=%s", resp.StatusCode, string(raw))
		}

		var ar struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(raw, &ar); err != nil {
			t.Fatalf("decode register: %v", err)
		}
		return ar.AccessToken
	}

	alice := token("alice@example.com")
	bob := token("bob@example.com")

	resp, raw := doJSON(t, c, http.MethodPost, st.gw.URL+"/cart/items", map[string]any{
		"product_id": "g2", "size": "7", "quantity": 1,
	}, map[string]string{"Authorization": "Bearer " + alice})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add status=%d body=%s", resp.StatusCode, string(raw))
	}

	resp, raw = doJSON(t, c, http.MethodGet, st.gw.URL+"/cart", nil, map[string]string{
		"Authorization": "Bearer " + bob,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status=%d body=%s", resp.StatusCode, string(raw))
	}

	var cr cart.CartResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if len(cr.Items) != 0 {
		t.Fatalf("bob sees alice's items: %+v", cr.Items)
	}
}
