package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"KeeperStore/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Carts   *Service
	Catalog *CatalogClient
	Log     *zap.Logger
}

type itemReq struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type removeReq struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
}

type CartResponse struct {
	Items       []LineItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalItems  int             `json:"total_items"`
}

type SummaryResponse struct {
	Items     []LineItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Carts.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(RequireUserHeaders)
		pr.Get("/cart", s.get)
		pr.Get("/cart/summary", s.summary)
		pr.Post("/cart/items", s.addItem)
		pr.Put("/cart/items", s.updateItem)
		pr.Delete("/cart/items", s.removeItem)
		pr.Delete("/cart", s.clear)
		pr.Post("/cart/sync", s.sync)
	})

	return r
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	c := s.Carts.Load(r.Context(), u.ID)
	kit.WriteJSON(w, http.StatusOK, cartResponse(c))
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	c := s.Carts.Load(r.Context(), u.ID)
	kit.WriteJSON(w, http.StatusOK, SummaryResponse{
		Items:     c.Items,
		Subtotal:  c.Subtotal(),
		Shipping:  c.ShippingCost(),
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
	})
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	var req itemReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	item, err := s.resolveItem(r.Context(), req)
	if err != nil {
		s.writeItemError(w, r, err)
		return
	}

	c, err := s.Carts.Add(r.Context(), u.ID, item)
	if err != nil {
		s.writeItemError(w, r, err)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, cartResponse(c))
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	var req itemReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "product_id required", nil)
		return
	}

	c := s.Carts.SetQuantity(r.Context(), u.ID, ItemKey{ProductID: req.ProductID, Size: req.Size}, req.Quantity)
	kit.WriteJSON(w, http.StatusOK, cartResponse(c))
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	q := r.URL.Query()
	pid := q.Get("product_id")
	if pid == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "product_id required", nil)
		return
	}

	c := s.Carts.Remove(r.Context(), u.ID, ItemKey{ProductID: pid, Size: q.Get("size")})
	kit.WriteJSON(w, http.StatusOK, cartResponse(c))
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	if err := s.Carts.Clear(r.Context(), u.ID); err != nil {
		if s.Log != nil {
			s.Log.Error("clear cart failed", zap.Error(err), zap.String("owner", u.ID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sync replaces the server-held cart with the items a client accumulated
// locally before signing in. Every item is re-resolved against the catalog
// so stale client prices never survive the merge.
func (s *Server) sync(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	var reqs []itemReq
	if err := decodeJSON(w, r, &reqs); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	items := make([]LineItem, 0, len(reqs))
	for _, req := range reqs {
		item, err := s.resolveItem(r.Context(), req)
		if err != nil {
			s.writeItemError(w, r, err)
			return
		}
		items = append(items, item)
	}

	c, err := s.Carts.Replace(r.Context(), u.ID, items)
	if err != nil {
		s.writeItemError(w, r, err)
		return
	}

	kit.WriteJSON(w, http.StatusOK, cartResponse(c))
}

var (
	errBadItem         = errors.New("bad item")
	errInvalidProduct  = errors.New("invalid product_id")
	errInactiveProduct = errors.New("product not available")
	errBadSize         = errors.New("size not offered")
	errCatalogDown     = errors.New("catalog unavailable")
	errCatalogUpstream = errors.New("catalog error")
)

// resolveItem validates the request against the catalog and snapshots the
// product's price and display fields into a line item.
func (s *Server) resolveItem(ctx context.Context, req itemReq) (LineItem, error) {
	pid := strings.TrimSpace(req.ProductID)
	if pid == "" || req.Quantity <= 0 {
		return LineItem{}, errBadItem
	}

	p, err := s.Catalog.GetProduct(ctx, pid)
	if err != nil {
		switch {
		case errors.Is(err, ErrCatalogNotFound):
			return LineItem{}, errInvalidProduct
		case errors.Is(err, ErrCatalogUnavailable):
			return LineItem{}, errCatalogDown
		default:
			if s.Log != nil {
				s.Log.Warn("catalog error", zap.Error(err), zap.String("product_id", pid))
			}
			return LineItem{}, errCatalogUpstream
		}
	}

	if !p.Active {
		return LineItem{}, errInactiveProduct
	}
	if req.Size != "" && !p.OffersSize(req.Size) {
		return LineItem{}, errBadSize
	}

	return LineItem{
		ProductID:   p.ID,
		Size:        req.Size,
		Quantity:    req.Quantity,
		UnitPrice:   p.Price,
		Name:        p.Name,
		Image:       p.Image,
		Description: p.Description,
		Tag:         p.Tag,
	}, nil
}

func (s *Server) writeItemError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadItem), errors.Is(err, ErrNonPositiveQuantity):
		kit.WriteError(w, r, http.StatusBadRequest, "bad item", nil)
	case errors.Is(err, errInvalidProduct):
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product_id", nil)
	case errors.Is(err, errInactiveProduct):
		kit.WriteError(w, r, http.StatusBadRequest, "product not available", nil)
	case errors.Is(err, errBadSize):
		kit.WriteError(w, r, http.StatusBadRequest, "size not offered", nil)
	case errors.Is(err, errCatalogDown):
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
	case errors.Is(err, errCatalogUpstream):
		kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
	default:
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func cartResponse(c Cart) CartResponse {
	return CartResponse{
		Items:       c.Items,
		TotalAmount: c.Subtotal(),
		TotalItems:  c.ItemCount(),
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json value")
	}
	return nil
}
