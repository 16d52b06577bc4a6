package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"KeeperStore/internal/auth"
	"KeeperStore/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Deps struct {
	AuthURL    string
	CatalogURL string
	CartURL    string
	CampusURL  string
	JWTSecret  string
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond
)

var readyClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	},
}

func NewHandler(deps Deps, httpDeps HTTPDeps) (http.Handler, error) {
	proxies, err := buildProxies(deps, httpDeps.Log)
	if err != nil {
		return nil, err
	}

	jwt := auth.NewTokenMaker(deps.JWTSecret)

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	r.Handle("/auth", proxies.auth)
	r.Handle("/auth/*", proxies.auth)

	r.Handle("/products", proxies.catalog)
	r.Handle("/products/*", proxies.catalog)

	r.Handle("/campus", proxies.campus)
	r.Handle("/campus/*", proxies.campus)

	r.Group(func(pr chi.Router) {
		pr.Use(AuthJWT(jwt))
		pr.Handle("/cart", InjectHeaders(proxies.cart))
		pr.Handle("/cart/*", InjectHeaders(proxies.cart))
	})

	return r, nil
}

type proxySet struct {
	auth    http.Handler
	catalog http.Handler
	cart    http.Handler
	campus  http.Handler
}

func buildProxies(deps Deps, log *zap.Logger) (proxySet, error) {
	var (
		ps  proxySet
		err error
	)

	if ps.auth, err = NewReverseProxy(deps.AuthURL, log); err != nil {
		return proxySet{}, err
	}
	if ps.catalog, err = NewReverseProxy(deps.CatalogURL, log); err != nil {
		return proxySet{}, err
	}
	if ps.cart, err = NewReverseProxy(deps.CartURL, log); err != nil {
		return proxySet{}, err
	}
	if ps.campus, err = NewReverseProxy(deps.CampusURL, log); err != nil {
		return proxySet{}, err
	}

	return ps, nil
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	upstreams := []struct {
		name string
		url  string
	}{
		{"auth", deps.AuthURL},
		{"catalog", deps.CatalogURL},
		{"cart", deps.CartURL},
		{"campus", deps.CampusURL},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for _, up := range upstreams {
			if err := checkReady(ctx, up.url+"/readyz"); err != nil {
				if log != nil {
					log.Warn("readyz failed: "+up.name, zap.Error(err))
				}
				kit.WriteError(w, r, http.StatusServiceUnavailable, up.name+" not ready", nil)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
	}
}

func checkReady(ctx context.Context, url string) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := readyClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status=%d", resp.StatusCode)
	}

	return nil
}
