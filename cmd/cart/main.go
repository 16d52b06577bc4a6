package main

import (
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"KeeperStore/internal/cart"
	"KeeperStore/pkg/kit"
)

func main() {
	service := "cart"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8084")
	catalogURL := getenv("CATALOG_URL", "http://catalog:8082")

	var persist cart.Persister = cart.NewMemPersister()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		persist = cart.NewRedisPersister(rdb, 30*24*time.Hour)
	}

	s := &cart.Server{
		Carts:   cart.NewService(persist, log),
		Catalog: cart.NewCatalogClient(catalogURL),
		Log:     log,
	}

	reg := prometheus.NewRegistry()
	h := cart.NewHandler(s, cart.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
