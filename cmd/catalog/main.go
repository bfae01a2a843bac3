package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"CatalogEditor/internal/catalog"
	"CatalogEditor/internal/config"
	"CatalogEditor/internal/editor"
	"CatalogEditor/internal/kv"
	"CatalogEditor/pkg/kit"
)

const startupTimeout = 10 * time.Second

func main() {
	service := "catalog"

	cfg, err := config.Load()
	if err != nil {
		kit.NewLogger(service, "info").Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	backend, err := kv.Open(ctx, cfg.KVOptions())
	if err != nil {
		log.Fatal("open storage failed", zap.Error(err), zap.String("backend", cfg.Storage.Backend))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store := catalog.NewStore(catalog.Deps{
		Snapshots: catalog.NewKVSnapshotter(backend, cfg.Storage.Key),
		Log:       log,
		Metrics:   catalog.NewMetrics(reg),
	})
	store.Load(ctx)

	var editors *editor.TokenMaker
	if cfg.EditorJWTSecret != "" {
		editors = editor.NewTokenMaker(cfg.EditorJWTSecret)
	} else {
		log.Warn("EDITOR_JWT_SECRET not set, catalog writes are unauthenticated")
	}

	h := catalog.NewHandler(&catalog.Server{Store: store, Log: log}, catalog.HTTPDeps{
		Log:              log,
		Service:          service,
		Registry:         reg,
		MetricsEnabled:   cfg.MetricsEnabled,
		MetricsToken:     cfg.MetricsToken,
		Editors:          editors,
		WriteLimitPerMin: cfg.WriteLimitPerMin,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log, backend.Close); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
