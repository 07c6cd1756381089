// @title         Monreg API
// @version       0.1.0
// @description   Commit-reveal name registration for the mon registry

package main

import (
	"context"

	"monreg/internal/modkit/repokit"
	"monreg/internal/platform/config"
	"monreg/internal/platform/logger"
	phttp "monreg/internal/platform/net/http"
	"monreg/internal/platform/store"

	"monreg/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (REGISTRAR_API_*)
	root := config.New()
	apiCfg := root.Prefix("REGISTRAR_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	// the memory ledger needs no postgres, so PG is optional here
	pgURL := pgCfg.MayString("DBURL", "")
	chURL := chCfg.MayString("DBURL", "")

	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "monreg",
			PG: store.PGConfig{
				Enabled:     pgURL != "",
				URL:         pgURL,
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			CH: store.CHConfig{
				Enabled: chURL != "",
				URL:     chURL,
				Role:    "api",
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	repokit.MustGuard(context.Background(), st)
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads REGISTRAR_API_PORT / REGISTRAR_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:        root,
			Store:         st,
			Logger:        l,
			EnableSwagger: apiCfg.MayBool("SWAGGER", true),
		},
	)

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
