// Package api composes the HTTP API for the registrar
package api

import (
	"monreg/internal/platform/config"
	"monreg/internal/platform/logger"
	phttp "monreg/internal/platform/net/http"
	"monreg/internal/platform/store"

	"monreg/internal/modkit"
	"monreg/internal/modkit/httpkit"
	"monreg/internal/modkit/module"

	registrarmod "monreg/internal/services/registrar/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Log: opt.Store.Log,
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	mods := []module.Module{
		registrarmod.New(deps),
	}

	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		phttp.MountSwagger(r, opt.EnableSwagger)

		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}
