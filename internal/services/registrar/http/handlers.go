// Package http provides http transport for the registrar
package http

import (
	stdhttp "net/http"

	"monreg/internal/modkit/httpkit"
	"monreg/internal/services/registrar/domain"
)

// Register mounts the public protocol routes under /names
func Register(r httpkit.Router, svc domain.RegistrarPort) {
	h := &handlers{svc: svc}
	r.Route("/names", func(nr httpkit.Router) {
		httpkit.PostJSON[domain.AvailableInput](nr, "/available", h.available)
		httpkit.PostJSON[domain.RentPriceInput](nr, "/rent-price", h.rentPrice)
		httpkit.PostJSON[domain.CommitmentInput](nr, "/commitment", h.makeCommitment)
		httpkit.PostJSON[domain.CommitInput](nr, "/commit", h.commit)
		httpkit.PostJSON[domain.RegisterInput](nr, "/register", h.register)
		httpkit.PostJSON[domain.RenewInput](nr, "/renew", h.renew)
	})
}

// RegisterAdmin mounts the owner-only routes under /admin
func RegisterAdmin(r httpkit.Router, svc domain.AdminPort) {
	h := &adminHandlers{svc: svc}
	r.Route("/admin", func(ar httpkit.Router) {
		httpkit.Post(ar, "/withdraw", h.withdraw)
		httpkit.PostJSON[domain.SetRatesInput](ar, "/rates", h.setRates)
		httpkit.PostJSON[domain.SetBaseURIInput](ar, "/base-uri", h.setBaseURI)
		httpkit.PostJSON[domain.ReclaimInput](ar, "/reclaim", h.reclaim)
	})
}

type handlers struct{ svc domain.RegistrarPort }

// @Summary Check name availability
// @Tags names
// @Accept json
// @Produce json
// @Param payload body domain.AvailableInput true "Name"
// @Success 200 {object} domain.AvailableOutput "ok"
// @Router /names/available [post]
func (h *handlers) available(r *stdhttp.Request, in domain.AvailableInput) (any, error) {
	return h.svc.Available(r.Context(), in)
}

// @Summary Price a rental
// @Tags names
// @Accept json
// @Produce json
// @Param payload body domain.RentPriceInput true "Name and duration"
// @Success 200 {object} domain.RentPriceOutput "ok"
// @Router /names/rent-price [post]
func (h *handlers) rentPrice(r *stdhttp.Request, in domain.RentPriceInput) (any, error) {
	return h.svc.RentPrice(r.Context(), in)
}

// @Summary Compute a commitment digest from the full reveal
// @Tags names
// @Accept json
// @Produce json
// @Param payload body domain.CommitmentInput true "Reveal"
// @Success 200 {object} domain.CommitmentOutput "ok"
// @Router /names/commitment [post]
func (h *handlers) makeCommitment(r *stdhttp.Request, in domain.CommitmentInput) (any, error) {
	return h.svc.MakeCommitment(r.Context(), in)
}

// @Summary Submit a blinded commitment
// @Tags names
// @Accept json
// @Produce json
// @Param payload body domain.CommitInput true "Commitment digest"
// @Success 200 {object} domain.CommitOutput "ok"
// @Failure 409 {object} httpkit.Envelope "already pending"
// @Router /names/commit [post]
func (h *handlers) commit(r *stdhttp.Request, in domain.CommitInput) (any, error) {
	return h.svc.Commit(r.Context(), in)
}

// @Summary Reveal a commitment and register the name
// @Tags names
// @Accept json
// @Produce json
// @Param payload body domain.RegisterInput true "Reveal and payment"
// @Success 200 {object} domain.RegisterOutput "ok"
// @Failure 402 {object} httpkit.Envelope "insufficient payment"
// @Failure 404 {object} httpkit.Envelope "commitment not found"
// @Failure 409 {object} httpkit.Envelope "not available"
// @Failure 410 {object} httpkit.Envelope "commitment too old"
// @Failure 425 {object} httpkit.Envelope "commitment too new"
// @Router /names/register [post]
func (h *handlers) register(r *stdhttp.Request, in domain.RegisterInput) (any, error) {
	return h.svc.Register(r.Context(), in)
}

// @Summary Renew an existing registration
// @Tags names
// @Accept json
// @Produce json
// @Param payload body domain.RenewInput true "Name, duration, payment"
// @Success 200 {object} domain.RenewOutput "ok"
// @Failure 402 {object} httpkit.Envelope "insufficient payment"
// @Failure 404 {object} httpkit.Envelope "not registered"
// @Router /names/renew [post]
func (h *handlers) renew(r *stdhttp.Request, in domain.RenewInput) (any, error) {
	return h.svc.Renew(r.Context(), in)
}

type adminHandlers struct{ svc domain.AdminPort }

// @Summary Withdraw the accumulated funds balance
// @Tags admin
// @Produce json
// @Success 200 {object} domain.WithdrawOutput "ok"
// @Failure 401 {object} httpkit.Envelope "unauthorized"
// @Router /admin/withdraw [post]
func (h *adminHandlers) withdraw(r *stdhttp.Request) (any, error) {
	return h.svc.Withdraw(r.Context())
}

// @Summary Replace the per-length rate table
// @Tags admin
// @Accept json
// @Produce json
// @Param payload body domain.SetRatesInput true "Rates"
// @Success 200 {object} httpkit.Envelope "ok"
// @Failure 401 {object} httpkit.Envelope "unauthorized"
// @Router /admin/rates [post]
func (h *adminHandlers) setRates(r *stdhttp.Request, in domain.SetRatesInput) (any, error) {
	if err := h.svc.SetRates(r.Context(), in); err != nil {
		return nil, err
	}
	return map[string]any{"updated": true}, nil
}

// @Summary Update the metadata base URI
// @Tags admin
// @Accept json
// @Produce json
// @Param payload body domain.SetBaseURIInput true "Base URI"
// @Success 200 {object} httpkit.Envelope "ok"
// @Failure 401 {object} httpkit.Envelope "unauthorized"
// @Router /admin/base-uri [post]
func (h *adminHandlers) setBaseURI(r *stdhttp.Request, in domain.SetBaseURIInput) (any, error) {
	if err := h.svc.SetBaseURI(r.Context(), in); err != nil {
		return nil, err
	}
	return map[string]any{"updated": true}, nil
}

// @Summary Reassign ownership of a live registration
// @Tags admin
// @Accept json
// @Produce json
// @Param payload body domain.ReclaimInput true "Name and new owner"
// @Success 200 {object} domain.ReclaimOutput "ok"
// @Failure 401 {object} httpkit.Envelope "unauthorized"
// @Router /admin/reclaim [post]
func (h *adminHandlers) reclaim(r *stdhttp.Request, in domain.ReclaimInput) (any, error) {
	return h.svc.Reclaim(r.Context(), in)
}
