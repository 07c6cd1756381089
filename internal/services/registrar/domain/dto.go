package domain

import "time"

// AvailableInput asks whether a name can be registered
type AvailableInput struct {
	Name string `json:"name" validate:"required"`
}

// AvailableOutput reports availability for the normalized name
type AvailableOutput struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// RentPriceInput prices a rental
type RentPriceInput struct {
	Name     string `json:"name"     validate:"required"`
	Duration int64  `json:"duration" validate:"required,gt=0"`
}

// RentPriceOutput carries the price in base units as a decimal string
type RentPriceOutput struct {
	Name     string `json:"name"`
	Duration int64  `json:"duration"`
	Price    string `json:"price"`
}

// CommitmentInput carries the full reveal a client wants to pre-image
type CommitmentInput struct {
	Name          string   `json:"name"           validate:"required"`
	Owner         string   `json:"owner"          validate:"required"`
	Duration      int64    `json:"duration"       validate:"required,gt=0"`
	Secret        string   `json:"secret"         validate:"required,hexhash"`
	Resolver      string   `json:"resolver"`
	Records       []string `json:"records"`
	ReverseRecord bool     `json:"reverse_record"`
}

// CommitmentOutput returns the hex digest for the reveal
type CommitmentOutput struct {
	Commitment string `json:"commitment"`
}

// CommitInput submits a blinded commitment digest
type CommitInput struct {
	Commitment string `json:"commitment" validate:"required,hexhash"`
}

// CommitOutput acknowledges the stored commitment
type CommitOutput struct {
	Commitment  string    `json:"commitment"`
	CommittedAt time.Time `json:"committed_at"`
}

// RegisterInput reveals a prior commitment and pays for the registration
type RegisterInput struct {
	Name          string   `json:"name"           validate:"required"`
	Owner         string   `json:"owner"          validate:"required"`
	Duration      int64    `json:"duration"       validate:"required,gt=0"`
	Secret        string   `json:"secret"         validate:"required,hexhash"`
	Resolver      string   `json:"resolver"`
	Records       []string `json:"records"`
	ReverseRecord bool     `json:"reverse_record"`
	Payment       string   `json:"payment"        validate:"required,baseunits"`
}

// RegisterOutput reports the new registration and the funds math
type RegisterOutput struct {
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	ExpiresAt time.Time `json:"expires_at"`
	Cost      string    `json:"cost"`
	Refund    string    `json:"refund"`
	Warnings  []string  `json:"warnings,omitempty"`
}

// RenewInput extends an existing registration
type RenewInput struct {
	Name     string `json:"name"     validate:"required"`
	Duration int64  `json:"duration" validate:"required,gt=0"`
	Payment  string `json:"payment"  validate:"required,baseunits"`
}

// RenewOutput reports the extended expiry and the funds math
type RenewOutput struct {
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
	Cost      string    `json:"cost"`
	Refund    string    `json:"refund"`
	Warnings  []string  `json:"warnings,omitempty"`
}

// WithdrawOutput reports the amount moved to the service owner
type WithdrawOutput struct {
	Amount string `json:"amount"`
}

// SetRatesInput replaces the whole per-length rate table
// index 0 is the per-second rate for 1-character labels
type SetRatesInput struct {
	Rates []string `json:"rates" validate:"required,min=1,dive,baseunits"`
}

// SetBaseURIInput updates the metadata base URI
type SetBaseURIInput struct {
	BaseURI string `json:"base_uri" validate:"required"`
}

// ReclaimInput reassigns ownership without touching expiry
type ReclaimInput struct {
	Name  string `json:"name"  validate:"required"`
	Owner string `json:"owner" validate:"required"`
}

// ReclaimOutput confirms the reassignment
type ReclaimOutput struct {
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	ExpiresAt time.Time `json:"expires_at"`
}
