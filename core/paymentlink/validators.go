package paymentlink

import (
	"github.com/go-playground/validator/v10"

	"github.com/manishreddyt/easy-collections/core"
)

// NewLink contains information needed to create a new Link.
type NewLink struct {
	Title           string  `json:"title" validate:"required"`
	Description     string  `json:"description"`
	Amount          float64 `json:"amount" validate:"positive"`
	ExpiryDate      string  `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	PartialPayments bool    `json:"partial_payments"`
	CustomerName    string  `json:"customer_name"`
	CustomerEmail   string  `json:"customer_email" validate:"omitempty,email_addr"`
	CustomerPhone   string  `json:"customer_phone" validate:"omitempty,phone10"`
	Notes           string  `json:"notes"`
}

func (nl *NewLink) Validate(validate *validator.Validate) error {
	nl.Title = core.CleanString(nl.Title)
	nl.Description = core.CleanString(nl.Description)
	nl.ExpiryDate = core.CleanString(nl.ExpiryDate)
	nl.CustomerName = core.CleanString(nl.CustomerName)
	nl.CustomerEmail = core.CleanString(nl.CustomerEmail)
	nl.CustomerPhone = core.CleanString(nl.CustomerPhone)
	nl.Notes = core.CleanString(nl.Notes)
	return validate.Struct(nl)
}

func (p *Patch) Validate(validate *validator.Validate) error {
	for _, s := range []*string{p.Title, p.Description, p.ExpiryDate, p.Notes} {
		if s != nil {
			*s = core.CleanString(*s)
		}
	}
	return validate.Struct(p)
}
