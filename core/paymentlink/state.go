package paymentlink

import (
	"github.com/volatiletech/null/v8"
)

type ActionType string

// Action tags
const (
	ActionAddLink      ActionType = "ADD_LINK"
	ActionUpdateLink   ActionType = "UPDATE_LINK"
	ActionToggleStatus ActionType = "TOGGLE_STATUS"
)

// Action is a change to the link list handled by Reduce.
type Action interface {
	Type() ActionType
}

type (
	// AddLink puts a link at the top of the list.
	AddLink struct{ Link Link }

	UpdateLink struct {
		ID      string
		Updates Patch
	}

	ToggleStatus struct {
		ID     string
		Status string
	}
)

func (AddLink) Type() ActionType      { return ActionAddLink }
func (UpdateLink) Type() ActionType   { return ActionUpdateLink }
func (ToggleStatus) Type() ActionType { return ActionToggleStatus }

// Patch holds the Link fields to update; nil fields are left untouched.
// An empty ExpiryDate clears it.
type Patch struct {
	Title           *string  `json:"title" validate:"omitnil,min=1"`
	Description     *string  `json:"description"`
	Amount          *float64 `json:"amount" validate:"omitnil,positive"`
	ExpiryDate      *string  `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	PartialPayments *bool    `json:"partial_payments"`
	Views           *int     `json:"views" validate:"omitnil,gte=0"`
	Paid            *int     `json:"paid" validate:"omitnil,gte=0"`
	Notes           *string  `json:"notes"`
}

func (p Patch) apply(l Link) Link {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Amount != nil {
		l.Amount = *p.Amount
	}
	if p.ExpiryDate != nil {
		l.ExpiryDate = null.NewString(*p.ExpiryDate, *p.ExpiryDate != "")
	}
	if p.PartialPayments != nil {
		l.PartialPayments = *p.PartialPayments
	}
	if p.Views != nil {
		l.Views = *p.Views
	}
	if p.Paid != nil {
		l.Paid = *p.Paid
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
	return l
}

// Reduce returns the links resulting from applying action; links is never mutated.
func Reduce(links []Link, action Action) []Link {
	switch a := action.(type) {
	case AddLink:
		out := make([]Link, 0, len(links)+1)
		out = append(out, a.Link)
		return append(out, links...)
	case UpdateLink:
		return update(links, a.ID, a.Updates.apply)
	case ToggleStatus:
		return update(links, a.ID, func(l Link) Link {
			l.Status = a.Status
			return l
		})
	}
	return links
}

func update(links []Link, id string, fn func(Link) Link) []Link {
	out := make([]Link, len(links))
	for i, l := range links {
		if l.ID == id {
			l = fn(l)
		}
		out[i] = l
	}
	return out
}
