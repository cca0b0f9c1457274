package paymentlink

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/manishreddyt/easy-collections/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("payment link")
)

type (
	// Repository stores the payment links; Dispatch applies all actions atomically.
	Repository interface {
		Links(ctx context.Context) ([]Link, error)
		Dispatch(ctx context.Context, actions ...Action) ([]Link, error)
	}

	Service struct {
		repo       Repository
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(validate, "validate"),
		vala.IsNotNil(translator, "translator"),
	).CheckAndPanic()

	return &Service{repo: repo, validate: validate, translator: translator}
}

func (svc *Service) links(ctx context.Context) ([]Link, error) {
	links, err := svc.repo.Links(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading payment links")
	}
	return links, nil
}

func (svc *Service) dispatch(ctx context.Context, actions ...Action) ([]Link, error) {
	links, err := svc.repo.Dispatch(ctx, actions...)
	if err != nil {
		return nil, errors.Wrap(err, "dispatching payment link actions")
	}
	return links, nil
}

func (svc *Service) translate(err error) error {
	return core.TranslateValidationErrors(err, svc.translator, map[string]string{"title": "Title"})
}

func (svc *Service) Query(ctx context.Context, filter Filter) ([]Link, error) {
	links, err := svc.links(ctx)
	if err != nil {
		return nil, err
	}
	filter.Clean()
	return FilterLinks(links, filter), nil
}

func (svc *Service) Counts(ctx context.Context) (Counts, error) {
	links, err := svc.links(ctx)
	if err != nil {
		return Counts{}, err
	}
	return CountLinks(links), nil
}

func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	links, err := svc.links(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(links), nil
}

func (svc *Service) Get(ctx context.Context, id string) (Link, error) {
	links, err := svc.links(ctx)
	if err != nil {
		return Link{}, err
	}
	if l, ok := find(links, id); ok {
		return l, nil
	}
	return Link{}, ErrNotFound
}

// Create adds an active link; its short URL is derived from the title.
func (svc *Service) Create(ctx context.Context, nl NewLink) (Link, error) {
	if err := nl.Validate(svc.validate); err != nil {
		return Link{}, svc.translate(err)
	}
	link := Link{
		ID:              core.GenerateID("plink", idLength),
		Title:           nl.Title,
		Description:     nl.Description,
		Amount:          core.Round2(nl.Amount),
		Status:          StatusActive,
		Created:         core.NowFunc().Format(core.DisplayDateLayout),
		ShortURL:        ShortURL(nl.Title),
		ExpiryDate:      null.NewString(nl.ExpiryDate, nl.ExpiryDate != ""),
		PartialPayments: nl.PartialPayments,
		Customer: Customer{
			Name:  nl.CustomerName,
			Email: nl.CustomerEmail,
			Phone: nl.CustomerPhone,
		},
		Notes: nl.Notes,
	}
	if _, err := svc.dispatch(ctx, AddLink{Link: link}); err != nil {
		return Link{}, err
	}
	return link, nil
}

func (svc *Service) Update(ctx context.Context, id string, patch Patch) (Link, error) {
	if _, err := svc.Get(ctx, id); err != nil {
		return Link{}, err
	}
	if err := patch.Validate(svc.validate); err != nil {
		return Link{}, svc.translate(err)
	}
	if patch.Amount != nil {
		amount := core.Round2(*patch.Amount)
		patch.Amount = &amount
	}
	links, err := svc.dispatch(ctx, UpdateLink{ID: id, Updates: patch})
	if err != nil {
		return Link{}, err
	}
	l, _ := find(links, id)
	return l, nil
}

// SetStatus activates or deactivates a link.
func (svc *Service) SetStatus(ctx context.Context, id string, active bool) (Link, error) {
	if _, err := svc.Get(ctx, id); err != nil {
		return Link{}, err
	}
	status := StatusDeactivated
	if active {
		status = StatusActive
	}
	links, err := svc.dispatch(ctx, ToggleStatus{ID: id, Status: status})
	if err != nil {
		return Link{}, err
	}
	l, _ := find(links, id)
	return l, nil
}

func find(links []Link, id string) (Link, bool) {
	for _, l := range links {
		if l.ID == id {
			return l, true
		}
	}
	return Link{}, false
}
