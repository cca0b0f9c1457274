package collections

import (
	"context"
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/manishreddyt/easy-collections/core"
)

var (
	// errors
	ErrCustomerNotFound    = core.NewNotFoundError("customer")
	ErrGroupNotFound       = core.NewNotFoundError("group")
	ErrComponentNotFound   = core.NewNotFoundError("billing component")
	ErrStructureNotFound   = core.NewNotFoundError("billing structure")
	ErrDiscountNotFound    = core.NewNotFoundError("discount")
	ErrPlanNotFound        = core.NewNotFoundError("pricing plan")
	ErrCycleNotFound       = core.NewNotFoundError("billing cycle")
	ErrScheduleNotFound    = core.NewNotFoundError("payment schedule")
	ErrInstallmentNotFound = core.NewNotFoundError("installment")
	ErrTemplateNotFound    = core.NewNotFoundError("template")

	ErrCycleNotDraft    = errors.New("only draft billing cycles can be started")
	ErrScheduleExists   = errors.New("a payment schedule already exists for this customer")
	ErrInstallmentPaid  = errors.New("installment is already paid")
	ErrSplitCount       = errors.New("custom plans need a split count of at least 1")
	ErrNoBillableAmount = errors.New("no billing structure amount found for this customer")
)

type (
	// Repository stores the collections State; Dispatch applies all actions atomically.
	// Update runs fn on the current state and applies the actions it returns, with no write in between.
	Repository interface {
		State(ctx context.Context) (State, error)
		Dispatch(ctx context.Context, actions ...Action) (State, error)
		Update(ctx context.Context, fn func(State) ([]Action, error)) (State, error)
	}

	// Catalog provides the seed data: industry templates and the demo business.
	Catalog interface {
		Templates() ([]TemplateConfig, error)
		DemoState() (State, error)
	}

	Service struct {
		repo       Repository
		catalog    Catalog
		mailSvc    core.EmailService
		validate   *validator.Validate
		translator ut.Translator
		conf       *core.Config
		logger     core.Logger
	}

	CustomerDetail struct {
		Customer    Customer          `json:"customer"`
		GroupName   string            `json:"group_name"`
		PlanName    string            `json:"plan_name"`
		Schedule    *PaymentSchedule  `json:"schedule"`
		Discounts   []AppliedDiscount `json:"discounts"`
		OverdueDays null.Int          `json:"overdue_days"`
	}

	AppliedDiscount struct {
		Discount    Discount `json:"discount"`
		AppliedDate string   `json:"applied_date"`
		Reason      string   `json:"reason"`
	}
)

func NewService(
	repo Repository,
	catalog Catalog,
	mailSvc core.EmailService,
	validate *validator.Validate,
	translator ut.Translator,
	conf *core.Config,
	logger core.Logger,
) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(catalog, "catalog"),
		vala.IsNotNil(mailSvc, "mailSvc"),
		vala.IsNotNil(validate, "validate"),
		vala.IsNotNil(translator, "translator"),
		vala.IsNotNil(conf, "conf"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Service{
		repo:       repo,
		catalog:    catalog,
		mailSvc:    mailSvc,
		validate:   validate,
		translator: translator,
		conf:       conf,
		logger:     logger,
	}
}

type validatable interface {
	Validate(validate *validator.Validate) error
}

// check validates input and translates field errors, using the business terminology for labels.
func (svc *Service) check(input validatable, term Terminology) error {
	if err := input.Validate(svc.validate); err != nil {
		customerIDLabel := term.CustomerID
		if customerIDLabel == "" {
			customerIDLabel = "Customer ID"
		}
		return core.TranslateValidationErrors(err, svc.translator, map[string]string{
			"name":        "Name",
			"customer_id": customerIDLabel,
		})
	}
	return nil
}

// invalid returns a validation error on a single field.
func invalid(err error, field, msg string) error {
	return core.NewValidationError(err, core.FieldError{Field: field, Error: msg})
}

func (svc *Service) State(ctx context.Context) (State, error) {
	return svc.repo.State(ctx)
}

func (svc *Service) Dispatch(ctx context.Context, actions ...Action) (State, error) {
	return svc.repo.Dispatch(ctx, actions...)
}

func (svc *Service) state(ctx context.Context) (State, error) {
	st, err := svc.repo.State(ctx)
	if err != nil {
		return State{}, errors.Wrap(err, "loading state")
	}
	return st, nil
}

func (svc *Service) dispatch(ctx context.Context, actions ...Action) (State, error) {
	st, err := svc.repo.Dispatch(ctx, actions...)
	if err != nil {
		return State{}, errors.Wrap(err, "dispatching actions")
	}
	return st, nil
}

// update is dispatch for actions computed from the current state; errors from fn are returned as is.
func (svc *Service) update(ctx context.Context, fn func(State) ([]Action, error)) (State, error) {
	var fnErr error
	st, err := svc.repo.Update(ctx, func(st State) ([]Action, error) {
		actions, err := fn(st)
		fnErr = err
		return actions, err
	})
	if fnErr != nil {
		return State{}, fnErr
	}
	if err != nil {
		return State{}, errors.Wrap(err, "dispatching actions")
	}
	return st, nil
}

func newActivity(typ, description, customerName string, amount null.Float64) ActivityItem {
	return ActivityItem{
		ID:           core.GenerateID("act", 8),
		Type:         typ,
		Description:  description,
		Timestamp:    core.NowFunc().Format(core.TimestampLayout),
		CustomerName: customerName,
		Amount:       amount,
	}
}

// Setup

func (svc *Service) Templates() ([]TemplateConfig, error) {
	return svc.catalog.Templates()
}

// Setup sets the business up from one of the industry templates, discarding any existing data.
func (svc *Service) Setup(ctx context.Context, req SetupRequest) (State, error) {
	if err := svc.check(&req, Terminology{}); err != nil {
		return State{}, err
	}
	templates, err := svc.catalog.Templates()
	if err != nil {
		return State{}, errors.Wrap(err, "loading templates")
	}
	tpl, ok := findTemplate(templates, req.Template)
	if !ok {
		return State{}, ErrTemplateNotFound
	}
	return svc.dispatch(ctx, BuildSetup(tpl, req.BusinessProfile))
}

// SetupDemo loads the demo education business.
func (svc *Service) SetupDemo(ctx context.Context) (State, error) {
	demo, err := svc.catalog.DemoState()
	if err != nil {
		return State{}, errors.Wrap(err, "loading demo state")
	}
	return svc.update(ctx, func(st State) ([]Action, error) {
		actions := []Action{SetupFromState(demo)}
		for _, cd := range demo.CustomerDiscounts {
			if !hasCustomerDiscount(st.CustomerDiscounts, cd) {
				actions = append(actions, ApplyDiscount{CustomerDiscount: cd})
			}
		}
		return actions, nil
	})
}

func hasCustomerDiscount(list []CustomerDiscount, cd CustomerDiscount) bool {
	for _, x := range list {
		if x.CustomerID == cd.CustomerID && x.DiscountID == cd.DiscountID {
			return true
		}
	}
	return false
}

// Customers

func (svc *Service) QueryCustomers(ctx context.Context, filter CustomerFilter, orderings ...core.Ordering) ([]Customer, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return nil, err
	}
	filter.Clean()
	customers := FilterCustomers(st.Customers, filter.Match)
	SortCustomers(customers, orderings)
	return customers, nil
}

func (svc *Service) CustomerStatusCounts(ctx context.Context) (CustomerCounts, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return CustomerCounts{}, err
	}
	return CountCustomers(st.Customers), nil
}

func (svc *Service) GetCustomer(ctx context.Context, id string) (Customer, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return Customer{}, err
	}
	if c, ok := findCustomer(st.Customers, id); ok {
		return c, nil
	}
	return Customer{}, ErrCustomerNotFound
}

func (svc *Service) CreateCustomer(ctx context.Context, nc NewCustomer) (Customer, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return Customer{}, err
	}
	if err = svc.check(&nc, st.Terminology); err != nil {
		return Customer{}, err
	}

	groupName := "no group"
	if nc.GroupID != "" {
		g, ok := findGroup(st.Groups, nc.GroupID)
		if !ok {
			return Customer{}, invalid(ErrGroupNotFound, "group_id", ErrGroupNotFound.Error())
		}
		groupName = g.Name
	}
	if nc.PricingPlanID != "" {
		if _, ok := findPlan(st.PricingPlans, nc.PricingPlanID); !ok {
			return Customer{}, invalid(ErrPlanNotFound, "pricing_plan_id", ErrPlanNotFound.Error())
		}
	}

	cust := Customer{
		ID:               core.GenerateID("cust", 8),
		Name:             nc.Name,
		ContactName:      nc.ContactName,
		Email:            nc.Email,
		Phone:            nc.Phone,
		GroupID:          nc.GroupID,
		CustomerID:       nc.CustomerID,
		Status:           StatusActive,
		EnrollmentDate:   core.NowFunc().Format(core.DisplayDateLayout),
		BillingType:      BillingStandard,
		PricingPlanID:    null.NewString(nc.PricingPlanID, nc.PricingPlanID != ""),
		CustomFields:     map[string]string{},
		PreferredChannel: ChannelWhatsApp,
		Notes:            nc.Notes,
	}
	added := newActivity(
		ActivityCustomerAdded,
		fmt.Sprintf("New %s %s added to %s", strings.ToLower(st.Terminology.Customer), cust.Name, groupName),
		cust.Name,
		null.Float64{},
	)
	if st, err = svc.dispatch(ctx, AddCustomer{Customer: cust}, AddActivity{Item: added}); err != nil {
		return Customer{}, err
	}
	cust, _ = findCustomer(st.Customers, cust.ID)
	return cust, nil
}

func (svc *Service) UpdateCustomer(ctx context.Context, id string, patch CustomerPatch) (Customer, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return Customer{}, err
	}
	if _, ok := findCustomer(st.Customers, id); !ok {
		return Customer{}, ErrCustomerNotFound
	}
	if err = svc.check(&patch, st.Terminology); err != nil {
		return Customer{}, err
	}
	if patch.GroupID != nil {
		if _, ok := findGroup(st.Groups, *patch.GroupID); !ok {
			return Customer{}, invalid(ErrGroupNotFound, "group_id", ErrGroupNotFound.Error())
		}
	}

	if st, err = svc.dispatch(ctx, UpdateCustomer{ID: id, Updates: patch}); err != nil {
		return Customer{}, err
	}
	cust, _ := findCustomer(st.Customers, id)
	return cust, nil
}

func (svc *Service) PauseCustomer(ctx context.Context, id string) (Customer, error) {
	status := StatusPaused
	return svc.UpdateCustomer(ctx, id, CustomerPatch{Status: &status})
}

func (svc *Service) ResumeCustomer(ctx context.Context, id string) (Customer, error) {
	status := StatusActive
	return svc.UpdateCustomer(ctx, id, CustomerPatch{Status: &status})
}

func (svc *Service) SuggestCustomers(ctx context.Context, query string) ([]Customer, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return nil, err
	}
	return SuggestCustomers(st.Customers, query), nil
}

func (svc *Service) CustomerDetail(ctx context.Context, id string) (CustomerDetail, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return CustomerDetail{}, err
	}
	cust, ok := findCustomer(st.Customers, id)
	if !ok {
		return CustomerDetail{}, ErrCustomerNotFound
	}

	detail := CustomerDetail{Customer: cust, Discounts: []AppliedDiscount{}}
	if g, ok := findGroup(st.Groups, cust.GroupID); ok {
		detail.GroupName = g.Name
	}
	if cust.PricingPlanID.Valid {
		if p, ok := findPlan(st.PricingPlans, cust.PricingPlanID.String); ok {
			detail.PlanName = p.Name
		}
	}
	for _, sch := range st.Schedules {
		if sch.CustomerID == cust.ID {
			sch := sch
			detail.Schedule = &sch
			break
		}
	}
	for _, cd := range st.CustomerDiscounts {
		if cd.CustomerID != cust.ID {
			continue
		}
		if d, ok := findDiscount(st.Discounts, cd.DiscountID); ok {
			detail.Discounts = append(detail.Discounts, AppliedDiscount{Discount: d, AppliedDate: cd.AppliedDate, Reason: cd.Reason})
		}
	}
	if days, ok := OverdueDays(st.Schedules, cust.ID, core.NowFunc()); ok {
		detail.OverdueDays = null.IntFrom(days)
	}
	return detail, nil
}

// Activity

func (svc *Service) QueryActivity(ctx context.Context) ([]ActivityItem, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return nil, err
	}
	return st.RecentActivity, nil
}

func (svc *Service) RecordActivity(ctx context.Context, na NewActivity) (ActivityItem, error) {
	if err := svc.check(&na, Terminology{}); err != nil {
		return ActivityItem{}, err
	}
	item := newActivity(na.Type, na.Description, na.CustomerName, na.Amount)
	if _, err := svc.dispatch(ctx, AddActivity{Item: item}); err != nil {
		return ActivityItem{}, err
	}
	return item, nil
}
