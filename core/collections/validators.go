package collections

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/manishreddyt/easy-collections/core"
)

type (
	SetupRequest struct {
		Template        string          `json:"template" validate:"required,oneof=education fitness housing services custom"`
		BusinessProfile BusinessProfile `json:"business_profile"`
	}

	// NewCustomer contains information needed to create a new Customer.
	NewCustomer struct {
		Name          string `json:"name" validate:"required"`
		ContactName   string `json:"contact_name"`
		Email         string `json:"email" validate:"omitempty,email_addr"`
		Phone         string `json:"phone" validate:"omitempty,phone10"`
		GroupID       string `json:"group_id"`
		CustomerID    string `json:"customer_id" validate:"required"`
		PricingPlanID string `json:"pricing_plan_id"`
		Notes         string `json:"notes"`
	}

	NewGroup struct {
		Name                 string         `json:"name" validate:"required"`
		Description          string         `json:"description"`
		BillingStructureID   string         `json:"billing_structure_id"`
		DefaultPricingPlanID string         `json:"default_pricing_plan_id"`
		DefaultSchedule      string         `json:"default_schedule" validate:"omitempty,oneof=one-time monthly quarterly semi-annual annual custom"`
		LateFeeConfig        *LateFeeConfig `json:"late_fee_config"`
	}

	NewComponent struct {
		Name        string  `json:"name" validate:"required"`
		Frequency   string  `json:"frequency" validate:"required,oneof=recurring one-time"`
		Required    bool    `json:"required"`
		Amount      float64 `json:"amount" validate:"gte=0"`
		Description string  `json:"description"`
	}

	NewStructure struct {
		Name       string               `json:"name" validate:"required"`
		GroupID    string               `json:"group_id" validate:"required"`
		Components []StructureComponent `json:"components" validate:"required,min=1,dive"`
	}

	NewDiscount struct {
		Name        string  `json:"name" validate:"required"`
		Category    string  `json:"category" validate:"required,oneof=family_linked merit early_payment commitment category_waiver ad_hoc"`
		Value       float64 `json:"value" validate:"gte=0"`
		ValueType   string  `json:"value_type" validate:"required,oneof=percentage flat"`
		Recurring   bool    `json:"recurring"`
		Description string  `json:"description"`
	}

	NewCustomerDiscount struct {
		DiscountID string `json:"discount_id" validate:"required"`
		Reason     string `json:"reason"`
	}

	NewPricingPlan struct {
		Name        string `json:"name" validate:"required"`
		Type        string `json:"type" validate:"required,oneof=one-time monthly quarterly semi-annual annual custom"`
		SplitCount  int    `json:"split_count" validate:"gte=0"` // only used by custom plans
		Description string `json:"description"`
	}

	NewBillingCycle struct {
		Name           string   `json:"name" validate:"required"`
		PricingPlanID  string   `json:"pricing_plan_id" validate:"required"`
		GroupIDs       []string `json:"group_ids" validate:"required,min=1"`
		CollectionDate string   `json:"collection_date" validate:"required,datetime=2006-01-02"`
		DueDate        string   `json:"due_date" validate:"required,datetime=2006-01-02"`
	}

	NewSchedule struct {
		CustomerID    string `json:"customer_id" validate:"required"`
		PricingPlanID string `json:"pricing_plan_id"` // defaults to the customer's plan, then the group's
		StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	}

	NewPayment struct {
		Amount   float64 `json:"amount" validate:"positive"`
		PaidDate string  `json:"paid_date" validate:"omitempty,datetime=2006-01-02"` // defaults to today
	}

	NewActivity struct {
		Type         string       `json:"type" validate:"required,oneof=payment_received reminder_sent customer_added overdue_alert receipt_generated billing_cycle_started"`
		Description  string       `json:"description" validate:"required"`
		CustomerName string       `json:"customer_name"`
		Amount       null.Float64 `json:"amount"`
	}
)

func (sr *SetupRequest) Validate(validate *validator.Validate) error {
	sr.Template = core.CleanString(sr.Template, true /* lower */)
	sr.BusinessProfile.Name = core.CleanString(sr.BusinessProfile.Name)
	sr.BusinessProfile.GSTIN = core.CleanString(sr.BusinessProfile.GSTIN)
	sr.BusinessProfile.Address = core.CleanString(sr.BusinessProfile.Address)
	return validate.Struct(sr)
}

func (nc *NewCustomer) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.ContactName = core.CleanString(nc.ContactName)
	nc.Email = core.CleanString(nc.Email)
	nc.Phone = core.CleanString(nc.Phone)
	nc.GroupID = core.CleanString(nc.GroupID)
	nc.CustomerID = core.CleanString(nc.CustomerID)
	nc.PricingPlanID = core.CleanString(nc.PricingPlanID)
	nc.Notes = core.CleanString(nc.Notes)
	return validate.Struct(nc)
}

func (p *CustomerPatch) Validate(validate *validator.Validate) error {
	for _, s := range []*string{p.Name, p.ContactName, p.Email, p.Phone, p.GroupID, p.CustomerID, p.Notes} {
		if s != nil {
			*s = core.CleanString(*s)
		}
	}
	return validate.Struct(p)
}

func (ng *NewGroup) Validate(validate *validator.Validate) error {
	ng.Name = core.CleanString(ng.Name)
	ng.Description = core.CleanString(ng.Description)
	ng.BillingStructureID = core.CleanString(ng.BillingStructureID)
	ng.DefaultPricingPlanID = core.CleanString(ng.DefaultPricingPlanID)
	ng.DefaultSchedule = core.CleanString(ng.DefaultSchedule, true /* lower */)
	if ng.LateFeeConfig != nil {
		ng.LateFeeConfig.Type = core.CleanString(ng.LateFeeConfig.Type, true /* lower */)
	}
	return validate.Struct(ng)
}

func (nc *NewComponent) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Frequency = core.CleanString(nc.Frequency, true /* lower */)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

func (p *ComponentPatch) Validate(validate *validator.Validate) error {
	if p.Name != nil {
		*p.Name = core.CleanString(*p.Name)
	}
	return validate.Struct(p)
}

func (ns *NewStructure) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.GroupID = core.CleanString(ns.GroupID)
	return validate.Struct(ns)
}

func (nd *NewDiscount) Validate(validate *validator.Validate) error {
	nd.Name = core.CleanString(nd.Name)
	nd.Description = core.CleanString(nd.Description)
	return validate.Struct(nd)
}

func (ncd *NewCustomerDiscount) Validate(validate *validator.Validate) error {
	ncd.DiscountID = core.CleanString(ncd.DiscountID)
	ncd.Reason = core.CleanString(ncd.Reason)
	return validate.Struct(ncd)
}

func (np *NewPricingPlan) Validate(validate *validator.Validate) error {
	np.Name = core.CleanString(np.Name)
	np.Type = core.CleanString(np.Type, true /* lower */)
	np.Description = core.CleanString(np.Description)
	return validate.Struct(np)
}

func (nbc *NewBillingCycle) Validate(validate *validator.Validate) error {
	nbc.Name = core.CleanString(nbc.Name)
	nbc.PricingPlanID = core.CleanString(nbc.PricingPlanID)
	return validate.Struct(nbc)
}

func (p *BillingCyclePatch) Validate(validate *validator.Validate) error {
	if p.Name != nil {
		*p.Name = core.CleanString(*p.Name)
	}
	return validate.Struct(p)
}

func (ns *NewSchedule) Validate(validate *validator.Validate) error {
	ns.CustomerID = core.CleanString(ns.CustomerID)
	ns.PricingPlanID = core.CleanString(ns.PricingPlanID)
	ns.StartDate = core.CleanString(ns.StartDate)
	return validate.Struct(ns)
}

func (np *NewPayment) Validate(validate *validator.Validate) error {
	np.PaidDate = core.CleanString(np.PaidDate)
	return validate.Struct(np)
}

func (na *NewActivity) Validate(validate *validator.Validate) error {
	na.Description = core.CleanString(na.Description)
	na.CustomerName = core.CleanString(na.CustomerName)
	return validate.Struct(na)
}
