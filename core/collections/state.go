package collections

import (
	"github.com/volatiletech/null/v8"
)

// State is the whole fee-collections data set of a business.
type State struct {
	IsSetUp           bool               `json:"is_set_up"`
	Template          string             `json:"template"`
	BusinessProfile   BusinessProfile    `json:"business_profile"`
	Terminology       Terminology        `json:"terminology"`
	Customers         []Customer         `json:"customers"`
	Groups            []CustomerGroup    `json:"groups"`
	Components        []BillingComponent `json:"components"`
	Structures        []BillingStructure `json:"structures"`
	Discounts         []Discount         `json:"discounts"`
	CustomerDiscounts []CustomerDiscount `json:"customer_discounts"`
	PricingPlans      []PricingPlan      `json:"pricing_plans"`
	BillingCycles     []BillingCycle     `json:"billing_cycles"`
	Schedules         []PaymentSchedule  `json:"schedules"`
	RecentActivity    []ActivityItem     `json:"recent_activity"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.BusinessProfile = s.BusinessProfile.clone()
	out.Customers = cloneWith(s.Customers, Customer.clone)
	out.Groups = cloneWith(s.Groups, nil)
	out.Components = cloneWith(s.Components, nil)
	out.Structures = cloneWith(s.Structures, BillingStructure.clone)
	out.Discounts = cloneWith(s.Discounts, nil)
	out.CustomerDiscounts = cloneWith(s.CustomerDiscounts, nil)
	out.PricingPlans = cloneWith(s.PricingPlans, nil)
	out.BillingCycles = cloneWith(s.BillingCycles, BillingCycle.clone)
	out.Schedules = cloneWith(s.Schedules, PaymentSchedule.clone)
	out.RecentActivity = cloneWith(s.RecentActivity, nil)
	return out
}

type ActionType string

// Action tags
const (
	ActionSetupComplete           ActionType = "SETUP_COMPLETE"
	ActionAddCustomer             ActionType = "ADD_CUSTOMER"
	ActionUpdateCustomer          ActionType = "UPDATE_CUSTOMER"
	ActionAddGroup                ActionType = "ADD_GROUP"
	ActionAddComponent            ActionType = "ADD_COMPONENT"
	ActionUpdateComponent         ActionType = "UPDATE_COMPONENT"
	ActionDeleteComponent         ActionType = "DELETE_COMPONENT"
	ActionAddStructure            ActionType = "ADD_STRUCTURE"
	ActionAddDiscount             ActionType = "ADD_DISCOUNT"
	ActionApplyDiscount           ActionType = "APPLY_DISCOUNT"
	ActionAddPricingPlan          ActionType = "ADD_PRICING_PLAN"
	ActionAddBillingCycle         ActionType = "ADD_BILLING_CYCLE"
	ActionUpdateBillingCycle      ActionType = "UPDATE_BILLING_CYCLE"
	ActionUpdateInstallmentStatus ActionType = "UPDATE_INSTALLMENT_STATUS"
	ActionSetInstallmentLateFee   ActionType = "SET_INSTALLMENT_LATE_FEE"
	ActionAddSchedule             ActionType = "ADD_SCHEDULE"
	ActionAddActivity             ActionType = "ADD_ACTIVITY"
)

// Action is a state change request handled by Reduce.
type Action interface {
	Type() ActionType
}

type (
	SetupComplete struct {
		Template          string
		BusinessProfile   BusinessProfile
		Terminology       Terminology
		Components        []BillingComponent
		Discounts         []Discount
		Groups            []CustomerGroup
		Structures        []BillingStructure
		Customers         []Customer
		PricingPlans      []PricingPlan
		BillingCycles     []BillingCycle
		Schedules         []PaymentSchedule
		RecentActivity    []ActivityItem
	}

	AddCustomer struct{ Customer Customer }

	UpdateCustomer struct {
		ID      string
		Updates CustomerPatch
	}

	AddGroup struct{ Group CustomerGroup }

	AddComponent struct{ Component BillingComponent }

	UpdateComponent struct {
		ID      string
		Updates ComponentPatch
	}

	DeleteComponent struct{ ID string }

	AddStructure struct{ Structure BillingStructure }

	AddDiscount struct{ Discount Discount }

	ApplyDiscount struct{ CustomerDiscount CustomerDiscount }

	AddPricingPlan struct{ Plan PricingPlan }

	AddBillingCycle struct{ Cycle BillingCycle }

	UpdateBillingCycle struct {
		ID      string
		Updates BillingCyclePatch
	}

	// UpdateInstallmentStatus sets an installment's status & paid amount and recomputes its schedule's TotalPaid.
	// PaidDate is only applied when valid.
	UpdateInstallmentStatus struct {
		ScheduleID    string
		InstallmentID string
		Status        string
		PaidAmount    float64
		PaidDate      null.String
	}

	SetInstallmentLateFee struct {
		ScheduleID    string
		InstallmentID string
		LateFee       float64
	}

	AddSchedule struct{ Schedule PaymentSchedule }

	// AddActivity puts an item at the top of the activity feed.
	AddActivity struct{ Item ActivityItem }
)

func (SetupComplete) Type() ActionType           { return ActionSetupComplete }
func (AddCustomer) Type() ActionType             { return ActionAddCustomer }
func (UpdateCustomer) Type() ActionType          { return ActionUpdateCustomer }
func (AddGroup) Type() ActionType                { return ActionAddGroup }
func (AddComponent) Type() ActionType            { return ActionAddComponent }
func (UpdateComponent) Type() ActionType         { return ActionUpdateComponent }
func (DeleteComponent) Type() ActionType         { return ActionDeleteComponent }
func (AddStructure) Type() ActionType            { return ActionAddStructure }
func (AddDiscount) Type() ActionType             { return ActionAddDiscount }
func (ApplyDiscount) Type() ActionType           { return ActionApplyDiscount }
func (AddPricingPlan) Type() ActionType          { return ActionAddPricingPlan }
func (AddBillingCycle) Type() ActionType         { return ActionAddBillingCycle }
func (UpdateBillingCycle) Type() ActionType      { return ActionUpdateBillingCycle }
func (UpdateInstallmentStatus) Type() ActionType { return ActionUpdateInstallmentStatus }
func (SetInstallmentLateFee) Type() ActionType   { return ActionSetInstallmentLateFee }
func (AddSchedule) Type() ActionType             { return ActionAddSchedule }
func (AddActivity) Type() ActionType             { return ActionAddActivity }

// Reduce returns the state resulting from applying action to state.
// The input state is never mutated; unknown actions leave it unchanged.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case SetupComplete:
		state.IsSetUp = true
		state.Template = a.Template
		state.BusinessProfile = a.BusinessProfile
		state.Terminology = a.Terminology
		state.Components = a.Components
		state.Discounts = a.Discounts
		state.Groups = a.Groups
		state.Structures = a.Structures
		state.Customers = a.Customers
		state.PricingPlans = a.PricingPlans
		state.BillingCycles = a.BillingCycles
		state.Schedules = a.Schedules
		state.RecentActivity = a.RecentActivity
	case AddCustomer:
		state.Customers = appended(state.Customers, a.Customer)
	case UpdateCustomer:
		state.Customers = updated(state.Customers,
			func(c Customer) bool { return c.ID == a.ID },
			a.Updates.apply,
		)
	case AddGroup:
		state.Groups = appended(state.Groups, a.Group)
	case AddComponent:
		state.Components = appended(state.Components, a.Component)
	case UpdateComponent:
		state.Components = updated(state.Components,
			func(c BillingComponent) bool { return c.ID == a.ID },
			a.Updates.apply,
		)
	case DeleteComponent:
		state.Components = filtered(state.Components, func(c BillingComponent) bool { return c.ID != a.ID })
	case AddStructure:
		state.Structures = appended(state.Structures, a.Structure)
	case AddDiscount:
		state.Discounts = appended(state.Discounts, a.Discount)
	case ApplyDiscount:
		state.CustomerDiscounts = appended(state.CustomerDiscounts, a.CustomerDiscount)
	case AddPricingPlan:
		state.PricingPlans = appended(state.PricingPlans, a.Plan)
	case AddBillingCycle:
		state.BillingCycles = appended(state.BillingCycles, a.Cycle)
	case UpdateBillingCycle:
		state.BillingCycles = updated(state.BillingCycles,
			func(bc BillingCycle) bool { return bc.ID == a.ID },
			a.Updates.apply,
		)
	case UpdateInstallmentStatus:
		state.Schedules = updated(state.Schedules,
			func(s PaymentSchedule) bool { return s.ID == a.ScheduleID },
			func(s PaymentSchedule) PaymentSchedule {
				s.Installments = updated(s.Installments,
					func(i Installment) bool { return i.ID == a.InstallmentID },
					func(i Installment) Installment {
						i.Status = a.Status
						i.PaidAmount = a.PaidAmount
						if a.PaidDate.Valid {
							i.PaidDate = a.PaidDate
						}
						return i
					},
				)
				s.TotalPaid = 0
				for _, i := range s.Installments {
					s.TotalPaid += i.PaidAmount
				}
				return s
			},
		)
	case SetInstallmentLateFee:
		state.Schedules = updated(state.Schedules,
			func(s PaymentSchedule) bool { return s.ID == a.ScheduleID },
			func(s PaymentSchedule) PaymentSchedule {
				s.Installments = updated(s.Installments,
					func(i Installment) bool { return i.ID == a.InstallmentID },
					func(i Installment) Installment {
						i.LateFee = a.LateFee
						return i
					},
				)
				return s
			},
		)
	case AddSchedule:
		state.Schedules = appended(state.Schedules, a.Schedule)
	case AddActivity:
		activity := make([]ActivityItem, 0, len(state.RecentActivity)+1)
		activity = append(activity, a.Item)
		state.RecentActivity = append(activity, state.RecentActivity...)
	}
	return state
}

// CustomerPatch holds the Customer fields to update; nil fields are left untouched.
type CustomerPatch struct {
	Name             *string            `json:"name" validate:"omitnil,min=1"`
	ContactName      *string            `json:"contact_name"`
	Email            *string            `json:"email" validate:"omitempty,email_addr"`
	Phone            *string            `json:"phone" validate:"omitempty,phone10"`
	GroupID          *string            `json:"group_id" validate:"omitnil,min=1"`
	CustomerID       *string            `json:"customer_id" validate:"omitnil,min=1"`
	Status           *string            `json:"status" validate:"omitnil,oneof=active paused exited suspended"`
	EnrollmentDate   *string            `json:"enrollment_date"`
	BillingType      *string            `json:"billing_type" validate:"omitnil,oneof=standard custom"`
	PricingPlanID    *string            `json:"pricing_plan_id"`
	CustomFields     *map[string]string `json:"custom_fields"`
	FamilyLinkID     *string            `json:"family_link_id"`
	PreferredChannel *string            `json:"preferred_channel" validate:"omitnil,oneof=whatsapp email sms"`
	Notes            *string            `json:"notes"`
	TotalDue         *float64           `json:"total_due" validate:"omitnil,gte=0"`
	TotalPaid        *float64           `json:"total_paid" validate:"omitnil,gte=0"`
	TotalOverdue     *float64           `json:"total_overdue" validate:"omitnil,gte=0"`
}

func (p CustomerPatch) apply(c Customer) Customer {
	setString(&c.Name, p.Name)
	setString(&c.ContactName, p.ContactName)
	setString(&c.Email, p.Email)
	setString(&c.Phone, p.Phone)
	setString(&c.GroupID, p.GroupID)
	setString(&c.CustomerID, p.CustomerID)
	setString(&c.Status, p.Status)
	setString(&c.EnrollmentDate, p.EnrollmentDate)
	setString(&c.BillingType, p.BillingType)
	setNullString(&c.PricingPlanID, p.PricingPlanID)
	if p.CustomFields != nil {
		c.CustomFields = make(map[string]string, len(*p.CustomFields))
		for k, v := range *p.CustomFields {
			c.CustomFields[k] = v
		}
	}
	setNullString(&c.FamilyLinkID, p.FamilyLinkID)
	setString(&c.PreferredChannel, p.PreferredChannel)
	setString(&c.Notes, p.Notes)
	setFloat(&c.TotalDue, p.TotalDue)
	setFloat(&c.TotalPaid, p.TotalPaid)
	setFloat(&c.TotalOverdue, p.TotalOverdue)
	return c
}

// ComponentPatch holds the BillingComponent fields to update; nil fields are left untouched.
type ComponentPatch struct {
	Name        *string  `json:"name" validate:"omitnil,min=1"`
	Frequency   *string  `json:"frequency" validate:"omitnil,oneof=recurring one-time"`
	Required    *bool    `json:"required"`
	Amount      *float64 `json:"amount" validate:"omitnil,gte=0"`
	Description *string  `json:"description"`
}

func (p ComponentPatch) apply(c BillingComponent) BillingComponent {
	setString(&c.Name, p.Name)
	setString(&c.Frequency, p.Frequency)
	if p.Required != nil {
		c.Required = *p.Required
	}
	setFloat(&c.Amount, p.Amount)
	setString(&c.Description, p.Description)
	return c
}

// BillingCyclePatch holds the BillingCycle fields to update; nil fields are left untouched.
type BillingCyclePatch struct {
	Name           *string   `json:"name" validate:"omitnil,min=1"`
	PricingPlanID  *string   `json:"pricing_plan_id" validate:"omitnil,min=1"`
	GroupIDs       *[]string `json:"group_ids" validate:"omitnil,min=1"`
	CollectionDate *string   `json:"collection_date" validate:"omitnil,datetime=2006-01-02"`
	DueDate        *string   `json:"due_date" validate:"omitnil,datetime=2006-01-02"`
	Status         *string   `json:"status" validate:"omitnil,oneof=draft active completed"`
	TotalCustomers *int      `json:"total_customers" validate:"omitnil,gte=0"`
	TotalExpected  *float64  `json:"total_expected" validate:"omitnil,gte=0"`
	TotalCollected *float64  `json:"total_collected" validate:"omitnil,gte=0"`
	LinksGenerated *int      `json:"links_generated" validate:"omitnil,gte=0"`
	LinksSent      *int      `json:"links_sent" validate:"omitnil,gte=0"`
}

func (p BillingCyclePatch) apply(bc BillingCycle) BillingCycle {
	setString(&bc.Name, p.Name)
	setString(&bc.PricingPlanID, p.PricingPlanID)
	if p.GroupIDs != nil {
		bc.GroupIDs = append([]string(nil), (*p.GroupIDs)...)
	}
	setString(&bc.CollectionDate, p.CollectionDate)
	setString(&bc.DueDate, p.DueDate)
	setString(&bc.Status, p.Status)
	setInt(&bc.TotalCustomers, p.TotalCustomers)
	setFloat(&bc.TotalExpected, p.TotalExpected)
	setFloat(&bc.TotalCollected, p.TotalCollected)
	setInt(&bc.LinksGenerated, p.LinksGenerated)
	setInt(&bc.LinksSent, p.LinksSent)
	return bc
}

// helpers

func appended[T any](s []T, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, s...)
	return append(out, v)
}

func updated[T any](s []T, match func(T) bool, update func(T) T) []T {
	out := make([]T, len(s))
	for i, v := range s {
		if match(v) {
			v = update(v)
		}
		out[i] = v
	}
	return out
}

func filtered[T any](s []T, keep func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func cloneWith[T any](s []T, clone func(T) T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	for i, v := range s {
		if clone != nil {
			v = clone(v)
		}
		out[i] = v
	}
	return out
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setNullString(dst *null.String, src *string) {
	if src != nil {
		*dst = null.NewString(*src, *src != "")
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
