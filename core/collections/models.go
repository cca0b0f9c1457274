package collections

import (
	"github.com/volatiletech/null/v8"
)

// Customer statuses
const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusExited    = "exited"
	StatusSuspended = "suspended"
)

// Billing types
const (
	BillingStandard = "standard"
	BillingCustom   = "custom"
)

// Communication channels
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
)

// Component frequencies
const (
	FrequencyRecurring = "recurring"
	FrequencyOneTime   = "one-time"
)

// Discount categories & value types
const (
	DiscountFamilyLinked   = "family_linked"
	DiscountMerit          = "merit"
	DiscountEarlyPayment   = "early_payment"
	DiscountCommitment     = "commitment"
	DiscountCategoryWaiver = "category_waiver"
	DiscountAdHoc          = "ad_hoc"

	ValuePercentage = "percentage"
	ValueFlat       = "flat"
)

// Pricing plan types
const (
	PlanOneTime    = "one-time"
	PlanMonthly    = "monthly"
	PlanQuarterly  = "quarterly"
	PlanSemiAnnual = "semi-annual"
	PlanAnnual     = "annual"
	PlanCustom     = "custom"
)

// Billing cycle statuses
const (
	CycleDraft     = "draft"
	CycleActive    = "active"
	CycleCompleted = "completed"
)

// Installment statuses
const (
	InstallmentUpcoming = "upcoming"
	InstallmentPaid     = "paid"
	InstallmentOverdue  = "overdue"
	InstallmentPartial  = "partial"
)

// Late fee types
const (
	LateFeeFlat       = "flat"
	LateFeePercentage = "percentage"
	LateFeePerDay     = "per_day"
)

// Activity types
const (
	ActivityPaymentReceived     = "payment_received"
	ActivityReminderSent        = "reminder_sent"
	ActivityCustomerAdded       = "customer_added"
	ActivityOverdueAlert        = "overdue_alert"
	ActivityReceiptGenerated    = "receipt_generated"
	ActivityBillingCycleStarted = "billing_cycle_started"
)

var (
	CustomerStatuses = []string{StatusActive, StatusPaused, StatusExited, StatusSuspended}

	// splitCounts gives the number of installments per pricing plan type.
	splitCounts = map[string]int{
		PlanOneTime:    1,
		PlanMonthly:    12,
		PlanQuarterly:  4,
		PlanSemiAnnual: 2,
		PlanAnnual:     1,
	}
)

type (
	Customer struct {
		ID               string            `json:"id"`
		Name             string            `json:"name"`
		ContactName      string            `json:"contact_name"`
		Email            string            `json:"email"`
		Phone            string            `json:"phone"`
		GroupID          string            `json:"group_id"`
		CustomerID       string            `json:"customer_id"`
		Status           string            `json:"status"`
		EnrollmentDate   string            `json:"enrollment_date"`
		BillingType      string            `json:"billing_type"`
		PricingPlanID    null.String       `json:"pricing_plan_id"`
		CustomFields     map[string]string `json:"custom_fields"`
		FamilyLinkID     null.String       `json:"family_link_id"`
		PreferredChannel string            `json:"preferred_channel"`
		Notes            string            `json:"notes"`
		TotalDue         float64           `json:"total_due"`
		TotalPaid        float64           `json:"total_paid"`
		TotalOverdue     float64           `json:"total_overdue"`
	}

	LateFeeConfig struct {
		Enabled         bool         `json:"enabled"`
		Type            string       `json:"type" validate:"omitempty,oneof=flat percentage per_day"`
		Value           float64      `json:"value" validate:"gte=0"`
		GracePeriodDays int          `json:"grace_period_days" validate:"gte=0"`
		CapAmount       null.Float64 `json:"cap_amount"`
	}

	CustomerGroup struct {
		ID                   string        `json:"id"`
		Name                 string        `json:"name"`
		Description          string        `json:"description"`
		CustomerCount        int           `json:"customer_count"`
		BillingStructureID   null.String   `json:"billing_structure_id"`
		DefaultPricingPlanID null.String   `json:"default_pricing_plan_id"`
		DefaultSchedule      string        `json:"default_schedule"`
		LateFeeConfig        LateFeeConfig `json:"late_fee_config"`
	}

	BillingComponent struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Frequency   string  `json:"frequency"`
		Required    bool    `json:"required"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
	}

	StructureComponent struct {
		ComponentID string  `json:"component_id" validate:"required"`
		Amount      float64 `json:"amount" validate:"gte=0"`
	}

	BillingStructure struct {
		ID          string               `json:"id"`
		Name        string               `json:"name"`
		GroupID     string               `json:"group_id"`
		Components  []StructureComponent `json:"components"`
		TotalAmount float64              `json:"total_amount"`
	}

	Discount struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		Value       float64 `json:"value"`
		ValueType   string  `json:"value_type"`
		Recurring   bool    `json:"recurring"`
		Description string  `json:"description"`
	}

	CustomerDiscount struct {
		DiscountID  string `json:"discount_id"`
		CustomerID  string `json:"customer_id"`
		AppliedDate string `json:"applied_date"`
		Reason      string `json:"reason"`
	}

	PricingPlan struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Type        string `json:"type"`
		SplitCount  int    `json:"split_count"`
		Description string `json:"description"`
	}

	BillingCycle struct {
		ID             string   `json:"id"`
		Name           string   `json:"name"`
		PricingPlanID  string   `json:"pricing_plan_id"`
		GroupIDs       []string `json:"group_ids"`
		CollectionDate string   `json:"collection_date"`
		DueDate        string   `json:"due_date"`
		Status         string   `json:"status"`
		TotalCustomers int      `json:"total_customers"`
		TotalExpected  float64  `json:"total_expected"`
		TotalCollected float64  `json:"total_collected"`
		LinksGenerated int      `json:"links_generated"`
		LinksSent      int      `json:"links_sent"`
		CreatedAt      string   `json:"created_at"`
	}

	Installment struct {
		ID             string      `json:"id"`
		Number         int         `json:"number"`
		Label          string      `json:"label"`
		Amount         float64     `json:"amount"`
		DueDate        string      `json:"due_date"`
		Status         string      `json:"status"`
		PaidAmount     float64     `json:"paid_amount"`
		PaidDate       null.String `json:"paid_date"`
		LateFee        float64     `json:"late_fee"`
		BillingCycleID null.String `json:"billing_cycle_id"`
	}

	PaymentSchedule struct {
		ID            string        `json:"id"`
		CustomerID    string        `json:"customer_id"`
		Type          string        `json:"type"`
		PricingPlanID null.String   `json:"pricing_plan_id"`
		Installments  []Installment `json:"installments"`
		TotalAmount   float64       `json:"total_amount"`
		TotalPaid     float64       `json:"total_paid"`
	}

	ActivityItem struct {
		ID           string       `json:"id"`
		Type         string       `json:"type"`
		Description  string       `json:"description"`
		Timestamp    string       `json:"timestamp"`
		CustomerName string       `json:"customer_name"`
		Amount       null.Float64 `json:"amount"`
	}

	BusinessProfile struct {
		Name                  string   `json:"name" validate:"required"`
		Industry              string   `json:"industry"`
		Logo                  string   `json:"logo"`
		GSTIN                 string   `json:"gstin"`
		Address               string   `json:"address"`
		CommunicationChannels []string `json:"communication_channels" validate:"dive,oneof=whatsapp email sms"`
	}

	Terminology struct {
		Customer       string `json:"customer"`
		CustomerPlural string `json:"customer_plural"`
		Contact        string `json:"contact"`
		Group          string `json:"group"`
		GroupPlural    string `json:"group_plural"`
		BillingPeriod  string `json:"billing_period"`
		CustomerID     string `json:"customer_id"`
	}

	// CollectionStats is the roll-up of active & paused customers' balances.
	CollectionStats struct {
		TotalExpected  float64 `json:"total_expected"`
		TotalCollected float64 `json:"total_collected"`
		TotalOverdue   float64 `json:"total_overdue"`
		CollectionRate float64 `json:"collection_rate"`
		OnTimeCount    int     `json:"on_time_count"`
		LateCount      int     `json:"late_count"`
		PendingCount   int     `json:"pending_count"`
		OverdueCount   int     `json:"overdue_count"`
	}

	GroupCollectionSummary struct {
		GroupID        string  `json:"group_id"`
		GroupName      string  `json:"group_name"`
		Expected       float64 `json:"expected"`
		Collected      float64 `json:"collected"`
		Overdue        float64 `json:"overdue"`
		CollectionRate float64 `json:"collection_rate"`
		CustomerCount  int     `json:"customer_count"`
	}
)

// IsBillable reports whether the customer counts towards collection stats.
func (c Customer) IsBillable() bool {
	return c.Status == StatusActive || c.Status == StatusPaused
}

// Outstanding returns what is left to pay, never negative.
func (c Customer) Outstanding() float64 {
	if c.TotalPaid >= c.TotalDue {
		return 0
	}
	return c.TotalDue - c.TotalPaid
}

// SplitCount returns the number of installments for a plan type; 0 for custom or unknown types.
func SplitCount(planType string) int {
	return splitCounts[planType]
}

func (s PaymentSchedule) installment(id string) (Installment, bool) {
	for _, inst := range s.Installments {
		if inst.ID == id {
			return inst, true
		}
	}
	return Installment{}, false
}

func (c Customer) clone() Customer {
	if c.CustomFields != nil {
		fields := make(map[string]string, len(c.CustomFields))
		for k, v := range c.CustomFields {
			fields[k] = v
		}
		c.CustomFields = fields
	}
	return c
}

func (s BillingStructure) clone() BillingStructure {
	s.Components = append([]StructureComponent(nil), s.Components...)
	return s
}

func (bc BillingCycle) clone() BillingCycle {
	bc.GroupIDs = append([]string(nil), bc.GroupIDs...)
	return bc
}

func (s PaymentSchedule) clone() PaymentSchedule {
	s.Installments = append([]Installment(nil), s.Installments...)
	return s
}

func (p BusinessProfile) clone() BusinessProfile {
	p.CommunicationChannels = append([]string(nil), p.CommunicationChannels...)
	return p
}
