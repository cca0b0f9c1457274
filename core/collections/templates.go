package collections

import (
	"strconv"
	"strings"

	"github.com/manishreddyt/easy-collections/core"
)

// Industry templates
const (
	TemplateEducation = "education"
	TemplateFitness   = "fitness"
	TemplateHousing   = "housing"
	TemplateServices  = "services"
	TemplateCustom    = "custom"
)

type (
	// TemplateConfig is an industry preset used to set a business up.
	TemplateConfig struct {
		ID                string             `json:"id"`
		DisplayName       string             `json:"display_name"`
		Description       string             `json:"description"`
		Terminology       Terminology        `json:"terminology"`
		DefaultComponents []BillingComponent `json:"default_components"`
		DefaultDiscounts  []TemplateDiscount `json:"default_discounts"`
		DefaultSchedule   string             `json:"default_schedule"`
		DefaultLateFee    LateFeeConfig      `json:"default_late_fee"`
		CustomFields      []CustomField      `json:"custom_fields"`
	}

	TemplateDiscount struct {
		Name         string `json:"name"`
		Category     string `json:"category"`
		DefaultValue string `json:"default_value"` // ex: "10%", "500" or ""
		Description  string `json:"description"`
	}

	CustomField struct {
		Name     string `json:"name"`
		Type     string `json:"type"` // text | select
		Required bool   `json:"required"`
	}
)

// ParseDiscountValue parses a template discount value: "10%" is a percentage, anything else a flat amount.
// Empty or invalid values are 0.
func ParseDiscountValue(s string) (float64, string) {
	s = core.CleanString(s)
	valueType := ValueFlat
	if strings.HasSuffix(s, "%") {
		valueType = ValuePercentage
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, valueType
	}
	return value, valueType
}

// BuildSetup returns the SetupComplete action creating a fresh business from tpl.
func BuildSetup(tpl TemplateConfig, profile BusinessProfile) SetupComplete {
	components := make([]BillingComponent, len(tpl.DefaultComponents))
	for i, comp := range tpl.DefaultComponents {
		comp.ID = core.GenerateID("comp", 8)
		components[i] = comp
	}

	discounts := make([]Discount, len(tpl.DefaultDiscounts))
	for i, d := range tpl.DefaultDiscounts {
		value, valueType := ParseDiscountValue(d.DefaultValue)
		discounts[i] = Discount{
			ID:          core.GenerateID("disc", 8),
			Name:        d.Name,
			Category:    d.Category,
			Value:       value,
			ValueType:   valueType,
			Recurring:   true,
			Description: d.Description,
		}
	}

	profile.Industry = tpl.ID
	return SetupComplete{
		Template:          tpl.ID,
		BusinessProfile:   profile,
		Terminology:       tpl.Terminology,
		Components:        components,
		Discounts:         discounts,
		Groups:            []CustomerGroup{},
		Structures:        []BillingStructure{},
		Customers:         []Customer{},
		PricingPlans:      []PricingPlan{},
		BillingCycles:     []BillingCycle{},
		Schedules:         []PaymentSchedule{},
		RecentActivity:    []ActivityItem{},
	}
}

// SetupFromState returns the SetupComplete action loading a whole seeded state, except its customer discounts.
func SetupFromState(s State) SetupComplete {
	s = s.Clone()
	return SetupComplete{
		Template:          s.Template,
		BusinessProfile:   s.BusinessProfile,
		Terminology:       s.Terminology,
		Components:        s.Components,
		Discounts:         s.Discounts,
		Groups:            s.Groups,
		Structures:        s.Structures,
		Customers:         s.Customers,
		PricingPlans:      s.PricingPlans,
		BillingCycles:     s.BillingCycles,
		Schedules:         s.Schedules,
		RecentActivity:    s.RecentActivity,
	}
}

func findTemplate(templates []TemplateConfig, id string) (TemplateConfig, bool) {
	for _, tpl := range templates {
		if tpl.ID == id {
			return tpl, true
		}
	}
	return TemplateConfig{}, false
}
