package collections

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/manishreddyt/easy-collections/core"
)

// Groups

func (svc *Service) QueryGroups(ctx context.Context) ([]CustomerGroup, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return nil, err
	}
	return st.Groups, nil
}

// CreateGroup adds a group; its late fee config & schedule default to the business template's.
func (svc *Service) CreateGroup(ctx context.Context, ng NewGroup) (CustomerGroup, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return CustomerGroup{}, err
	}
	if err = svc.check(&ng, st.Terminology); err != nil {
		return CustomerGroup{}, err
	}
	if ng.BillingStructureID != "" {
		if _, ok := findStructure(st.Structures, ng.BillingStructureID); !ok {
			return CustomerGroup{}, invalid(ErrStructureNotFound, "billing_structure_id", ErrStructureNotFound.Error())
		}
	}
	if ng.DefaultPricingPlanID != "" {
		if _, ok := findPlan(st.PricingPlans, ng.DefaultPricingPlanID); !ok {
			return CustomerGroup{}, invalid(ErrPlanNotFound, "default_pricing_plan_id", ErrPlanNotFound.Error())
		}
	}

	grp := CustomerGroup{
		ID:                   core.GenerateID("grp", 8),
		Name:                 ng.Name,
		Description:          ng.Description,
		BillingStructureID:   null.NewString(ng.BillingStructureID, ng.BillingStructureID != ""),
		DefaultPricingPlanID: null.NewString(ng.DefaultPricingPlanID, ng.DefaultPricingPlanID != ""),
		DefaultSchedule:      ng.DefaultSchedule,
	}

	var tpl TemplateConfig
	if ng.LateFeeConfig == nil || grp.DefaultSchedule == "" {
		templates, err := svc.catalog.Templates()
		if err != nil {
			return CustomerGroup{}, errors.Wrap(err, "loading templates")
		}
		tpl, _ = findTemplate(templates, st.Template)
	}
	if ng.LateFeeConfig != nil {
		grp.LateFeeConfig = *ng.LateFeeConfig
	} else {
		grp.LateFeeConfig = tpl.DefaultLateFee
	}
	if grp.DefaultSchedule == "" {
		grp.DefaultSchedule = tpl.DefaultSchedule
	}

	if _, err = svc.dispatch(ctx, AddGroup{Group: grp}); err != nil {
		return CustomerGroup{}, err
	}
	return grp, nil
}

// Components

func (svc *Service) QueryComponents(ctx context.Context) ([]BillingComponent, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return nil, err
	}
	return st.Components, nil
}

func (svc *Service) CreateComponent(ctx context.Context, nc NewComponent) (BillingComponent, error) {
	if err := svc.check(&nc, Terminology{}); err != nil {
		return BillingComponent{}, err
	}
	comp := BillingComponent{
		ID:          core.GenerateID("comp", 8),
		Name:        nc.Name,
		Frequency:   nc.Frequency,
		Required:    nc.Required,
		Amount:      nc.Amount,
		Description: nc.Description,
	}
	if _, err := svc.dispatch(ctx, AddComponent{Component: comp}); err != nil {
		return BillingComponent{}, err
	}
	return comp, nil
}

func (svc *Service) UpdateComponent(ctx context.Context, id string, patch ComponentPatch) (BillingComponent, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return BillingComponent{}, err
	}
	if _, ok := findComponent(st.Components, id); !ok {
		return BillingComponent{}, ErrComponentNotFound
	}
	if err = svc.check(&patch, st.Terminology); err != nil {
		return BillingComponent{}, err
	}
	if st, err = svc.dispatch(ctx, UpdateComponent{ID: id, Updates: patch}); err != nil {
		return BillingComponent{}, err
	}
	comp, _ := findComponent(st.Components, id)
	return comp, nil
}

func (svc *Service) DeleteComponent(ctx context.Context, id string) error {
	st, err := svc.state(ctx)
	if err != nil {
		return err
	}
	if _, ok := findComponent(st.Components, id); !ok {
		return ErrComponentNotFound
	}
	_, err = svc.dispatch(ctx, DeleteComponent{ID: id})
	return err
}

// Structures

func (svc *Service) QueryStructures(ctx context.Context) ([]BillingStructure, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return nil, err
	}
	return st.Structures, nil
}

// CreateStructure adds a billing structure; its total is the sum of its lines.
func (svc *Service) CreateStructure(ctx context.Context, ns NewStructure) (BillingStructure, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return BillingStructure{}, err
	}
	if err = svc.check(&ns, st.Terminology); err != nil {
		return BillingStructure{}, err
	}
	if _, ok := findGroup(st.Groups, ns.GroupID); !ok {
		return BillingStructure{}, invalid(ErrGroupNotFound, "group_id", ErrGroupNotFound.Error())
	}

	var total float64
	lines := make([]StructureComponent, len(ns.Components))
	for i, sc := range ns.Components {
		if _, ok := findComponent(st.Components, sc.ComponentID); !ok {
			return BillingStructure{}, invalid(ErrComponentNotFound, fmt.Sprintf("components[%d].component_id", i), ErrComponentNotFound.Error())
		}
		lines[i] = sc
		total += sc.Amount
	}

	structure := BillingStructure{
		ID:          core.GenerateID("struct", 8),
		Name:        ns.Name,
		GroupID:     ns.GroupID,
		Components:  lines,
		TotalAmount: core.Round2(total),
	}
	if _, err = svc.dispatch(ctx, AddStructure{Structure: structure}); err != nil {
		return BillingStructure{}, err
	}
	return structure, nil
}

// Discounts

func (svc *Service) QueryDiscounts(ctx context.Context) ([]Discount, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return nil, err
	}
	return st.Discounts, nil
}

func (svc *Service) CreateDiscount(ctx context.Context, nd NewDiscount) (Discount, error) {
	if err := svc.check(&nd, Terminology{}); err != nil {
		return Discount{}, err
	}
	d := Discount{
		ID:          core.GenerateID("disc", 8),
		Name:        nd.Name,
		Category:    nd.Category,
		Value:       nd.Value,
		ValueType:   nd.ValueType,
		Recurring:   nd.Recurring,
		Description: nd.Description,
	}
	if _, err := svc.dispatch(ctx, AddDiscount{Discount: d}); err != nil {
		return Discount{}, err
	}
	return d, nil
}

func (svc *Service) ApplyDiscount(ctx context.Context, customerID string, ncd NewCustomerDiscount) (CustomerDiscount, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return CustomerDiscount{}, err
	}
	if _, ok := findCustomer(st.Customers, customerID); !ok {
		return CustomerDiscount{}, ErrCustomerNotFound
	}
	if err = svc.check(&ncd, st.Terminology); err != nil {
		return CustomerDiscount{}, err
	}
	if _, ok := findDiscount(st.Discounts, ncd.DiscountID); !ok {
		return CustomerDiscount{}, invalid(ErrDiscountNotFound, "discount_id", ErrDiscountNotFound.Error())
	}

	cd := CustomerDiscount{
		DiscountID:  ncd.DiscountID,
		CustomerID:  customerID,
		AppliedDate: core.NowFunc().Format(core.DateLayout),
		Reason:      ncd.Reason,
	}
	if _, err = svc.dispatch(ctx, ApplyDiscount{CustomerDiscount: cd}); err != nil {
		return CustomerDiscount{}, err
	}
	return cd, nil
}

// Pricing plans

func (svc *Service) QueryPricingPlans(ctx context.Context) ([]PricingPlan, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return nil, err
	}
	return st.PricingPlans, nil
}

// CreatePricingPlan adds a plan; only custom plans set their own split count.
func (svc *Service) CreatePricingPlan(ctx context.Context, np NewPricingPlan) (PricingPlan, error) {
	if err := svc.check(&np, Terminology{}); err != nil {
		return PricingPlan{}, err
	}
	split := SplitCount(np.Type)
	if np.Type == PlanCustom {
		if np.SplitCount < 1 {
			return PricingPlan{}, invalid(ErrSplitCount, "split_count", ErrSplitCount.Error())
		}
		split = np.SplitCount
	}

	plan := PricingPlan{
		ID:          core.GenerateID("plan", 8),
		Name:        np.Name,
		Type:        np.Type,
		SplitCount:  split,
		Description: np.Description,
	}
	if _, err := svc.dispatch(ctx, AddPricingPlan{Plan: plan}); err != nil {
		return PricingPlan{}, err
	}
	return plan, nil
}

// Billing cycles

func (svc *Service) QueryBillingCycles(ctx context.Context) ([]BillingCycle, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return nil, err
	}
	return st.BillingCycles, nil
}

func (svc *Service) CreateBillingCycle(ctx context.Context, nbc NewBillingCycle) (BillingCycle, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return BillingCycle{}, err
	}
	if err = svc.check(&nbc, st.Terminology); err != nil {
		return BillingCycle{}, err
	}
	if err = checkCycleRefs(st, nbc.PricingPlanID, nbc.GroupIDs); err != nil {
		return BillingCycle{}, err
	}

	bc := BillingCycle{
		ID:             core.GenerateID("bc", 8),
		Name:           nbc.Name,
		PricingPlanID:  nbc.PricingPlanID,
		GroupIDs:       append([]string(nil), nbc.GroupIDs...),
		CollectionDate: nbc.CollectionDate,
		DueDate:        nbc.DueDate,
		Status:         CycleDraft,
		CreatedAt:      core.NowFunc().Format(core.DateLayout),
	}
	if _, err = svc.dispatch(ctx, AddBillingCycle{Cycle: bc}); err != nil {
		return BillingCycle{}, err
	}
	return bc, nil
}

func (svc *Service) UpdateBillingCycle(ctx context.Context, id string, patch BillingCyclePatch) (BillingCycle, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return BillingCycle{}, err
	}
	bc, ok := findCycle(st.BillingCycles, id)
	if !ok {
		return BillingCycle{}, ErrCycleNotFound
	}
	if err = svc.check(&patch, st.Terminology); err != nil {
		return BillingCycle{}, err
	}
	planID, groupIDs := bc.PricingPlanID, bc.GroupIDs
	if patch.PricingPlanID != nil {
		planID = *patch.PricingPlanID
	}
	if patch.GroupIDs != nil {
		groupIDs = *patch.GroupIDs
	}
	if err = checkCycleRefs(st, planID, groupIDs); err != nil {
		return BillingCycle{}, err
	}

	if st, err = svc.dispatch(ctx, UpdateBillingCycle{ID: id, Updates: patch}); err != nil {
		return BillingCycle{}, err
	}
	bc, _ = findCycle(st.BillingCycles, id)
	return bc, nil
}

// StartBillingCycle activates a draft cycle, totalling what its groups' non-exited customers owe for one installment.
// One payment link is generated & sent per customer.
func (svc *Service) StartBillingCycle(ctx context.Context, id string) (BillingCycle, error) {
	st, err := svc.update(ctx, func(st State) ([]Action, error) {
		bc, ok := findCycle(st.BillingCycles, id)
		if !ok {
			return nil, ErrCycleNotFound
		}
		if bc.Status != CycleDraft {
			return nil, invalid(ErrCycleNotDraft, "status", ErrCycleNotDraft.Error())
		}
		plan, ok := findPlan(st.PricingPlans, bc.PricingPlanID)
		if !ok {
			return nil, invalid(ErrPlanNotFound, "pricing_plan_id", ErrPlanNotFound.Error())
		}
		split := plan.SplitCount
		if split < 1 {
			split = 1
		}

		var customers int
		var expected float64
		for _, gid := range bc.GroupIDs {
			perCustomer := groupStructureTotal(st, gid) / float64(split)
			for _, c := range st.Customers {
				if c.GroupID == gid && c.Status != StatusExited {
					customers++
					expected += perCustomer
				}
			}
		}

		status := CycleActive
		expected = core.Round2(expected)
		patch := BillingCyclePatch{
			Status:         &status,
			TotalCustomers: &customers,
			TotalExpected:  &expected,
			LinksGenerated: &customers,
			LinksSent:      &customers,
		}
		started := newActivity(
			ActivityBillingCycleStarted,
			fmt.Sprintf("%s billing cycle initiated: %d Payment Links generated and sent", bc.Name, customers),
			"All "+st.Terminology.CustomerPlural,
			null.Float64{},
		)
		return []Action{UpdateBillingCycle{ID: id, Updates: patch}, AddActivity{Item: started}}, nil
	})
	if err != nil {
		return BillingCycle{}, err
	}
	bc, _ := findCycle(st.BillingCycles, id)
	return bc, nil
}

func checkCycleRefs(st State, planID string, groupIDs []string) error {
	if _, ok := findPlan(st.PricingPlans, planID); !ok {
		return invalid(ErrPlanNotFound, "pricing_plan_id", ErrPlanNotFound.Error())
	}
	for _, gid := range groupIDs {
		if _, ok := findGroup(st.Groups, gid); !ok {
			return invalid(ErrGroupNotFound, "group_ids", fmt.Sprintf("%s: %s", gid, ErrGroupNotFound.Error()))
		}
	}
	return nil
}

// groupStructureTotal returns the total of the group's billing structure, 0 if it has none.
func groupStructureTotal(st State, groupID string) float64 {
	if g, ok := findGroup(st.Groups, groupID); ok && g.BillingStructureID.Valid {
		if s, ok := findStructure(st.Structures, g.BillingStructureID.String); ok {
			return s.TotalAmount
		}
	}
	for _, s := range st.Structures {
		if s.GroupID == groupID {
			return s.TotalAmount
		}
	}
	return 0
}

// lookups

func findComponent(components []BillingComponent, id string) (BillingComponent, bool) {
	for _, c := range components {
		if c.ID == id {
			return c, true
		}
	}
	return BillingComponent{}, false
}

func findStructure(structures []BillingStructure, id string) (BillingStructure, bool) {
	for _, s := range structures {
		if s.ID == id {
			return s, true
		}
	}
	return BillingStructure{}, false
}

func findDiscount(discounts []Discount, id string) (Discount, bool) {
	for _, d := range discounts {
		if d.ID == id {
			return d, true
		}
	}
	return Discount{}, false
}

func findPlan(plans []PricingPlan, id string) (PricingPlan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return PricingPlan{}, false
}

func findCycle(cycles []BillingCycle, id string) (BillingCycle, bool) {
	for _, bc := range cycles {
		if bc.ID == id {
			return bc, true
		}
	}
	return BillingCycle{}, false
}

func findSchedule(schedules []PaymentSchedule, id string) (PaymentSchedule, bool) {
	for _, s := range schedules {
		if s.ID == id {
			return s, true
		}
	}
	return PaymentSchedule{}, false
}
