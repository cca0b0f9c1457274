package collections

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/manishreddyt/easy-collections/core"
)

var testNow = time.Date(2026, time.January, 20, 9, 0, 0, 0, time.UTC)

type memRepo struct {
	mu    sync.Mutex
	state State
}

func (r *memRepo) State(context.Context) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone(), nil
}

func (r *memRepo) Dispatch(_ context.Context, actions ...Action) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range actions {
		r.state = Reduce(r.state, a)
	}
	return r.state.Clone(), nil
}

func (r *memRepo) Update(_ context.Context, fn func(State) ([]Action, error)) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions, err := fn(r.state.Clone())
	if err != nil {
		return State{}, err
	}
	for _, a := range actions {
		r.state = Reduce(r.state, a)
	}
	return r.state.Clone(), nil
}

type memCatalog struct {
	templates []TemplateConfig
	demo      State
}

func (c memCatalog) Templates() ([]TemplateConfig, error) { return c.templates, nil }
func (c memCatalog) DemoState() (State, error)            { return c.demo, nil }

type mailMock struct {
	sent []*core.EmailMessage
}

func (m *mailMock) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

var educationTemplate = TemplateConfig{
	ID:          TemplateEducation,
	DisplayName: "Education",
	Terminology: Terminology{
		Customer: "Student", CustomerPlural: "Students", Contact: "Parent",
		Group: "Class", GroupPlural: "Classes", BillingPeriod: "Academic Year", CustomerID: "Admission Number",
	},
	DefaultComponents: []BillingComponent{
		{Name: "Tuition Fee", Frequency: FrequencyRecurring, Required: true, Amount: 50000},
		{Name: "Uniform", Frequency: FrequencyOneTime, Amount: 3500},
	},
	DefaultDiscounts: []TemplateDiscount{
		{Name: "Sibling Discount", Category: DiscountFamilyLinked, DefaultValue: "10%"},
		{Name: "Merit Scholarship", Category: DiscountMerit, DefaultValue: ""},
	},
	DefaultSchedule: PlanQuarterly,
	DefaultLateFee:  LateFeeConfig{Enabled: true, Type: LateFeeFlat, Value: 500, GracePeriodDays: 10, CapAmount: null.Float64From(2000)},
}

// testState returns a small education business: 2 groups, 6 customers & 2 schedules.
func testState() State {
	lateFee := LateFeeConfig{Enabled: true, Type: LateFeeFlat, Value: 500, GracePeriodDays: 10, CapAmount: null.Float64From(2000)}
	return State{
		IsSetUp:         true,
		Template:        TemplateEducation,
		BusinessProfile: BusinessProfile{Name: "Sunrise School", Industry: TemplateEducation},
		Terminology:     educationTemplate.Terminology,
		Components: []BillingComponent{
			{ID: "comp_1", Name: "Tuition Fee", Frequency: FrequencyRecurring, Required: true, Amount: 50000},
			{ID: "comp_2", Name: "Transport Fee", Frequency: FrequencyRecurring, Amount: 8000},
			{ID: "comp_3", Name: "Uniform", Frequency: FrequencyOneTime, Amount: 3500},
		},
		Groups: []CustomerGroup{
			{ID: "grp_1", Name: "Class 6", CustomerCount: 3, BillingStructureID: null.StringFrom("struct_1"), DefaultPricingPlanID: null.StringFrom("plan_1"), DefaultSchedule: PlanQuarterly, LateFeeConfig: lateFee},
			{ID: "grp_2", Name: "Class 7", CustomerCount: 2, BillingStructureID: null.StringFrom("struct_2"), DefaultPricingPlanID: null.StringFrom("plan_1"), DefaultSchedule: PlanQuarterly, LateFeeConfig: lateFee},
		},
		Structures: []BillingStructure{
			{ID: "struct_1", Name: "Class 6 Fees", GroupID: "grp_1", TotalAmount: 48000, Components: []StructureComponent{{ComponentID: "comp_1", Amount: 40000}, {ComponentID: "comp_2", Amount: 8000}}},
			{ID: "struct_2", Name: "Class 7 Fees", GroupID: "grp_2", TotalAmount: 60000, Components: []StructureComponent{{ComponentID: "comp_1", Amount: 50000}, {ComponentID: "comp_2", Amount: 8000}, {ComponentID: "comp_3", Amount: 2000}}},
		},
		Discounts: []Discount{
			{ID: "disc_1", Name: "Sibling Discount", Category: DiscountFamilyLinked, Value: 10, ValueType: ValuePercentage, Recurring: true},
		},
		PricingPlans: []PricingPlan{
			{ID: "plan_1", Name: "Quarterly", Type: PlanQuarterly, SplitCount: 4},
			{ID: "plan_2", Name: "Annual", Type: PlanAnnual, SplitCount: 1},
		},
		Customers: []Customer{
			{ID: "cust_1", Name: "Aarav Sharma", ContactName: "Rajesh Sharma", Email: "rajesh@email.com", GroupID: "grp_1", CustomerID: "ADM-001", Status: StatusActive, EnrollmentDate: "01 Apr 2025", PricingPlanID: null.StringFrom("plan_1"), TotalDue: 48000, TotalPaid: 36000},
			{ID: "cust_2", Name: "Vivaan Patel", ContactName: "Suresh Patel", Email: "suresh@email.com", GroupID: "grp_1", CustomerID: "ADM-002", Status: StatusActive, EnrollmentDate: "01 Apr 2024", PricingPlanID: null.StringFrom("plan_1"), TotalDue: 48000, TotalPaid: 24000, TotalOverdue: 12000},
			{ID: "cust_3", Name: "Rohan Bhat", GroupID: "grp_1", CustomerID: "ADM-003", Status: StatusActive, EnrollmentDate: "01 Apr 2025"},
			{ID: "cust_4", Name: "Myra Singh", Email: "deepika@email.com", GroupID: "grp_2", CustomerID: "ADM-004", Status: StatusPaused, EnrollmentDate: "01 Apr 2025", TotalDue: 60000, TotalPaid: 0, TotalOverdue: 15000},
			{ID: "cust_5", Name: "Aanya Desai", GroupID: "grp_2", CustomerID: "ADM-005", Status: StatusActive, EnrollmentDate: "01 Apr 2023", PricingPlanID: null.StringFrom("plan_2"), TotalDue: 60000, TotalPaid: 60000},
			{ID: "cust_6", Name: "Anika Chatterjee", Email: "sourav@email.com", GroupID: "grp_2", CustomerID: "ADM-006", Status: StatusExited, EnrollmentDate: "01 Apr 2022", TotalDue: 60000, TotalPaid: 30000, TotalOverdue: 30000},
		},
		BillingCycles: []BillingCycle{
			{ID: "bc_1", Name: "Q3", PricingPlanID: "plan_1", GroupIDs: []string{"grp_1", "grp_2"}, CollectionDate: "2025-09-15", DueDate: "2025-10-01", Status: CycleCompleted, TotalExpected: 100, TotalCollected: 80},
			{ID: "bc_2", Name: "Q4", PricingPlanID: "plan_1", GroupIDs: []string{"grp_1", "grp_2"}, CollectionDate: "2025-12-15", DueDate: "2026-01-01", Status: CycleActive, TotalExpected: 200, TotalCollected: 50},
			{ID: "bc_3", Name: "Q1 FY27", PricingPlanID: "plan_1", GroupIDs: []string{"grp_1", "grp_2"}, CollectionDate: "2026-03-15", DueDate: "2026-04-01", Status: CycleDraft},
		},
		Schedules: []PaymentSchedule{
			{ID: "sch_1", CustomerID: "cust_1", Type: PlanQuarterly, PricingPlanID: null.StringFrom("plan_1"), TotalAmount: 48000, TotalPaid: 36000, Installments: []Installment{
				{ID: "inst_1", Number: 1, Label: "Q1 (Apr-Jun)", Amount: 12000, DueDate: "2025-04-01", Status: InstallmentPaid, PaidAmount: 12000, PaidDate: null.StringFrom("2025-03-28")},
				{ID: "inst_2", Number: 2, Label: "Q2 (Jul-Sep)", Amount: 12000, DueDate: "2025-07-01", Status: InstallmentPaid, PaidAmount: 12000, PaidDate: null.StringFrom("2025-07-03")},
				{ID: "inst_3", Number: 3, Label: "Q3 (Oct-Dec)", Amount: 12000, DueDate: "2025-10-01", Status: InstallmentPaid, PaidAmount: 12000, PaidDate: null.StringFrom("2025-10-05")},
				{ID: "inst_4", Number: 4, Label: "Q4 (Jan-Mar)", Amount: 12000, DueDate: "2026-02-01", Status: InstallmentUpcoming},
			}},
			{ID: "sch_2", CustomerID: "cust_2", Type: PlanQuarterly, PricingPlanID: null.StringFrom("plan_1"), TotalAmount: 48000, TotalPaid: 24000, Installments: []Installment{
				{ID: "inst_5", Number: 1, Label: "Q1 (Apr-Jun)", Amount: 12000, DueDate: "2025-04-01", Status: InstallmentPaid, PaidAmount: 12000},
				{ID: "inst_6", Number: 2, Label: "Q2 (Jul-Sep)", Amount: 12000, DueDate: "2025-07-01", Status: InstallmentPaid, PaidAmount: 12000},
				{ID: "inst_7", Number: 3, Label: "Q3 (Oct-Dec)", Amount: 12000, DueDate: "2025-10-01", Status: InstallmentOverdue},
				{ID: "inst_8", Number: 4, Label: "Q4 (Jan-Mar)", Amount: 12000, DueDate: "2026-01-01", Status: InstallmentOverdue},
			}},
		},
		RecentActivity: []ActivityItem{
			{ID: "act_1", Type: ActivityPaymentReceived, Description: "Q3 fee received", Timestamp: "2025-10-05 11:00 AM", CustomerName: "Aarav Sharma", Amount: null.Float64From(12000)},
			{ID: "act_2", Type: ActivityOverdueAlert, Description: "Q3 fee overdue", Timestamp: "2025-10-12 08:00 AM", CustomerName: "Vivaan Patel", Amount: null.Float64From(12000)},
		},
	}
}

func newTestService(st State) (*Service, *memRepo, *mailMock) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	repo := &memRepo{state: st}
	mailSvc := &mailMock{}
	catalog := &memCatalog{templates: []TemplateConfig{educationTemplate}, demo: testState()}
	svc := NewService(repo, catalog, mailSvc, validate, translator, core.NewTestConfig(), &nopLogger{})
	return svc, repo, mailSvc
}

// freezeTime makes core.NowFunc return testNow until the test ends.
func freezeTime(t interface{ Cleanup(func()) }) {
	core.NowFunc = func() time.Time { return testNow }
	t.Cleanup(func() { core.NowFunc = time.Now })
}
