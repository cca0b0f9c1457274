package collections

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/manishreddyt/easy-collections/core"
)

const reminderTemplate = "payment_reminder"

type reminderData struct {
	ContactName   string
	BusinessName  string
	CustomerName  string
	CustomerID    string
	GroupName     string
	AmountDue     float64
	AmountPaid    float64
	AmountOverdue float64
}

// Schedules

// QuerySchedules lists payment schedules, only customerID's when set.
func (svc *Service) QuerySchedules(ctx context.Context, customerID string) ([]PaymentSchedule, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return nil, err
	}
	customerID = core.CleanString(customerID)
	if customerID == "" {
		return st.Schedules, nil
	}
	return filtered(st.Schedules, func(s PaymentSchedule) bool { return s.CustomerID == customerID }), nil
}

// GenerateSchedule splits the customer's group structure total into the installments of a pricing plan.
// The plan defaults to the customer's plan, then to the group's default plan.
func (svc *Service) GenerateSchedule(ctx context.Context, ns NewSchedule) (PaymentSchedule, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return PaymentSchedule{}, err
	}
	if err = svc.check(&ns, st.Terminology); err != nil {
		return PaymentSchedule{}, err
	}
	cust, ok := findCustomer(st.Customers, ns.CustomerID)
	if !ok {
		return PaymentSchedule{}, invalid(ErrCustomerNotFound, "customer_id", ErrCustomerNotFound.Error())
	}
	for _, s := range st.Schedules {
		if s.CustomerID == cust.ID {
			return PaymentSchedule{}, invalid(ErrScheduleExists, "customer_id", ErrScheduleExists.Error())
		}
	}

	planID := ns.PricingPlanID
	if planID == "" && cust.PricingPlanID.Valid {
		planID = cust.PricingPlanID.String
	}
	if planID == "" {
		if g, ok := findGroup(st.Groups, cust.GroupID); ok && g.DefaultPricingPlanID.Valid {
			planID = g.DefaultPricingPlanID.String
		}
	}
	plan, ok := findPlan(st.PricingPlans, planID)
	if !ok {
		return PaymentSchedule{}, invalid(ErrPlanNotFound, "pricing_plan_id", ErrPlanNotFound.Error())
	}

	total := groupStructureTotal(st, cust.GroupID)
	if total <= 0 {
		return PaymentSchedule{}, invalid(ErrNoBillableAmount, "customer_id", ErrNoBillableAmount.Error())
	}
	start, _ := core.ParseDate(ns.StartDate) // already validated

	sch := PaymentSchedule{
		ID:            core.GenerateID("sch", 8),
		CustomerID:    cust.ID,
		Type:          plan.Type,
		PricingPlanID: null.StringFrom(plan.ID),
		Installments:  BuildInstallments(plan, total, start),
		TotalAmount:   total,
	}
	if _, err = svc.dispatch(ctx, AddSchedule{Schedule: sch}); err != nil {
		return PaymentSchedule{}, err
	}
	return sch, nil
}

// RecordPayment adds amount to an installment's paid amount; the installment is paid once it is fully covered.
// An overdue installment stays overdue until then, and each payment on it lowers the customer's overdue
// balance by the part of the installment it covers.
func (svc *Service) RecordPayment(ctx context.Context, scheduleID, installmentID string, np NewPayment) (PaymentSchedule, error) {
	st, err := svc.update(ctx, func(st State) ([]Action, error) {
		sch, ok := findSchedule(st.Schedules, scheduleID)
		if !ok {
			return nil, ErrScheduleNotFound
		}
		inst, ok := sch.installment(installmentID)
		if !ok {
			return nil, ErrInstallmentNotFound
		}
		if err := svc.check(&np, st.Terminology); err != nil {
			return nil, err
		}
		if inst.Status == InstallmentPaid {
			return nil, invalid(ErrInstallmentPaid, "installment_id", ErrInstallmentPaid.Error())
		}
		return paymentActions(st, sch, inst, np), nil
	})
	if err != nil {
		return PaymentSchedule{}, err
	}
	sch, _ := findSchedule(st.Schedules, scheduleID)
	return sch, nil
}

func paymentActions(st State, sch PaymentSchedule, inst Installment, np NewPayment) []Action {
	paidDate := np.PaidDate
	if paidDate == "" {
		paidDate = core.NowFunc().Format(core.DateLayout)
	}
	amount := core.Round2(np.Amount)
	remaining := core.Round2(math.Max(0, inst.Amount-inst.PaidAmount))
	paid := core.Round2(inst.PaidAmount + amount)

	status := InstallmentPartial
	switch {
	case paid >= inst.Amount:
		status = InstallmentPaid
	case inst.Status == InstallmentOverdue:
		status = InstallmentOverdue
	}

	actions := []Action{
		UpdateInstallmentStatus{
			ScheduleID:    sch.ID,
			InstallmentID: inst.ID,
			Status:        status,
			PaidAmount:    paid,
			PaidDate:      null.StringFrom(paidDate),
		},
	}

	customerName := "Unknown"
	if cust, ok := findCustomer(st.Customers, sch.CustomerID); ok {
		customerName = cust.Name
		totalPaid := core.Round2(cust.TotalPaid + amount)
		totalOverdue := cust.TotalOverdue
		if inst.Status == InstallmentOverdue {
			totalOverdue = core.Round2(math.Max(0, totalOverdue-math.Min(amount, remaining)))
		}
		actions = append(actions, UpdateCustomer{
			ID:      cust.ID,
			Updates: CustomerPatch{TotalPaid: &totalPaid, TotalOverdue: &totalOverdue},
		})
	}
	return append(actions, AddActivity{Item: newActivity(
		ActivityPaymentReceived,
		fmt.Sprintf("%s payment received from %s", inst.Label, customerName),
		customerName,
		null.Float64From(amount),
	)})
}

// ApplyLateFees sets the late fee of every overdue installment from its customer's group config, as of now.
// It returns the number of installments whose late fee changed.
func (svc *Service) ApplyLateFees(ctx context.Context, now time.Time) (int, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return 0, err
	}

	var actions []Action
	for _, sch := range st.Schedules {
		cust, ok := findCustomer(st.Customers, sch.CustomerID)
		if !ok {
			continue
		}
		grp, ok := findGroup(st.Groups, cust.GroupID)
		if !ok {
			continue
		}
		for _, inst := range sch.Installments {
			if inst.Status != InstallmentOverdue {
				continue
			}
			fee := LateFee(grp.LateFeeConfig, inst.Amount, inst.DueDate, now)
			if fee != inst.LateFee {
				actions = append(actions, SetInstallmentLateFee{ScheduleID: sch.ID, InstallmentID: inst.ID, LateFee: fee})
			}
		}
	}
	if len(actions) == 0 {
		return 0, nil
	}
	if _, err = svc.dispatch(ctx, actions...); err != nil {
		return 0, err
	}
	return len(actions), nil
}

// Reminders

// SendReminders emails a payment reminder to every non-exited customer with an overdue balance, only groupID's when set.
// Reminders that fail to render are logged and skipped. It returns the number of reminders sent.
func (svc *Service) SendReminders(ctx context.Context, groupID string) (int, error) {
	st, err := svc.state(ctx)
	if err != nil {
		return 0, err
	}
	groupID = core.CleanString(groupID)
	if groupID != "" {
		if _, ok := findGroup(st.Groups, groupID); !ok {
			return 0, ErrGroupNotFound
		}
	}

	var messages []*core.EmailMessage
	for _, c := range st.Customers {
		if c.Status == StatusExited || c.TotalOverdue <= 0 || c.Email == "" {
			continue
		}
		if groupID != "" && c.GroupID != groupID {
			continue
		}
		var groupName string
		if g, ok := findGroup(st.Groups, c.GroupID); ok {
			groupName = g.Name
		}
		contact := c.ContactName
		if contact == "" {
			contact = c.Name
		}
		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{{Name: contact, Address: c.Email}},
			Subject:      fmt.Sprintf("Payment reminder: %s", c.Name),
			TemplateName: reminderTemplate,
			TemplateData: reminderData{
				ContactName:   contact,
				BusinessName:  st.BusinessProfile.Name,
				CustomerName:  c.Name,
				CustomerID:    c.CustomerID,
				GroupName:     groupName,
				AmountDue:     c.TotalDue,
				AmountPaid:    c.TotalPaid,
				AmountOverdue: c.TotalOverdue,
			},
		})
	}
	ready := messages[:0]
	for _, m := range messages {
		if err := m.Render(svc.conf); err != nil {
			svc.logger.Error(fmt.Sprintf("rendering reminder to %s: %v", m.To[0].Address, err), err)
			continue
		}
		if m.HasContent() {
			ready = append(ready, m)
		}
	}
	if len(ready) == 0 {
		return 0, nil
	}

	svc.mailSvc.SendMessages(ready...)
	svc.logger.Info(fmt.Sprintf("sent %d payment reminders", len(ready)))

	sent := newActivity(
		ActivityReminderSent,
		fmt.Sprintf("Payment reminder sent to %d %s with overdue payments", len(ready), st.Terminology.CustomerPlural),
		"Multiple",
		null.Float64{},
	)
	if _, err = svc.dispatch(ctx, AddActivity{Item: sent}); err != nil {
		return 0, err
	}
	return len(ready), nil
}
