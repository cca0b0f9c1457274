package collections

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/manishreddyt/easy-collections/core"
)

// Quick filters of the collections view
const (
	QuickAll     = "all"
	QuickOverdue = "overdue"
	QuickPaid    = "paid"
	QuickPending = "pending"
)

const suggestMinRatio = 0.7

// CustomerOrderingFields are the fields customer listings can be ordered by.
var CustomerOrderingFields = []string{"name", "customer_id", "enrollment_date", "total_due", "total_paid", "total_overdue"}

type (
	// CustomerFilter applies AND operation on its set fields.
	// Search does a case-insensitive match on one of Customer.Name, Customer.CustomerID or Customer.Email.
	CustomerFilter struct {
		Status  string `query:"status"`
		GroupID string `query:"group_id"`
		Search  string `query:"search"`
	}

	CustomerCounts struct {
		All    int `json:"all"`
		Active int `json:"active"`
		Paused int `json:"paused"`
		Exited int `json:"exited"`
	}

	// CollectionFilter filters the non-exited customers of the collections view.
	CollectionFilter struct {
		Quick   string `query:"filter"`
		GroupID string `query:"group_id"`
		Search  string `query:"search"`
	}

	CollectionTotals struct {
		TotalDue         float64 `json:"total_due"`
		TotalPaid        float64 `json:"total_paid"`
		TotalOverdue     float64 `json:"total_overdue"`
		TotalOutstanding float64 `json:"total_outstanding"`
	}

	CollectionView struct {
		Customers []Customer       `json:"customers"`
		Totals    CollectionTotals `json:"totals"`
	}
)

func (f *CustomerFilter) Clean() {
	f.Status = core.CleanString(f.Status, true /* lower */)
	f.GroupID = core.CleanString(f.GroupID)
	f.Search = core.CleanString(f.Search)
}

func (f CustomerFilter) Match(c Customer) bool {
	if f.Status != "" && f.Status != QuickAll && c.Status != f.Status {
		return false
	}
	if f.GroupID != "" && c.GroupID != f.GroupID {
		return false
	}
	return matchSearch(c, f.Search)
}

func (f *CollectionFilter) Clean() {
	f.Quick = core.CleanString(f.Quick, true /* lower */)
	f.GroupID = core.CleanString(f.GroupID)
	f.Search = core.CleanString(f.Search)
}

func (f CollectionFilter) Match(c Customer) bool {
	if c.Status == StatusExited {
		return false
	}
	switch f.Quick {
	case QuickOverdue:
		if c.TotalOverdue <= 0 {
			return false
		}
	case QuickPaid:
		if !(c.TotalDue > 0 && c.TotalPaid >= c.TotalDue) {
			return false
		}
	case QuickPending:
		if !(c.TotalDue > 0 && c.TotalPaid < c.TotalDue && c.TotalOverdue == 0) {
			return false
		}
	}
	if f.GroupID != "" && c.GroupID != f.GroupID {
		return false
	}
	return matchSearch(c, f.Search)
}

func matchSearch(c Customer, search string) bool {
	if search == "" {
		return true
	}
	return core.ContainsFold(c.Name, search) ||
		core.ContainsFold(c.CustomerID, search) ||
		core.ContainsFold(c.Email, search)
}

// FilterCustomers returns the customers matching match, in order.
func FilterCustomers(customers []Customer, match func(Customer) bool) []Customer {
	return filtered(customers, match)
}

func CountCustomers(customers []Customer) CustomerCounts {
	counts := CustomerCounts{All: len(customers)}
	for _, c := range customers {
		switch c.Status {
		case StatusActive:
			counts.Active++
		case StatusPaused:
			counts.Paused++
		case StatusExited:
			counts.Exited++
		}
	}
	return counts
}

func ComputeCollectionTotals(customers []Customer) CollectionTotals {
	var totals CollectionTotals
	for _, c := range customers {
		totals.TotalDue += c.TotalDue
		totals.TotalPaid += c.TotalPaid
		totals.TotalOverdue += c.TotalOverdue
		totals.TotalOutstanding += c.Outstanding()
	}
	return totals
}

// SortCustomers sorts customers in place; unknown fields are ignored.
func SortCustomers(customers []Customer, orderings []core.Ordering) {
	if len(orderings) == 0 {
		return
	}
	sort.SliceStable(customers, func(i, j int) bool {
		for _, ord := range orderings {
			cmp := compareCustomers(customers[i], customers[j], ord.Field)
			if cmp == 0 {
				continue
			}
			if ord.Ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})
}

func compareCustomers(a, b Customer, field string) int {
	switch field {
	case "name":
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "customer_id":
		return strings.Compare(a.CustomerID, b.CustomerID)
	case "enrollment_date":
		return compareDisplayDates(a.EnrollmentDate, b.EnrollmentDate)
	case "total_due":
		return compareFloats(a.TotalDue, b.TotalDue)
	case "total_paid":
		return compareFloats(a.TotalPaid, b.TotalPaid)
	case "total_overdue":
		return compareFloats(a.TotalOverdue, b.TotalOverdue)
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareDisplayDates compares enrollment dates, falling back to string order for unparsable ones.
func compareDisplayDates(a, b string) int {
	ta, errA := parseDisplayDate(a)
	tb, errB := parseDisplayDate(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return ta.Compare(tb)
}

// SuggestCustomers returns customers whose name is similar to query, most similar first.
func SuggestCustomers(customers []Customer, query string) []Customer {
	query = core.CleanString(query, true /* lower */)
	if query == "" {
		return []Customer{}
	}

	type match struct {
		customer Customer
		ratio    float64
	}
	matches := make([]match, 0)
	for _, c := range customers {
		ratio := similarity(query, strings.ToLower(c.Name))
		if ratio >= suggestMinRatio || core.ContainsFold(c.Name, query) {
			matches = append(matches, match{customer: c, ratio: ratio})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })

	out := make([]Customer, len(matches))
	for i, m := range matches {
		out[i] = m.customer
	}
	return out
}

func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).QuickRatio()
}
