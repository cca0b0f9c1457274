package paymentlink

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/manishreddyt/easy-collections/core"
)

// Link statuses
const (
	StatusActive      = "active"
	StatusExpired     = "expired"
	StatusDeactivated = "deactivated"

	FilterAll = "all"
)

const (
	idLength       = 12
	shortURLPrefix = "rzp.io/l/"
	slugMaxLength  = 20
)

var (
	Statuses = []string{StatusActive, StatusExpired, StatusDeactivated}

	slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)
)

type (
	Customer struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}

	// Link is a shareable URL collecting a fixed amount.
	Link struct {
		ID              string      `json:"id"`
		Title           string      `json:"title"`
		Description     string      `json:"description"`
		Amount          float64     `json:"amount"`
		Status          string      `json:"status"`
		Created         string      `json:"created"`
		Views           int         `json:"views"`
		Paid            int         `json:"paid"`
		ShortURL        string      `json:"short_url"`
		ExpiryDate      null.String `json:"expiry_date"`
		PartialPayments bool        `json:"partial_payments"`
		Customer        Customer    `json:"customer"`
		Notes           string      `json:"notes"`
	}

	Counts struct {
		All         int `json:"all"`
		Active      int `json:"active"`
		Expired     int `json:"expired"`
		Deactivated int `json:"deactivated"`
	}

	Stats struct {
		TotalLinks   int     `json:"total_links"`
		ActiveLinks  int     `json:"active_links"`
		TotalRevenue float64 `json:"total_revenue"`
	}

	// Filter applies AND operation on its set fields.
	// Search does a case-insensitive match on one of Link.Title, Link.ID or Link.ShortURL.
	Filter struct {
		Status string `query:"status"`
		Search string `query:"search"`
	}
)

// ConversionRate returns the share of views that paid, as a percentage with one decimal.
func (l Link) ConversionRate() string {
	return ConversionRate(l.Paid, l.Views)
}

func ConversionRate(paid, views int) string {
	if views == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(paid)/float64(views)*100)
}

// ShortURL derives a link's short URL from its title.
func ShortURL(title string) string {
	slug := slugSeparators.ReplaceAllString(strings.ToLower(title), "-")
	if len(slug) > slugMaxLength {
		slug = slug[:slugMaxLength]
	}
	return shortURLPrefix + slug
}

func (f *Filter) Clean() {
	f.Status = core.CleanString(f.Status, true /* lower */)
	f.Search = core.CleanString(f.Search, true /* lower */)
}

func (f Filter) Match(l Link) bool {
	if f.Status != "" && f.Status != FilterAll && l.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Title), f.Search) ||
		strings.Contains(strings.ToLower(l.ID), f.Search) ||
		strings.Contains(strings.ToLower(l.ShortURL), f.Search)
}

// FilterLinks returns the links matching f, in order.
func FilterLinks(links []Link, f Filter) []Link {
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

func CountLinks(links []Link) Counts {
	counts := Counts{All: len(links)}
	for _, l := range links {
		switch l.Status {
		case StatusActive:
			counts.Active++
		case StatusExpired:
			counts.Expired++
		case StatusDeactivated:
			counts.Deactivated++
		}
	}
	return counts
}

func ComputeStats(links []Link) Stats {
	stats := Stats{TotalLinks: len(links)}
	for _, l := range links {
		if l.Status == StatusActive {
			stats.ActiveLinks++
		}
		stats.TotalRevenue += float64(l.Paid) * l.Amount
	}
	return stats
}
