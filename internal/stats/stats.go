// Package stats computes derived figures from raw rows. Every function here
// is pure: same rows (and same "now" where a time window applies) give the
// same answer, and none of them can fail.
package stats

import (
	"time"

	"github.com/yahyahoussini/client-harmony-hub/internal/models"
)

// UnknownClientName is the sentinel used when an invoice's client is missing
// from the join snapshot.
const UnknownClientName = "Unknown Client"

// ClientStats summarizes the client list.
type ClientStats struct {
	Total        int     `json:"total"`
	Active       int     `json:"active"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// InvoiceStats holds per-status amount sums over a set of invoices.
type InvoiceStats struct {
	Total       int     `json:"total"`
	Paid        float64 `json:"paid"`
	Overdue     float64 `json:"overdue"`
	Pending     float64 `json:"pending"`
	Outstanding float64 `json:"outstanding"`
}

// DashboardStats is the landing-page summary. PendingReminders counts active
// subscriptions; there is no separate reminder entity.
type DashboardStats struct {
	TotalClients     int     `json:"totalClients"`
	ActiveClients    int     `json:"activeClients"`
	OpenInvoices     float64 `json:"openInvoices"`
	RevenueThisMonth float64 `json:"revenueThisMonth"`
	PendingReminders int     `json:"pendingReminders"`
}

// ClientWithStats decorates a client row with its paid-invoice total.
type ClientWithStats struct {
	models.Client
	TotalBilled  float64   `json:"total_billed"`
	LastActivity time.Time `json:"last_activity"`
}

// InvoiceWithClient decorates an invoice row with its client's name.
type InvoiceWithClient struct {
	models.Invoice
	ClientName string `json:"client_name"`
}

// TotalBilledByClient groups invoices by client_id and sums the amounts of
// paid rows. Clients absent from the map billed nothing.
func TotalBilledByClient(invoices []models.Invoice) map[string]float64 {
	billed := make(map[string]float64)
	for _, inv := range invoices {
		if inv.Status == models.InvoiceStatusPaid {
			billed[inv.ClientID] += inv.Amount
		}
	}
	return billed
}

// DecorateClients maps raw client rows to their list view, attaching
// total_billed from the invoice snapshot.
func DecorateClients(clients []models.Client, invoices []models.Invoice) []ClientWithStats {
	billed := TotalBilledByClient(invoices)
	out := make([]ClientWithStats, 0, len(clients))
	for _, c := range clients {
		out = append(out, ClientWithStats{
			Client:       c,
			TotalBilled:  billed[c.ID],
			LastActivity: c.UpdatedAt,
		})
	}
	return out
}

// ComputeClientStats derives the client list summary. TotalRevenue is the sum
// of every client's paid-invoice total; clients without invoices contribute 0.
func ComputeClientStats(clients []models.Client, invoices []models.Invoice) ClientStats {
	billed := TotalBilledByClient(invoices)
	s := ClientStats{Total: len(clients)}
	for _, c := range clients {
		if c.Status == models.ClientStatusActive {
			s.Active++
		}
		s.TotalRevenue += billed[c.ID]
	}
	return s
}

// SummarizeClients derives ClientStats from an already-decorated list, the
// same figures ComputeClientStats yields from raw rows.
func SummarizeClients(clients []ClientWithStats) ClientStats {
	s := ClientStats{Total: len(clients)}
	for _, c := range clients {
		if c.Status == models.ClientStatusActive {
			s.Active++
		}
		s.TotalRevenue += c.TotalBilled
	}
	return s
}

// ComputeInvoiceStats sums invoice amounts per status. Outstanding is always
// overdue + pending.
func ComputeInvoiceStats(invoices []models.Invoice) InvoiceStats {
	s := InvoiceStats{Total: len(invoices)}
	for _, inv := range invoices {
		switch inv.Status {
		case models.InvoiceStatusPaid:
			s.Paid += inv.Amount
		case models.InvoiceStatusOverdue:
			s.Overdue += inv.Amount
		case models.InvoiceStatusPending:
			s.Pending += inv.Amount
		}
	}
	s.Outstanding = s.Overdue + s.Pending
	return s
}

// ComputeDashboardStats derives the dashboard summary from counts and the
// full invoice snapshot. The month window starts at the first of the current
// month, 00:00 local time, inclusive.
func ComputeDashboardStats(totalClients, activeClients int, invoices []models.Invoice, activeSubscriptions int, now time.Time) DashboardStats {
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	s := DashboardStats{
		TotalClients:     totalClients,
		ActiveClients:    activeClients,
		PendingReminders: activeSubscriptions,
	}
	for _, inv := range invoices {
		switch inv.Status {
		case models.InvoiceStatusPending, models.InvoiceStatusOverdue:
			s.OpenInvoices += inv.Amount
		case models.InvoiceStatusPaid:
			if !inv.CreatedAt.Before(startOfMonth) {
				s.RevenueThisMonth += inv.Amount
			}
		}
	}
	return s
}

// JoinClientName left-joins each invoice to its client's name. Unmatched
// invoices get the UnknownClientName sentinel instead of an error.
func JoinClientName(invoices []models.Invoice, clients []models.Client) []InvoiceWithClient {
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	out := make([]InvoiceWithClient, 0, len(invoices))
	for _, inv := range invoices {
		name, ok := names[inv.ClientID]
		if !ok {
			name = UnknownClientName
		}
		out = append(out, InvoiceWithClient{Invoice: inv, ClientName: name})
	}
	return out
}
