package stats_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/yahyahoussini/client-harmony-hub/internal/models"
	"github.com/yahyahoussini/client-harmony-hub/internal/stats"
)

func TestComputeClientStatsEndToEnd(t *testing.T) {
	clients := []models.Client{{ID: "c1", Status: "active"}}
	invoices := []models.Invoice{
		{ID: "i1", ClientID: "c1", Amount: 100, Status: "paid"},
		{ID: "i2", ClientID: "c1", Amount: 50, Status: "pending"},
	}
	s := stats.ComputeClientStats(clients, invoices)
	if s.Total != 1 || s.Active != 1 || s.TotalRevenue != 100 {
		t.Fatalf("got %+v, want total=1 active=1 totalRevenue=100", s)
	}
}

func TestComputeClientStatsNoInvoicesContributeZero(t *testing.T) {
	clients := []models.Client{
		{ID: "c1", Status: "active"},
		{ID: "c2", Status: "archived"},
	}
	invoices := []models.Invoice{
		{ID: "i1", ClientID: "c1", Amount: 75, Status: "paid"},
		{ID: "i2", ClientID: "ghost", Amount: 999, Status: "paid"}, // no matching client
	}
	s := stats.ComputeClientStats(clients, invoices)
	if s.Total != 2 || s.Active != 1 {
		t.Fatalf("counts: got %+v", s)
	}
	if s.TotalRevenue != 75 {
		t.Fatalf("totalRevenue: got %v, want 75 (ghost invoice excluded, c2 contributes 0)", s.TotalRevenue)
	}
}

func TestComputeInvoiceStats(t *testing.T) {
	invoices := []models.Invoice{
		{ID: "i1", ClientID: "c1", Amount: 100, Status: "paid"},
		{ID: "i2", ClientID: "c1", Amount: 50, Status: "pending"},
	}
	s := stats.ComputeInvoiceStats(invoices)
	if s.Total != 2 || s.Paid != 100 || s.Overdue != 0 || s.Pending != 50 || s.Outstanding != 50 {
		t.Fatalf("got %+v", s)
	}
}

func TestOutstandingIdentity(t *testing.T) {
	invoices := []models.Invoice{
		{Amount: 10, Status: "overdue"},
		{Amount: 20, Status: "pending"},
		{Amount: 30, Status: "paid"},
		{Amount: 40, Status: "overdue"},
	}
	s := stats.ComputeInvoiceStats(invoices)
	if s.Outstanding != s.Overdue+s.Pending {
		t.Fatalf("outstanding %v != overdue %v + pending %v", s.Outstanding, s.Overdue, s.Pending)
	}
}

func TestJoinClientNameIdempotent(t *testing.T) {
	invoices := []models.Invoice{
		{ID: "i1", ClientID: "c1"},
		{ID: "i2", ClientID: "missing"},
	}
	clients := []models.Client{{ID: "c1", Name: "Acme"}}
	first := stats.JoinClientName(invoices, clients)
	second := stats.JoinClientName(invoices, clients)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("join not idempotent: %v vs %v", first, second)
	}
	if first[0].ClientName != "Acme" {
		t.Fatalf("matched join: got %q", first[0].ClientName)
	}
	if first[1].ClientName != stats.UnknownClientName {
		t.Fatalf("unmatched join: got %q, want sentinel", first[1].ClientName)
	}
}

func TestDashboardMonthBoundary(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	startOfMonth := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	invoices := []models.Invoice{
		// last instant of the previous month: excluded even though paid
		{Amount: 100, Status: "paid", CreatedAt: startOfMonth.Add(-time.Nanosecond)},
		// first instant of the current month: included
		{Amount: 40, Status: "paid", CreatedAt: startOfMonth},
		{Amount: 25, Status: "pending", CreatedAt: now},
		{Amount: 10, Status: "overdue", CreatedAt: now},
	}
	s := stats.ComputeDashboardStats(3, 2, invoices, 4, now)
	if s.RevenueThisMonth != 40 {
		t.Fatalf("revenueThisMonth: got %v, want 40", s.RevenueThisMonth)
	}
	if s.OpenInvoices != 35 {
		t.Fatalf("openInvoices: got %v, want 35", s.OpenInvoices)
	}
	if s.TotalClients != 3 || s.ActiveClients != 2 || s.PendingReminders != 4 {
		t.Fatalf("counts: got %+v", s)
	}
}

func TestDecorateClients(t *testing.T) {
	updated := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	clients := []models.Client{{ID: "c1", Name: "Acme", Status: "active", UpdatedAt: updated}}
	invoices := []models.Invoice{
		{ClientID: "c1", Amount: 10, Status: "paid"},
		{ClientID: "c1", Amount: 5, Status: "overdue"},
	}
	list := stats.DecorateClients(clients, invoices)
	if len(list) != 1 {
		t.Fatalf("len: got %d", len(list))
	}
	if list[0].TotalBilled != 10 {
		t.Fatalf("total_billed: got %v, want 10 (paid only)", list[0].TotalBilled)
	}
	if !list[0].LastActivity.Equal(updated) {
		t.Fatalf("last_activity: got %v", list[0].LastActivity)
	}
	if got := stats.SummarizeClients(list); got != stats.ComputeClientStats(clients, invoices) {
		t.Fatalf("summaries disagree: %+v vs %+v", got, stats.ComputeClientStats(clients, invoices))
	}
}
