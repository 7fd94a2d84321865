package scrape

import (
	"context"
	"strings"
	"testing"
	"time"

	"draftdesk/internal/domain/workflow"
)

func testNormalizer(t *testing.T) *Normalizer {
	t.Helper()

	sydney, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Fatalf("load Australia/Sydney: %v", err)
	}
	karachi, err := time.LoadLocation("Asia/Karachi")
	if err != nil {
		t.Fatalf("load Asia/Karachi: %v", err)
	}
	return NewNormalizer(sydney, karachi, 6*time.Hour)
}

func TestNormalizeOrderDateConversion(t *testing.T) {
	n := testNormalizer(t)

	order := n.Normalize(context.Background(), Row{
		ColumnOrderID:   "ORD-1001",
		ColumnAddress:   "12 Harbour St, Sydney",
		ColumnPriority:  "Urgent",
		ColumnOrderDate: "Sat 14 Feb 26 (2:15 pm)",
		ColumnDueIn:     "tomorrow",
	})

	// 14 Feb 2026 14:15 AEDT (+11) is 03:15 UTC; minus the 6h skew is
	// 13 Feb 21:15 UTC, which is 14 Feb 02:15 in Karachi (+5).
	placed := order.OrderPlacedAt
	if placed.Year() != 2026 || placed.Month() != time.February || placed.Day() != 14 {
		t.Fatalf("placed date = %v", placed)
	}
	if placed.Hour() != 2 || placed.Minute() != 15 {
		t.Fatalf("placed time = %02d:%02d, want 02:15", placed.Hour(), placed.Minute())
	}
	if placed.Location().String() != "Asia/Karachi" {
		t.Fatalf("placed location = %s", placed.Location())
	}

	if order.DueAt == nil {
		t.Fatal("due at = nil, want placed + 1 day")
	}
	if got := order.DueAt.Sub(placed); got != 24*time.Hour {
		t.Fatalf("due offset = %v, want 24h", got)
	}
}

func TestNormalizeFallsBackToNowOnBadDate(t *testing.T) {
	n := testNormalizer(t)
	fixed := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	n.WithClock(func() time.Time { return fixed })

	order := n.Normalize(context.Background(), Row{
		ColumnOrderID:   "ORD-2",
		ColumnOrderDate: "not a date",
	})
	if !order.OrderPlacedAt.Equal(fixed) {
		t.Fatalf("placed = %v, want clock fallback %v", order.OrderPlacedAt, fixed)
	}
}

func TestNormalizeDueIn(t *testing.T) {
	n := testNormalizer(t)

	cases := []struct {
		text   string
		offset time.Duration
		nilDue bool
	}{
		{"tomorrow", 24 * time.Hour, false},
		{"today", 0, false},
		{"3 hours", 3 * time.Hour, false},
		{"2 days", 48 * time.Hour, false},
		{"1 week", 7 * 24 * time.Hour, false},
		{"", 0, true},
		{"whenever", 0, true},
	}
	for _, tc := range cases {
		order := n.Normalize(context.Background(), Row{
			ColumnOrderID:   "ORD-3",
			ColumnOrderDate: "Mon 2 Mar 26 (10:00 am)",
			ColumnDueIn:     tc.text,
		})
		if tc.nilDue {
			if order.DueAt != nil {
				t.Fatalf("due in %q: due = %v, want nil", tc.text, order.DueAt)
			}
			continue
		}
		if order.DueAt == nil {
			t.Fatalf("due in %q: due = nil", tc.text)
		}
		if got := order.DueAt.Sub(order.OrderPlacedAt); got != tc.offset {
			t.Fatalf("due in %q: offset = %v, want %v", tc.text, got, tc.offset)
		}
	}
}

func TestNormalizePriorityAndNumber(t *testing.T) {
	n := testNormalizer(t)

	order := n.Normalize(context.Background(), Row{
		ColumnOrderID:  "ORD-4711",
		ColumnPriority: " HIGH ",
	})
	if order.Priority != workflow.PriorityHigh {
		t.Fatalf("priority = %s", order.Priority)
	}
	if order.OrderNumber != "4711" {
		t.Fatalf("order number = %q, want digits only", order.OrderNumber)
	}
	if order.Status != workflow.StatusPending {
		t.Fatalf("status = %s", order.Status)
	}
	if order.Source != workflow.SourceExternalPortal {
		t.Fatalf("source = %s", order.Source)
	}

	noDigits := n.Normalize(context.Background(), Row{ColumnOrderID: "REF-X"})
	if !strings.HasPrefix(noDigits.OrderNumber, "PORTAL-") {
		t.Fatalf("order number = %q, want synthesized placeholder", noDigits.OrderNumber)
	}
}

func TestNormalizeKeepsRawColumns(t *testing.T) {
	n := testNormalizer(t)

	order := n.Normalize(context.Background(), Row{
		ColumnOrderID: "ORD-5",
		ColumnDueIn:   "2 days",
		ColumnElapsed: "4 hours",
	})
	if order.Raw["due_in_text"] != "2 days" {
		t.Fatalf("raw due_in_text = %q", order.Raw["due_in_text"])
	}
	if order.Raw["elapsed_time"] != "4 hours" {
		t.Fatalf("raw elapsed_time = %q", order.Raw["elapsed_time"])
	}
}
