package scrape

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"draftdesk/internal/bootstrap/logging"
	"draftdesk/internal/domain/workflow"
)

// Column names as the portal renders them.
const (
	ColumnOrderID   = "Order ID"
	ColumnAddress   = "Address"
	ColumnPriority  = "Priority"
	ColumnOrderDate = "Order Date"
	ColumnDueIn     = "Due In"
	ColumnElapsed   = "Elapsed time since order"
)

// orderDateLayout matches the portal's listing format, e.g.
// "Sat 14 Feb 26 (2:15 pm)".
const orderDateLayout = "Mon 2 Jan 06 (3:04 pm)"

var digitsOnly = regexp.MustCompile(`[^0-9]`)
var dueAmount = regexp.MustCompile(`(\d+)\s*(hour|day|week)`)

// ScrapedOrder is the normalized portal row. It is transient: the ingest
// pipeline turns it into an upsert, it is never persisted as-is.
type ScrapedOrder struct {
	ExternalOrderID string
	OrderNumber     string
	Address         string
	Priority        workflow.Priority
	Instruction     string
	DueAt           *time.Time
	OrderPlacedAt   time.Time
	Status          workflow.Status
	Source          workflow.Source
	Raw             Row
}

// Normalizer converts raw portal rows into ScrapedOrders. Every field has a
// fallback: normalization warns on bad input but never fails a batch.
type Normalizer struct {
	source *time.Location
	local  *time.Location
	// clockSkew is subtracted from parsed portal dates before timezone
	// conversion. The portal's clock runs ahead by a fixed amount; see the
	// portal.clock_skew_hours config.
	clockSkew time.Duration
	now       func() time.Time
}

func NewNormalizer(source, local *time.Location, clockSkew time.Duration) *Normalizer {
	if source == nil {
		source = time.UTC
	}
	if local == nil {
		local = time.UTC
	}
	return &Normalizer{
		source:    source,
		local:     local,
		clockSkew: clockSkew,
		now:       time.Now,
	}
}

// WithClock overrides the fallback clock. Tests use this to pin "now".
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

func (n *Normalizer) Normalize(ctx context.Context, row Row) ScrapedOrder {
	externalID := strings.TrimSpace(row[ColumnOrderID])
	placedAt := n.parseOrderDate(ctx, row[ColumnOrderDate])
	dueAt := n.deriveDueAt(ctx, row[ColumnDueIn], placedAt)

	raw := make(Row, len(row)+2)
	for k, v := range row {
		raw[k] = v
	}
	raw["due_in_text"] = row[ColumnDueIn]
	raw["elapsed_time"] = row[ColumnElapsed]

	return ScrapedOrder{
		ExternalOrderID: externalID,
		OrderNumber:     orderNumberFrom(externalID),
		Address:         strings.TrimSpace(row[ColumnAddress]),
		Priority:        workflow.NormalizePriority(row[ColumnPriority]),
		Instruction:     externalID,
		DueAt:           dueAt,
		OrderPlacedAt:   placedAt,
		Status:          workflow.StatusPending,
		Source:          workflow.SourceExternalPortal,
		Raw:             raw,
	}
}

// orderNumberFrom keeps only the digits of the external id. An id without
// digits gets a synthesized placeholder so order_number stays unique.
func orderNumberFrom(externalID string) string {
	digits := digitsOnly.ReplaceAllString(externalID, "")
	if digits != "" {
		return digits
	}
	return "PORTAL-" + uuid.NewString()
}

// parseOrderDate reads the portal timestamp in the source timezone, subtracts
// the clock skew, and converts to the local operational timezone. Empty or
// unparseable input falls back to the current local time.
func (n *Normalizer) parseOrderDate(ctx context.Context, raw string) time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return n.now().In(n.local)
	}

	parsed, err := time.ParseInLocation(orderDateLayout, trimmed, n.source)
	if err != nil {
		logging.Warn(ctx, "order date unparseable, falling back to now",
			slog.String("raw", trimmed),
		)
		return n.now().In(n.local)
	}
	return parsed.Add(-n.clockSkew).In(n.local)
}

// deriveDueAt turns the portal's relative "Due In" text into an absolute
// timestamp against the order date. Unrecognized text yields nil, not the
// order date: a missing deadline must not masquerade as an immediate one.
func (n *Normalizer) deriveDueAt(ctx context.Context, dueText string, placedAt time.Time) *time.Time {
	text := strings.ToLower(strings.TrimSpace(dueText))
	if text == "" {
		return nil
	}

	var due time.Time
	switch {
	case strings.Contains(text, "tomorrow"):
		due = placedAt.AddDate(0, 0, 1)
	case strings.Contains(text, "today"):
		due = placedAt
	default:
		match := dueAmount.FindStringSubmatch(text)
		if match == nil {
			logging.Warn(ctx, "due-in text unrecognized, leaving due date unset",
				slog.String("raw", dueText),
			)
			return nil
		}
		amount, err := strconv.Atoi(match[1])
		if err != nil {
			return nil
		}
		switch match[2] {
		case "hour":
			due = placedAt.Add(time.Duration(amount) * time.Hour)
		case "day":
			due = placedAt.AddDate(0, 0, amount)
		case "week":
			due = placedAt.AddDate(0, 0, 7*amount)
		}
	}
	return &due
}
