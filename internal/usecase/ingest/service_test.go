package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"draftdesk/internal/bootstrap/config"
	"draftdesk/internal/infrastructure/cache"
	"draftdesk/internal/infrastructure/persistence/sqlite/model"
	"draftdesk/internal/infrastructure/persistence/sqlite/repository"
	"draftdesk/internal/ports"
	"draftdesk/internal/scrape"
)

// fakeFetcher serves canned pages; a nil entry yields a fetch error.
type fakeFetcher struct {
	pages map[int][]byte
	calls []int
}

func (f *fakeFetcher) FetchPage(_ context.Context, page int) ([]byte, error) {
	f.calls = append(f.calls, page)
	body, ok := f.pages[page]
	if !ok || body == nil {
		return nil, fmt.Errorf("%w: http 500", ports.ErrPageFetch)
	}
	return body, nil
}

func listingPage(rows ...[3]string) []byte {
	page := `<table><tr><th>Order ID</th><th>Address</th><th>Priority</th><th>Order Date</th><th>Due In</th></tr>`
	for _, row := range rows {
		page += fmt.Sprintf(
			`<tr><td>%s</td><td>%s</td><td>%s</td><td>Sat 14 Feb 26 (2:15 pm)</td><td>tomorrow</td></tr>`,
			row[0], row[1], row[2],
		)
	}
	page += `</table>`
	return []byte(page)
}

func emptyPage() []byte {
	return []byte(`<table><tr><th>Order ID</th><th>Address</th></tr></table>`)
}

func testPortalConfig() config.PortalConfig {
	return config.PortalConfig{
		BaseURL:        "https://portal.example.com/listing",
		Username:       "importer",
		Password:       "secret",
		SourceTimezone: "Australia/Sydney",
		LocalTimezone:  "Asia/Karachi",
		ClockSkewHours: 6,
		MaxPages:       100,
		PageDelay:      0,
		RetryCount:     2,
		RetryDelay:     time.Millisecond,
	}
}

func setupIngest(t *testing.T, fetcher ports.PortalFetcher, portal config.PortalConfig) (*Service, ports.OrderRepository) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "ingest.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.Order{}, &model.KV{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	sydney, err := time.LoadLocation(portal.SourceTimezone)
	if err != nil {
		t.Fatalf("load source tz: %v", err)
	}
	karachi, err := time.LoadLocation(portal.LocalTimezone)
	if err != nil {
		t.Fatalf("load local tz: %v", err)
	}
	normalizer := scrape.NewNormalizer(sydney, karachi, time.Duration(portal.ClockSkewHours)*time.Hour)

	repo := repository.NewOrderRepository(db)
	svc := NewService(fetcher, repo, cache.NewSQLiteCache(db), normalizer, portal)
	return svc, repo
}

func TestRunStopsOnEmptyPage(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]byte{
		1: listingPage([3]string{"ORD-1", "12 Harbour St", "Urgent"}, [3]string{"ORD-2", "4 Hill Rd", "Regular"}),
		2: listingPage([3]string{"ORD-3", "9 Bay Ave", "High"}),
		3: emptyPage(),
	}}
	svc, repo := setupIngest(t, fetcher, testPortalConfig())

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.PagesFetched != 3 || result.RowsSeen != 3 || result.Created != 3 || result.Updated != 0 {
		t.Fatalf("Run() = %+v", result)
	}
	if len(fetcher.calls) != 3 {
		t.Fatalf("fetch calls = %v", fetcher.calls)
	}

	order, err := repo.GetOrderByExternalID(context.Background(), "ORD-3")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.Status != "pending" {
		t.Fatalf("status = %q", order.Status)
	}
	if order.Priority != "high" {
		t.Fatalf("priority = %q", order.Priority)
	}
	if order.DueAt == nil {
		t.Fatal("due_at = nil")
	}
}

func TestRunIsIdempotentAndPreservesWorkflowState(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]byte{
		1: listingPage([3]string{"ORD-1", "12 Harbour St", "Urgent"}),
		2: emptyPage(),
	}}
	svc, repo := setupIngest(t, fetcher, testPortalConfig())
	ctx := context.Background()

	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}

	order, err := repo.GetOrderByExternalID(ctx, "ORD-1")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if err := repo.UpdateOrder(ctx, order.OrderID, map[string]any{
		"status":      "checker_review",
		"assigned_at": time.Now().UTC().Format(time.RFC3339Nano),
	}); err != nil {
		t.Fatalf("update order: %v", err)
	}

	fetcher.pages[1] = listingPage([3]string{"ORD-1", "14 Harbour St", "Regular"})
	result, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Created != 0 || result.Updated != 1 {
		t.Fatalf("second run = %+v", result)
	}

	order, err = repo.GetOrderByExternalID(ctx, "ORD-1")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.Status != "checker_review" {
		t.Fatalf("status = %q, re-ingestion rewound the workflow", order.Status)
	}
	if order.AssignedAt == nil {
		t.Fatal("assigned_at cleared by re-ingestion")
	}
	if order.Address != "14 Harbour St" || order.Priority != "regular" {
		t.Fatalf("content not refreshed: %+v", order)
	}
}

func TestRunStopsOnFetchErrorButKeepsUpserts(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]byte{
		1: listingPage([3]string{"ORD-1", "12 Harbour St", "Urgent"}),
	}}
	svc, repo := setupIngest(t, fetcher, testPortalConfig())

	result, err := svc.Run(context.Background())
	if !errors.Is(err, ports.ErrPageFetch) {
		t.Fatalf("Run() error = %v, want ErrPageFetch", err)
	}
	if result.PagesFetched != 1 || result.Created != 1 {
		t.Fatalf("Run() = %+v", result)
	}

	if _, err := repo.GetOrderByExternalID(context.Background(), "ORD-1"); err != nil {
		t.Fatalf("page 1 upsert not committed: %v", err)
	}
}

func TestRunHonorsPageCap(t *testing.T) {
	portal := testPortalConfig()
	portal.MaxPages = 2

	fetcher := &fakeFetcher{pages: map[int][]byte{
		1: listingPage([3]string{"ORD-1", "a", "Regular"}),
		2: listingPage([3]string{"ORD-2", "b", "Regular"}),
		3: listingPage([3]string{"ORD-3", "c", "Regular"}),
	}}
	svc, _ := setupIngest(t, fetcher, portal)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.PagesFetched != 2 || result.RowsSeen != 2 {
		t.Fatalf("Run() = %+v", result)
	}
}

func TestRunSkipsWithoutCredentials(t *testing.T) {
	portal := testPortalConfig()
	portal.Password = ""

	fetcher := &fakeFetcher{}
	svc, _ := setupIngest(t, fetcher, portal)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.PagesFetched != 0 || len(fetcher.calls) != 0 {
		t.Fatalf("Run() without credentials fetched pages: %+v %v", result, fetcher.calls)
	}
}

func TestRunSkipsWhileLockHeld(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]byte{1: emptyPage()}}
	svc, _ := setupIngest(t, fetcher, testPortalConfig())
	ctx := context.Background()

	if err := svc.cache.Set(ctx, runLockKey, time.Now().UTC().Format(time.RFC3339Nano), 0); err != nil {
		t.Fatalf("seed lock: %v", err)
	}

	result, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.PagesFetched != 0 || len(fetcher.calls) != 0 {
		t.Fatalf("Run() ignored held lock: %+v %v", result, fetcher.calls)
	}
}

func TestRunTakesOverStaleLock(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]byte{1: emptyPage()}}
	svc, _ := setupIngest(t, fetcher, testPortalConfig())
	ctx := context.Background()

	stale := time.Now().Add(-runLockExpiry - time.Minute).UTC().Format(time.RFC3339Nano)
	if err := svc.cache.Set(ctx, runLockKey, stale, 0); err != nil {
		t.Fatalf("seed stale lock: %v", err)
	}

	result, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.PagesFetched != 1 {
		t.Fatalf("Run() = %+v, stale lock not reclaimed", result)
	}
}

func TestRunStoresSummary(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]byte{
		1: listingPage([3]string{"ORD-1", "a", "Regular"}),
		2: emptyPage(),
	}}
	svc, _ := setupIngest(t, fetcher, testPortalConfig())
	ctx := context.Background()

	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	last, found, err := svc.LastRun(ctx)
	if err != nil {
		t.Fatalf("LastRun() error = %v", err)
	}
	if !found {
		t.Fatal("LastRun() found = false")
	}
	if last.Created != 1 || last.PagesFetched != 2 {
		t.Fatalf("LastRun() = %+v", last)
	}
	if last.FinishedAt == "" {
		t.Fatal("LastRun() finished_at empty")
	}
}

func TestRunWithRetryRetriesOnce(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]byte{}}
	svc, _ := setupIngest(t, fetcher, testPortalConfig())

	_, err := svc.RunWithRetry(context.Background())
	if !errors.Is(err, ports.ErrPageFetch) {
		t.Fatalf("RunWithRetry() error = %v", err)
	}
	// retry_count = 2 attempts, each fails on page 1.
	if len(fetcher.calls) != 2 {
		t.Fatalf("fetch calls = %v, want 2 attempts", fetcher.calls)
	}
}
