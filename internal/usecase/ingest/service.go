package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"draftdesk/internal/bootstrap/config"
	"draftdesk/internal/bootstrap/logging"
	"draftdesk/internal/errs"
	"draftdesk/internal/ports"
	"draftdesk/internal/scrape"
)

const (
	runLockKey    = "ingest:run_lock"
	lastRunKey    = "ingest:last_run"
	runLockExpiry = 15 * time.Minute
)

// Result summarises one import run.
type Result struct {
	PagesFetched int    `json:"pages_fetched"`
	RowsSeen     int    `json:"rows_seen"`
	Created      int    `json:"created"`
	Updated      int    `json:"updated"`
	FinishedAt   string `json:"finished_at"`
}

// Service pulls the portal's paginated order listing and upserts every row.
// Runs are idempotent: an order already known by external id only gets its
// content fields refreshed, never its workflow state.
type Service struct {
	fetcher    ports.PortalFetcher
	repo       ports.OrderRepository
	cache      ports.Cache
	normalizer *scrape.Normalizer
	portal     config.PortalConfig
}

func NewService(
	fetcher ports.PortalFetcher,
	repo ports.OrderRepository,
	cache ports.Cache,
	normalizer *scrape.Normalizer,
	portal config.PortalConfig,
) *Service {
	return &Service{
		fetcher:    fetcher,
		repo:       repo,
		cache:      cache,
		normalizer: normalizer,
		portal:     portal,
	}
}

// Run walks pages 1..max_pages until a page yields no rows, a fetch fails,
// or the cap is reached. Upserts committed before a failure stay committed.
// A second run while the lock is held exits as a logged no-op.
func (s *Service) Run(ctx context.Context) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("context is required")
	}
	logCtx := logging.WithAttrs(ctx, slog.String("component", "ingest"))

	if !s.portal.HasCredentials() {
		logging.Warn(logCtx, "portal credentials not configured, skipping import")
		return Result{}, nil
	}

	acquired, err := s.acquireLock(logCtx)
	if err != nil {
		return Result{}, err
	}
	if !acquired {
		logging.Warn(logCtx, "another import run is in progress, skipping")
		return Result{}, nil
	}
	defer s.releaseLock(logCtx)

	result, runErr := s.scrapePages(logCtx)
	result.FinishedAt = time.Now().UTC().Format(time.RFC3339Nano)
	s.storeSummary(logCtx, result)

	logging.Info(logCtx, "import run finished",
		slog.Int("pages", result.PagesFetched),
		slog.Int("rows", result.RowsSeen),
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated),
	)
	return result, runErr
}

// RunWithRetry retries Run with the configured delay between attempts.
func (s *Service) RunWithRetry(ctx context.Context) (Result, error) {
	attempts := s.portal.RetryCount
	if attempts < 1 {
		attempts = 1
	}

	var result Result
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err = s.Run(ctx)
		if err == nil {
			return result, nil
		}
		if attempt == attempts {
			break
		}
		logging.Warn(ctx, "import run failed, retrying",
			slog.Int("attempt", attempt),
			slog.Any("error", errs.Loggable(err)),
		)
		if waitErr := sleepCtx(ctx, s.portal.RetryDelay); waitErr != nil {
			return result, waitErr
		}
	}
	return result, err
}

// Preview fetches and normalizes a single page without writing anything.
func (s *Service) Preview(ctx context.Context, page int) ([]scrape.ScrapedOrder, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	body, err := s.fetcher.FetchPage(ctx, page)
	if err != nil {
		return nil, err
	}
	rows, err := scrape.ParseTable(bytes.NewReader(body), scrape.ColumnOrderID)
	if err != nil {
		return nil, errs.Wrap(err, "parse listing table")
	}

	orders := make([]scrape.ScrapedOrder, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, s.normalizer.Normalize(ctx, row))
	}
	return orders, nil
}

// LastRun returns the stored summary of the most recent run, if any.
func (s *Service) LastRun(ctx context.Context) (Result, bool, error) {
	value, found, err := s.cache.Get(ctx, lastRunKey)
	if err != nil || !found {
		return Result{}, false, err
	}
	var result Result
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return Result{}, false, errs.Wrap(err, "decode last run summary")
	}
	return result, true, nil
}

func (s *Service) scrapePages(ctx context.Context) (Result, error) {
	var result Result

	for page := 1; page <= s.portal.MaxPages; page++ {
		if page > 1 {
			if err := sleepCtx(ctx, s.portal.PageDelay); err != nil {
				return result, err
			}
		}

		pageCtx := logging.WithAttrs(ctx, slog.Int("page", page))
		body, err := s.fetcher.FetchPage(pageCtx, page)
		if err != nil {
			logging.Warn(pageCtx, "page fetch failed, stopping run",
				slog.Any("error", errs.Loggable(err)),
			)
			return result, errs.Wrapf(err, "fetch page %d", page)
		}
		result.PagesFetched++

		rows, err := scrape.ParseTable(bytes.NewReader(body), scrape.ColumnOrderID)
		if err != nil {
			return result, errs.Wrapf(err, "parse page %d", page)
		}
		if len(rows) == 0 {
			logging.Info(pageCtx, "empty page, stopping run")
			return result, nil
		}

		for _, row := range rows {
			order := s.normalizer.Normalize(pageCtx, row)
			if order.ExternalOrderID == "" {
				continue
			}
			result.RowsSeen++

			created, err := s.repo.UpsertPortalOrder(pageCtx, toUpsert(order))
			if err != nil {
				return result, errs.Wrapf(err, "upsert order %s", order.ExternalOrderID)
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
	}

	logging.Info(ctx, "page cap reached, stopping run", slog.Int("max_pages", s.portal.MaxPages))
	return result, nil
}

func toUpsert(order scrape.ScrapedOrder) ports.PortalOrderUpsert {
	placedAt := order.OrderPlacedAt.UTC().Format(time.RFC3339Nano)
	upsert := ports.PortalOrderUpsert{
		ExternalOrderID: order.ExternalOrderID,
		OrderNumber:     order.OrderNumber,
		Address:         order.Address,
		Priority:        string(order.Priority),
		Instruction:     order.Instruction,
		OrderPlacedAt:   &placedAt,
		Source:          string(order.Source),
		IngestedAt:      time.Now().UTC().Format(time.RFC3339Nano),
	}
	if order.DueAt != nil {
		due := order.DueAt.UTC().Format(time.RFC3339Nano)
		upsert.DueAt = &due
	}
	return upsert
}

// acquireLock claims the run lock. The KV store has no expiry, so the lock
// value is the acquire time and a lock older than runLockExpiry counts as
// abandoned by a crashed run.
func (s *Service) acquireLock(ctx context.Context) (bool, error) {
	value, held, err := s.cache.Get(ctx, runLockKey)
	if err != nil {
		return false, errs.Wrap(err, "check import lock")
	}
	if held {
		acquiredAt, parseErr := time.Parse(time.RFC3339Nano, value)
		if parseErr == nil && time.Since(acquiredAt) < runLockExpiry {
			return false, nil
		}
		logging.Warn(ctx, "stale import lock, taking over",
			slog.String("acquired_at", value),
		)
	}
	if err := s.cache.Set(ctx, runLockKey, time.Now().UTC().Format(time.RFC3339Nano), runLockExpiry); err != nil {
		return false, errs.Wrap(err, "acquire import lock")
	}
	return true, nil
}

func (s *Service) releaseLock(ctx context.Context) {
	if err := s.cache.Delete(ctx, runLockKey); err != nil {
		logging.Warn(ctx, "release import lock failed", slog.Any("error", errs.Loggable(err)))
	}
}

func (s *Service) storeSummary(ctx context.Context, result Result) {
	encoded, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, lastRunKey, string(encoded), 0); err != nil {
		logging.Warn(ctx, "store run summary failed", slog.Any("error", errs.Loggable(err)))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
