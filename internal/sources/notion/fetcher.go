package notion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/navdeck/internal/logger"
	"github.com/MrSnakeDoc/navdeck/internal/utils"
)

// DefaultPageSize is the page size requested from the query endpoint.
const DefaultPageSize = 100

// API is the upstream surface the Fetcher needs. *Client implements it.
type API interface {
	QueryDatabase(ctx context.Context, sourceID string, req QueryRequest) (QueryResponse, error)
	RetrieveDatabase(ctx context.Context, sourceID string) (Database, error)
}

// RetryPolicy bounds retries of temporary upstream failures. The wait
// starts at Interval and doubles up to MaxWait.
type RetryPolicy struct {
	MaxRetries int
	Interval   time.Duration
	MaxWait    time.Duration
}

// Fetcher walks a cursor-paginated source to completion.
type Fetcher struct {
	api      API
	retry    RetryPolicy
	pageSize int
	log      logger.Logger
}

func NewFetcher(api API, retry RetryPolicy, log logger.Logger) *Fetcher {
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}
	if retry.MaxWait < retry.Interval {
		retry.MaxWait = retry.Interval
	}
	return &Fetcher{
		api:      api,
		retry:    retry,
		pageSize: DefaultPageSize,
		log:      log,
	}
}

// FetchAll returns every record of the source in page order. Pages are
// requested one after the other since each needs the previous cursor.
// On any failure, including cancellation, it returns a *FetchError and no
// records.
func (f *Fetcher) FetchAll(ctx context.Context, sourceID string) ([]RawRecord, error) {
	id, err := NormalizeSourceID(sourceID)
	if err != nil {
		return nil, &FetchError{SourceID: sourceID, Page: -1, Failure: FailureInvalidSource, Err: err}
	}

	var (
		records []RawRecord
		cursor  string
		seen    = make(map[string]bool)
	)

	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, &FetchError{SourceID: id, Page: page, Failure: FailureCanceled, Err: err}
		}

		var resp QueryResponse
		err := f.withRetry(ctx, id, page, func() error {
			var err error
			resp, err = f.api.QueryDatabase(ctx, id, QueryRequest{StartCursor: cursor, PageSize: f.pageSize})
			return err
		})
		if err != nil {
			return nil, err
		}

		// A 2xx body without a results array is not a page.
		if resp.Results == nil {
			return nil, &FetchError{SourceID: id, Page: page, Failure: FailureMalformed, Err: errors.New("page has no results")}
		}
		records = append(records, resp.Results...)

		if !resp.HasMore {
			break
		}
		if resp.NextCursor == nil || *resp.NextCursor == "" {
			return nil, &FetchError{SourceID: id, Page: page, Failure: FailureMalformed, Err: errors.New("has_more without next_cursor")}
		}
		next := *resp.NextCursor
		if seen[next] {
			return nil, &FetchError{
				SourceID: id,
				Page:     page,
				Failure:  FailureMalformed,
				Err:      fmt.Errorf("cursor %q repeated", next),
			}
		}
		seen[next] = true
		cursor = next
	}

	f.log.Debug("source fetched",
		logger.String("source_id", id),
		logger.Int("records", len(records)))
	return records, nil
}

// Database retrieves the database object of the source.
func (f *Fetcher) Database(ctx context.Context, sourceID string) (Database, error) {
	id, err := NormalizeSourceID(sourceID)
	if err != nil {
		return Database{}, &FetchError{SourceID: sourceID, Page: -1, Failure: FailureInvalidSource, Err: err}
	}

	var db Database
	err = f.withRetry(ctx, id, -1, func() error {
		var err error
		db, err = f.api.RetrieveDatabase(ctx, id)
		return err
	})
	return db, err
}

// withRetry runs call until it succeeds, fails permanently or the retry
// budget is spent. Returned errors are always *FetchError.
func (f *Fetcher) withRetry(ctx context.Context, sourceID string, page int, call func() error) error {
	for attempt := 0; ; attempt++ {
		err := call()
		if err == nil {
			return nil
		}

		fe := asFetchError(ctx, err, sourceID, page)
		if !fe.Temporary() || attempt >= f.retry.MaxRetries {
			return fe
		}

		wait := utils.Backoff(attempt, f.retry.Interval, f.retry.MaxWait)
		f.log.Warn("notion request failed, retrying",
			logger.String("source_id", sourceID),
			logger.Int("page", page),
			logger.Int("attempt", attempt+1),
			logger.Duration("next_retry_in", wait),
			logger.Error(err))

		if err := utils.Sleep(ctx, wait); err != nil {
			return &FetchError{SourceID: sourceID, Page: page, Failure: FailureCanceled, Err: err}
		}
	}
}

func asFetchError(ctx context.Context, err error, sourceID string, page int) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		out := *fe
		out.SourceID = sourceID
		out.Page = page
		return &out
	}
	if ctx.Err() != nil {
		return &FetchError{SourceID: sourceID, Page: page, Failure: FailureCanceled, Err: err}
	}
	return &FetchError{SourceID: sourceID, Page: page, Failure: FailureUnreachable, Err: err}
}
