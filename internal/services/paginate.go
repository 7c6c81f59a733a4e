package services

import (
	"context"
	"log/slog"
)

// maxRecords caps how many records one collection may accumulate, so a
// provider that never signals the end of the list cannot loop forever.
const maxRecords = 10000

// pageFunc fetches one page of records starting after cursor. The ID
// of the page's last record becomes the next cursor.
type pageFunc[T any] func(ctx context.Context, cursor string) (records []T, hasMore bool, err error)

// fetchAll drains a paged listing. Hitting the safety ceiling is not an
// error: the records gathered so far are returned and a warning is
// logged. Fetch errors propagate un-retried.
func fetchAll[T any](ctx context.Context, logger *slog.Logger, collection string, fetch pageFunc[T], lastID func(T) string) ([]T, error) {
	var all []T
	cursor := ""

	for {
		records, hasMore, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)

		if !hasMore || len(records) == 0 {
			return all, nil
		}
		if len(all) > maxRecords {
			logger.Warn("reached pagination safety ceiling",
				"collection", collection,
				"records", len(all),
			)
			return all, nil
		}

		cursor = lastID(records[len(records)-1])
	}
}
