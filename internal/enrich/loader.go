package enrich

import (
	"context"
	"fmt"

	"github.com/justestif/go-notion-track-sync/internal/notion"
)

// RecordSource pages through database rows.
type RecordSource interface {
	// QueryRecords returns the rows at cursor and the next cursor,
	// which is empty on the last page.
	QueryRecords(ctx context.Context, cursor string) ([]notion.Record, string, error)
}

// LoadRecords reads every row from src, following cursors until the last page.
// Any error aborts the load; no partial result is returned.
func LoadRecords(ctx context.Context, src RecordSource) ([]notion.Record, error) {
	var records []notion.Record
	cursor := ""

	for {
		page, next, err := src.QueryRecords(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("loading records after %d: %w", len(records), err)
		}
		records = append(records, page...)

		if next == "" {
			break
		}
		cursor = next
	}

	return records, nil
}
