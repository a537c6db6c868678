package enrich

import "github.com/justestif/go-notion-track-sync/internal/notion"

// SelectPending returns, in input order, the records that have both a title
// and an artist search value and are not yet done according to completion.
// A record whose properties do not match schema yields an error.
func SelectPending(records []notion.Record, schema Schema, completion *Completion) ([]notion.Record, error) {
	var pending []notion.Record
	for _, rec := range records {
		_, hasTitle, err := rec.Text(schema.Title)
		if err != nil {
			return nil, err
		}
		_, hasArtist, err := rec.Text(schema.ArtistSearch)
		if err != nil {
			return nil, err
		}

		if !hasTitle || !hasArtist {
			continue
		}
		if completion.Pending(rec.ID) {
			pending = append(pending, rec)
		}
	}
	return pending, nil
}
