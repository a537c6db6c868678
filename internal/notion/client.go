package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"
)

// pageSize is the maximum page size the query endpoint accepts.
const pageSize = 100

type databaseService interface {
	Query(ctx context.Context, id notionapi.DatabaseID, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

type pageService interface {
	Update(ctx context.Context, id notionapi.PageID, req *notionapi.PageUpdateRequest) (*notionapi.Page, error)
}

type blockService interface {
	AppendChildren(ctx context.Context, id notionapi.BlockID, req *notionapi.AppendBlockChildrenRequest) (*notionapi.AppendBlockChildrenResponse, error)
}

// Client wraps the Notion API client for a single database.
type Client struct {
	databaseID notionapi.DatabaseID
	databases  databaseService
	pages      pageService
	blocks     blockService
}

// NewClient creates a Notion client bound to the configured database.
func NewClient(cfg *Config) *Client {
	api := notionapi.NewClient(notionapi.Token(cfg.APIKey))
	return &Client{
		databaseID: notionapi.DatabaseID(cfg.DatabaseID),
		databases:  api.Database,
		pages:      api.Page,
		blocks:     api.Block,
	}
}

// QueryRecords fetches one page of database rows starting at cursor.
// An empty cursor starts from the beginning. The returned cursor is empty
// when there are no further pages.
func (c *Client) QueryRecords(ctx context.Context, cursor string) ([]Record, string, error) {
	resp, err := c.databases.Query(ctx, c.databaseID, &notionapi.DatabaseQueryRequest{
		StartCursor: notionapi.Cursor(cursor),
		PageSize:    pageSize,
	})
	if err != nil {
		return nil, "", fmt.Errorf("querying database: %w", err)
	}

	records := make([]Record, 0, len(resp.Results))
	for _, page := range resp.Results {
		records = append(records, convertPage(page))
	}

	next := ""
	if resp.HasMore {
		next = string(resp.NextCursor)
	}
	return records, next, nil
}

// UpdateFields writes the given property values to a row.
func (c *Client) UpdateFields(ctx context.Context, id string, fields map[string]Field) error {
	props := make(notionapi.Properties, len(fields))
	for name, f := range fields {
		p, err := convertField(f)
		if err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		props[name] = p
	}

	_, err := c.pages.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Properties: props,
	})
	if err != nil {
		return fmt.Errorf("updating page %s: %w", id, err)
	}
	return nil
}

// AppendImage appends an external image block pointing at url to the row's body.
func (c *Client) AppendImage(ctx context.Context, id, url string) error {
	_, err := c.blocks.AppendChildren(ctx, notionapi.BlockID(id), &notionapi.AppendBlockChildrenRequest{
		Children: []notionapi.Block{externalImage(url)},
	})
	if err != nil {
		return fmt.Errorf("appending image to page %s: %w", id, err)
	}
	return nil
}

func externalImage(url string) *notionapi.ImageBlock {
	return &notionapi.ImageBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeImage,
		},
		Image: notionapi.Image{
			Type:     notionapi.FileTypeExternal,
			External: &notionapi.FileObject{URL: url},
		},
	}
}

// convertPage converts an API page to a Record.
func convertPage(page notionapi.Page) Record {
	fields := make(map[string]Field, len(page.Properties))
	for name, p := range page.Properties {
		fields[name] = convertProperty(p)
	}
	return Record{
		ID:     page.ID.String(),
		Fields: fields,
	}
}

// convertProperty maps an API property onto a Field.
// Property types other than the five the pipeline knows become KindUnsupported.
func convertProperty(p notionapi.Property) Field {
	switch p := p.(type) {
	case nil:
		return Field{Kind: KindUnsupported}
	case *notionapi.TitleProperty:
		return Field{Kind: KindTitle, Runs: plainTexts(p.Title)}
	case notionapi.TitleProperty:
		return Field{Kind: KindTitle, Runs: plainTexts(p.Title)}
	case *notionapi.RichTextProperty:
		return Field{Kind: KindRichText, Runs: plainTexts(p.RichText)}
	case notionapi.RichTextProperty:
		return Field{Kind: KindRichText, Runs: plainTexts(p.RichText)}
	case *notionapi.MultiSelectProperty:
		return Field{Kind: KindMultiSelect, Runs: optionNames(p.MultiSelect)}
	case notionapi.MultiSelectProperty:
		return Field{Kind: KindMultiSelect, Runs: optionNames(p.MultiSelect)}
	case *notionapi.DateProperty:
		return dateValue(p.Date)
	case notionapi.DateProperty:
		return dateValue(p.Date)
	case *notionapi.CheckboxProperty:
		return Field{Kind: KindCheckbox, Checked: p.Checkbox}
	case notionapi.CheckboxProperty:
		return Field{Kind: KindCheckbox, Checked: p.Checkbox}
	default:
		return Field{Kind: KindUnsupported, RawType: string(p.GetType())}
	}
}

func plainTexts(rt []notionapi.RichText) []string {
	runs := make([]string, 0, len(rt))
	for _, r := range rt {
		runs = append(runs, r.PlainText)
	}
	return runs
}

func optionNames(opts []notionapi.Option) []string {
	names := make([]string, 0, len(opts))
	for _, o := range opts {
		names = append(names, o.Name)
	}
	return names
}

// dateValue keeps only the start of a date; end and time zone are ignored.
func dateValue(d *notionapi.DateObject) Field {
	if d == nil || d.Start == nil {
		return Field{Kind: KindDate}
	}
	start := time.Time(*d.Start)
	return Field{
		Kind:  KindDate,
		Runs:  []string{start.Format(time.RFC3339)},
		Start: &start,
	}
}

// convertField maps a Field onto an API property for writing.
func convertField(f Field) (notionapi.Property, error) {
	switch f.Kind {
	case KindTitle:
		return notionapi.TitleProperty{
			Type:  notionapi.PropertyTypeTitle,
			Title: richTexts(f.Runs),
		}, nil
	case KindRichText:
		return notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richTexts(f.Runs),
		}, nil
	case KindMultiSelect:
		opts := make([]notionapi.Option, 0, len(f.Runs))
		for _, name := range f.Runs {
			opts = append(opts, notionapi.Option{Name: name})
		}
		return notionapi.MultiSelectProperty{
			Type:        notionapi.PropertyTypeMultiSelect,
			MultiSelect: opts,
		}, nil
	case KindDate:
		prop := notionapi.DateProperty{Type: notionapi.PropertyTypeDate}
		if f.Start != nil {
			start := notionapi.Date(*f.Start)
			prop.Date = &notionapi.DateObject{Start: &start}
		}
		return prop, nil
	case KindCheckbox:
		return notionapi.CheckboxProperty{
			Type:     notionapi.PropertyTypeCheckbox,
			Checkbox: f.Checked,
		}, nil
	default:
		return nil, fmt.Errorf("cannot write %q: %w", f.RawType, ErrUnsupportedKind)
	}
}

func richTexts(runs []string) []notionapi.RichText {
	rt := make([]notionapi.RichText, 0, len(runs))
	for _, s := range runs {
		rt = append(rt, notionapi.RichText{Text: &notionapi.Text{Content: s}})
	}
	return rt
}
