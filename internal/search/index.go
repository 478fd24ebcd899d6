package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"cryptoguides-backend/internal/guide"
)

// Index wraps the bleve index of published guide documents, keyed by slug.
type Index struct {
	index bleve.Index
}

// IndexedGuide is the flattened, searchable projection of a canonical guide
// document. Section bodies are concatenated; hidden sections arrive from the
// assembler already emptied, so nothing suppressed ever gets indexed.
type IndexedGuide struct {
	Slug        string
	Title       string
	Description string
	Category    string
	Author      string
	Tags        []string
	Body        string
}

type Result struct {
	Slug      string
	Title     string
	Category  string
	Score     float64
	Fragments map[string][]string
}

// Open opens or creates the index at path.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &Index{index: idx}, nil
}

// OpenInMemory backs the index with memory only; used in tests.
func OpenInMemory() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create in-memory index: %w", err)
	}
	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = "en"

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Slug", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Title", titleFieldMapping)
	docMapping.AddFieldMappingsAt("Description", textFieldMapping)
	docMapping.AddFieldMappingsAt("Category", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Author", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Tags", textFieldMapping)
	docMapping.AddFieldMappingsAt("Body", textFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

func (i *Index) Close() error {
	return i.index.Close()
}

// IndexDocument projects a canonical guide document into the index,
// replacing any previous entry for the slug.
func (i *Index) IndexDocument(doc *guide.Document) error {
	var body strings.Builder
	for _, sec := range doc.Sections {
		body.WriteString(sec.Title)
		body.WriteString("\n")
		body.WriteString(sec.Content)
		body.WriteString("\n")
	}

	entry := &IndexedGuide{
		Slug:        doc.Slug,
		Title:       doc.Title,
		Description: doc.Description,
		Category:    doc.Category,
		Author:      doc.Author.Name,
		Tags:        doc.Tags,
		Body:        body.String(),
	}
	return i.index.Index(doc.Slug, entry)
}

func (i *Index) Delete(slug string) error {
	return i.index.Delete(slug)
}

// Search runs a query-string search (quotes, boolean operators and fuzzy ~
// all work) with highlighted fragments.
func (i *Index) Search(queryStr string, limit int) ([]*Result, error) {
	query := bleve.NewQueryStringQuery(queryStr)

	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Fields = []string{"Title", "Category"}

	results, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var out []*Result
	for _, hit := range results.Hits {
		r := &Result{
			Slug:      hit.ID,
			Score:     hit.Score,
			Fragments: hit.Fragments,
		}
		if title, ok := hit.Fields["Title"].(string); ok {
			r.Title = title
		}
		if category, ok := hit.Fields["Category"].(string); ok {
			r.Category = category
		}
		out = append(out, r)
	}
	return out, nil
}
