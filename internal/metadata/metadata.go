// Package metadata looks up the structured record behind an article
// identifier, used to render human-readable citations for search results.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Placeholder strings for missing record fields, as published by the
// upstream paper corpus.
const (
	unknownIssueDate = "出版日不明"
	unknownIndex     = "インデクス無し"
	unknownBody      = "内容無し"
)

// Store is read-only access to per-article metadata records.
type Store interface {
	// Record returns the metadata record for an article id (the part of the
	// key after "ID:"), or domain.ErrMetadataNotFound.
	Record(ctx context.Context, articleID string) (Record, error)
}

// Record is one article's metadata as stored in the corpus.
type Record struct {
	Title        string   `json:"title"`
	Keywords     []string `json:"keywords"`
	Index        string   `json:"index"`
	DateOfIssued string   `json:"dateofissued"`
	Description  FlexText `json:"description"`
}

// Authors extracts the author names from the P:-prefixed keywords.
func (r Record) Authors() []string {
	authors := make([]string, 0, len(r.Keywords))
	for _, kw := range r.Keywords {
		if strings.HasPrefix(kw, "P:") {
			authors = append(authors, kw[2:])
		}
	}
	return authors
}

// Citation renders the record as a one-line citation:
// authors, "title", index, date. Missing fields fall back to the corpus
// placeholder strings.
func (r Record) Citation() string {
	index := r.Index
	if index == "" {
		index = unknownIndex
	}
	date := r.DateOfIssued
	if date == "" {
		date = unknownIssueDate
	}
	return fmt.Sprintf("%s, %q, %s, %s", strings.Join(r.Authors(), ", "), r.Title, index, date)
}

// Body returns the description text, or the corpus placeholder when absent.
func (r Record) Body() string {
	if r.Description == "" {
		return unknownBody
	}
	return string(r.Description)
}

// FlexText is a string that the corpus sometimes encodes as a JSON list;
// the first element wins then.
type FlexText string

// UnmarshalJSON accepts a string, a list of strings, or null.
func (f *FlexText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexText(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) > 0 {
			*f = FlexText(list[0])
		} else {
			*f = ""
		}
		return nil
	}
	if string(data) == "null" {
		*f = ""
		return nil
	}
	return fmt.Errorf("description is neither string nor list: %s", data)
}
