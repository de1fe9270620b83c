// Package corpus reads annotated documents and writes their tag columns as CoNLL files or as a parquet
// table, processing batches of documents in parallel.
package corpus

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gomlx/go-nertags/spans"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Document is one annotated document, as read from JSON:
//
//	{"id": "doc-1", "text": "Goethe-Universität Frankfurt",
//	 "tokens": [{"begin": 0, "end": 18}, {"begin": 19, "end": 28}],
//	 "sentences": [{"begin": 0, "end": 28}],
//	 "entities": [{"begin": 0, "end": 28, "type": "ORG"}]}
//
// Offsets are byte offsets into Text.
type Document struct {
	ID        string        `json:"id,omitempty"`
	Text      string        `json:"text,omitempty"`
	Tokens    []spans.Token `json:"tokens"`
	Sentences []spans.Span  `json:"sentences,omitempty"`
	Entities  []spans.Span  `json:"entities,omitempty"`
}

// ReadDocument reads one JSON document. A document without an ID gets a random one.
func ReadDocument(r io.Reader) (*Document, error) {
	doc := &Document{}
	if err := json.NewDecoder(r).Decode(doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode document")
	}
	doc.normalize()
	return doc, nil
}

// ReadDocuments reads a stream of JSON documents, typically one per line.
func ReadDocuments(r io.Reader) ([]*Document, error) {
	decoder := json.NewDecoder(r)
	var docs []*Document
	for {
		doc := &Document{}
		err := decoder.Decode(doc)
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode document #%d", len(docs))
		}
		doc.normalize()
		docs = append(docs, doc)
	}
}

// ReadDocumentFile reads one JSON document from a file. A document without an ID is named after the file.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open document %q", path)
	}
	defer func() { _ = f.Close() }()
	doc := &Document{}
	if err := json.NewDecoder(f).Decode(doc); err != nil {
		return nil, errors.Wrapf(err, "failed to decode document %q", path)
	}
	if doc.ID == "" {
		doc.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	doc.normalize()
	return doc, nil
}

// ReadDocumentsFile reads a file with one JSON document per line.
func ReadDocumentsFile(path string) ([]*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open documents %q", path)
	}
	defer func() { _ = f.Close() }()
	docs, err := ReadDocuments(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "while reading %q", path)
	}
	return docs, nil
}

// normalize orders tokens and sentences by begin offset (longer first on ties), fills missing token text
// from the document text and assigns an ID if missing.
func (doc *Document) normalize() {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	slices.SortStableFunc(doc.Tokens, func(a, b spans.Token) int {
		if a.Begin != b.Begin {
			return a.Begin - b.Begin
		}
		return b.End - a.End
	})
	slices.SortStableFunc(doc.Sentences, func(a, b spans.Span) int {
		return a.Begin - b.Begin
	})
	for ii := range doc.Tokens {
		token := &doc.Tokens[ii]
		token.Index = ii
		if token.Text == "" && 0 <= token.Begin && token.Begin <= token.End && token.End <= len(doc.Text) {
			token.Text = doc.Text[token.Begin:token.End]
		}
	}
}
