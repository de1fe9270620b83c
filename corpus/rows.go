package corpus

import (
	"github.com/gomlx/go-nertags/spans"
	"github.com/gomlx/go-nertags/tagger/api"
	"golang.org/x/text/unicode/norm"
)

// Unused fills the POS and lemma fields of tokens that don't have them.
const Unused = "_"

// Options configures how documents are written.
type Options struct {
	// Separator between the fields of a CoNLL row.
	Separator string `yaml:"separator"`

	// FilterEmptySentences skips sentences without any token tagged in the first column.
	FilterEmptySentences bool `yaml:"filter_empty_sentences"`

	// WritePOS and WriteLemma control whether the token's POS and lemma are written. If false, or if
	// the token doesn't have them, Unused is written.
	WritePOS   bool `yaml:"write_pos"`
	WriteLemma bool `yaml:"write_lemma"`

	// Overwrite existing output files. If false, writing to an existing file fails with ErrExists.
	Overwrite bool `yaml:"overwrite"`

	// ExportRaw also writes the document text next to the CoNLL file, with the RawExtension.
	ExportRaw bool `yaml:"export_raw"`

	Extension    string `yaml:"extension"`
	RawExtension string `yaml:"raw_extension"`
}

// DefaultOptions returns the default writing options.
func DefaultOptions() Options {
	return Options{
		Separator:            " ",
		FilterEmptySentences: true,
		WritePOS:             true,
		WriteLemma:           true,
		Extension:            ".conll",
		RawExtension:         ".txt",
	}
}

// Row is one token with its tag columns, the unit written by all writers.
type Row struct {
	Document string   `parquet:"document,dict"`
	Sentence int      `parquet:"sentence"`
	Token    int      `parquet:"token"`
	Begin    int      `parquet:"begin"`
	End      int      `parquet:"end"`
	Text     string   `parquet:"text"`
	POS      string   `parquet:"pos"`
	Lemma    string   `parquet:"lemma"`
	Tags     []string `parquet:"tags,list"`
}

// Sentences groups the rows of an encoded document by sentence.
//
// A document without sentences is a single sentence. Tokens outside of every sentence are not written.
// If FilterEmptySentences is set, sentences without any token tagged in the first column are skipped and
// counted in empty.
func Sentences(doc *Document, result api.Result, options Options) (sentences [][]Row, empty int) {
	tokens := result.Tokens()
	if len(tokens) == 0 {
		return nil, 0
	}
	bounds := doc.Sentences
	if len(bounds) == 0 {
		bounds = []spans.Span{{Begin: tokens[0].Begin, End: tokens[len(tokens)-1].End}}
	}
	for _, sentence := range bounds {
		covered := spans.Covered(tokens, sentence)
		if len(covered) == 0 {
			continue
		}
		rows := make([]Row, 0, len(covered))
		tagged := 0
		for _, t := range covered {
			row := newRow(doc.ID, len(sentences), tokens[t], options)
			row.Tags = result.Columns(t)
			if len(row.Tags) > 0 && row.Tags[0] != api.Outside {
				tagged++
			}
			rows = append(rows, row)
		}
		if options.FilterEmptySentences && tagged == 0 {
			empty++
			continue
		}
		sentences = append(sentences, rows)
	}
	return sentences, empty
}

func newRow(docID string, sentence int, token spans.Token, options Options) Row {
	row := Row{
		Document: docID,
		Sentence: sentence,
		Token:    token.Index,
		Begin:    token.Begin,
		End:      token.End,
		Text:     norm.NFC.String(token.Text),
		POS:      Unused,
		Lemma:    Unused,
	}
	if row.Text == "" {
		row.Text = Unused
	}
	if options.WritePOS && token.POS != "" && token.POS != "null" {
		row.POS = token.POS
	}
	if options.WriteLemma && token.Lemma != "" && token.Lemma != "null" {
		row.Lemma = token.Lemma
	}
	return row
}
