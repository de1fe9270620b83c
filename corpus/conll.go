package corpus

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"

	"github.com/gomlx/go-nertags/tagger/api"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// WriteCoNLL writes the encoded document in CoNLL layout: one line per token with
// "text SEP pos SEP lemma SEP tag1 SEP ... tagN", and an empty line after each sentence.
//
// It returns the number of sentences skipped by FilterEmptySentences.
func WriteCoNLL(w io.Writer, doc *Document, result api.Result, options Options) (empty int, err error) {
	sentences, empty := Sentences(doc, result, options)
	buffered := bufio.NewWriter(w)
	fields := make([]string, 0, 8)
	for _, sentence := range sentences {
		for _, row := range sentence {
			fields = append(fields[:0], row.Text, row.POS, row.Lemma)
			fields = append(fields, row.Tags...)
			if _, err := buffered.WriteString(strings.Join(fields, options.Separator) + "\n"); err != nil {
				return empty, errors.Wrapf(err, "failed to write document %q", doc.ID)
			}
		}
		if err := buffered.WriteByte('\n'); err != nil {
			return empty, errors.Wrapf(err, "failed to write document %q", doc.ID)
		}
	}
	if err := buffered.Flush(); err != nil {
		return empty, errors.Wrapf(err, "failed to write document %q", doc.ID)
	}
	return empty, nil
}

// Sink receives the encoded documents of a Batch. Implementations must be safe for concurrent use.
type Sink interface {
	Write(doc *Document, result api.Result) error
}

// ConllDir is a Sink writing one CoNLL file per document into a directory, named after the document ID.
type ConllDir struct {
	dir     string
	options Options
}

// Compile time assert that ConllDir implements Sink.
var _ Sink = &ConllDir{}

// NewConllDir creates a Sink writing to dir, created if needed.
func NewConllDir(dir string, options Options) *ConllDir {
	return &ConllDir{dir: dir, options: options}
}

// Path returns the path of the file written for the document with the given ID and extension.
func (c *ConllDir) Path(docID, extension string) string {
	name := strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(docID)
	return filepath.Join(c.dir, name+extension)
}

// Write implements Sink.
func (c *ConllDir) Write(doc *Document, result api.Result) error {
	var empty int
	err := WriteLocked(c.Path(doc.ID, c.options.Extension), c.options.Overwrite, func(w io.Writer) (err error) {
		empty, err = WriteCoNLL(w, doc, result, c.options)
		return err
	})
	if err != nil {
		return err
	}
	if empty > 0 {
		klog.V(1).Infof("document %q: skipped %d empty sentences", doc.ID, empty)
	}
	if c.options.ExportRaw {
		err = WriteLocked(c.Path(doc.ID, c.options.RawExtension), c.options.Overwrite, func(w io.Writer) error {
			_, err := io.WriteString(w, doc.Text)
			return err
		})
		if err != nil {
			return errors.WithMessagef(err, "while exporting raw text of %q", doc.ID)
		}
	}
	return nil
}
