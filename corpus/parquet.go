package corpus

import (
	"io"
	"strings"
	"sync"

	"github.com/gomlx/go-nertags/tagger/api"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
)

// ColumnsMetadataKey is the parquet key-value metadata holding the comma-separated tag column names, when
// they are the same for every document.
const ColumnsMetadataKey = "nertags.columns"

// ParquetWriter is a Sink writing every token of every document as one Row of a parquet table.
// It is safe for concurrent use; Close must be called to write the file footer.
type ParquetWriter struct {
	mu      sync.Mutex
	writer  *parquet.GenericWriter[Row]
	options Options
	rows    int
}

// Compile time assert that ParquetWriter implements Sink.
var _ Sink = &ParquetWriter{}

// NewParquetWriter creates a writer of Rows to w. If columnNames is not empty, it is stored in the file
// metadata under ColumnsMetadataKey.
func NewParquetWriter(w io.Writer, options Options, columnNames []string) *ParquetWriter {
	var writerOptions []parquet.WriterOption
	if len(columnNames) > 0 {
		writerOptions = append(writerOptions, parquet.KeyValueMetadata(ColumnsMetadataKey, strings.Join(columnNames, ",")))
	}
	return &ParquetWriter{
		writer:  parquet.NewGenericWriter[Row](w, writerOptions...),
		options: options,
	}
}

// Write implements Sink.
func (p *ParquetWriter) Write(doc *Document, result api.Result) error {
	sentences, _ := Sentences(doc, result, p.options)
	var rows []Row
	for _, sentence := range sentences {
		rows = append(rows, sentence...)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	n, err := p.writer.Write(rows)
	p.rows += n
	if err != nil {
		return errors.Wrapf(err, "failed to write %d rows of document %q", len(rows), doc.ID)
	}
	return nil
}

// Rows returns the number of rows written so far.
func (p *ParquetWriter) Rows() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rows
}

// Close flushes the pending rows and writes the parquet footer. It doesn't close the underlying writer.
func (p *ParquetWriter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.writer.Close(); err != nil {
		return errors.Wrap(err, "failed to close parquet writer")
	}
	return nil
}
