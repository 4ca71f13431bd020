// Package csvcodec moves table data across the process boundary as CSV text.
//
// Import parses a file with a header row into a replaceData intent; the row
// store is replaced, never merged. Export writes the visible columns of every
// row, keyed by display label. Neither function touches the Store: callers
// dispatch the returned intent themselves.
package csvcodec

import (
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/JonMunkholm/datatable/internal/core"
)

// ExtraFieldPolicy decides what happens to headers that name no column.
type ExtraFieldPolicy string

const (
	// ExtraRegister registers unknown headers as editable string columns.
	ExtraRegister ExtraFieldPolicy = "register"
	// ExtraReject fails the import with core.ExtraColumnsError.
	ExtraReject ExtraFieldPolicy = "reject"
)

// DefaultMaxBytes is the import size limit when none is configured.
const DefaultMaxBytes int64 = 10 << 20

// Options configures Import.
type Options struct {
	RequiredFields []string         // Field ids that must appear as headers
	ExtraFields    ExtraFieldPolicy // Handling of unknown headers
	MatchLabels    bool             // Also resolve headers by column label
	MaxBytes       int64            // Size limit, 0 means unlimited
}

// DefaultOptions requires the four core fields and registers extra headers.
func DefaultOptions() Options {
	return Options{
		RequiredFields: []string{"name", "email", "age", "role"},
		ExtraFields:    ExtraRegister,
		MatchLabels:    true,
		MaxBytes:       DefaultMaxBytes,
	}
}

// ImportResult is a parsed file, ready to be dispatched.
type ImportResult struct {
	Headers []string      // Header cells as read, trimmed
	Fields  []string      // Field id each header resolved to
	Columns []core.Column // Columns registered for extra headers
	Rows    []core.Row    // Parsed rows, without ids
	Skipped int           // Blank lines ignored
}

// Intent returns the replaceData intent that applies the import.
func (r ImportResult) Intent() core.ReplaceData {
	return core.ReplaceData{Rows: r.Rows, Columns: r.Columns}
}

// Import parses CSV text against the columns registered in state.
//
// Errors are reported in this order: size limit, parser errors (aggregated
// into core.ParseError), no data rows (core.ErrEmptyData), missing required
// headers (core.MissingColumnsError), unknown headers under ExtraReject
// (core.ExtraColumnsError).
func Import(r io.Reader, state core.TableState, opts Options) (ImportResult, error) {
	var src io.Reader = r
	if opts.MaxBytes > 0 {
		src = &limitReader{r: r, limit: opts.MaxBytes}
	}

	// Strip a UTF-8 BOM and replace invalid byte sequences with U+FFFD.
	decoded := transform.NewReader(src, unicode.UTF8BOM.NewDecoder())

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		header  []string
		records [][]string
		errs    []error
		skipped int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var tooLarge core.FileTooLargeError
			if errors.As(err, &tooLarge) {
				return ImportResult{}, tooLarge
			}
			errs = append(errs, err)
			break
		}
		if isEmptyRow(rec) {
			skipped++
			continue
		}
		if header == nil {
			header = cleanHeader(rec)
			continue
		}
		if len(rec) != len(header) {
			line, _ := cr.FieldPos(0)
			errs = append(errs, &csv.ParseError{StartLine: line, Line: line, Column: 1, Err: csv.ErrFieldCount})
			continue
		}
		records = append(records, rec)
	}

	if len(errs) > 0 {
		return ImportResult{}, core.ParseError{Errs: errs}
	}
	if len(records) == 0 {
		return ImportResult{}, core.ErrEmptyData
	}

	fields, extras := resolveHeaders(header, state, opts.MatchLabels)

	if missing := missingFields(fields, opts.RequiredFields); len(missing) > 0 {
		return ImportResult{}, core.MissingColumnsError{Fields: missing}
	}

	var cols []core.Column
	if len(extras) > 0 {
		if opts.ExtraFields == ExtraReject {
			names := make([]string, len(extras))
			for i, idx := range extras {
				names[i] = header[idx]
			}
			return ImportResult{}, core.ExtraColumnsError{Fields: names}
		}
		cols = registerExtras(header, fields, extras, state)
	}

	rows := make([]core.Row, 0, len(records))
	for _, rec := range records {
		values := make(map[string]any, len(rec))
		for i, cell := range rec {
			if cell == "" {
				continue
			}
			if _, dup := values[fields[i]]; dup {
				continue
			}
			values[fields[i]] = cell
		}
		rows = append(rows, core.Row{Fields: values})
	}

	return ImportResult{
		Headers: header,
		Fields:  fields,
		Columns: cols,
		Rows:    rows,
		Skipped: skipped,
	}, nil
}

// resolveHeaders maps each header to a field id: an exact field id first,
// then an exact column label. It returns the indices of headers matching
// neither; their entry in fields is left empty.
func resolveHeaders(header []string, state core.TableState, matchLabels bool) (fields []string, extras []int) {
	fields = make([]string, len(header))
	for i, h := range header {
		if state.HasColumn(h) {
			fields[i] = h
			continue
		}
		if matchLabels {
			if idx := slices.IndexFunc(state.Columns, func(c core.Column) bool { return c.Label == h }); idx >= 0 {
				fields[i] = state.Columns[idx].Field
				continue
			}
		}
		extras = append(extras, i)
	}
	return fields, extras
}

func missingFields(fields, required []string) []string {
	var missing []string
	for _, f := range required {
		if !slices.Contains(fields, f) {
			missing = append(missing, f)
		}
	}
	return missing
}

var nonFieldChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// registerExtras derives a field id for each extra header and returns the
// column definitions to register. The header text becomes the label.
func registerExtras(header, fields []string, extras []int, state core.TableState) []core.Column {
	taken := func(f string) bool {
		return state.HasColumn(f) || slices.Contains(fields, f)
	}

	cols := make([]core.Column, 0, len(extras))
	for _, idx := range extras {
		base := fieldID(header[idx])
		f := base
		for n := 2; taken(f); n++ {
			f = base + "_" + strconv.Itoa(n)
		}
		fields[idx] = f

		label := header[idx]
		if label == "" {
			label = f
		}
		cols = append(cols, core.Column{Field: f, Label: label, Type: core.ColumnString, Editable: true})
	}
	return cols
}

// fieldID turns header text into a valid field id: "Zip Code" -> "zip_code".
func fieldID(h string) string {
	f := strings.Trim(nonFieldChars.ReplaceAllString(strings.ToLower(h), "_"), "_")
	if f == "" {
		return "column"
	}
	if f[0] < 'a' || f[0] > 'z' {
		f = "col_" + f
	}
	return f
}

func cleanHeader(rec []string) []string {
	out := make([]string, len(rec))
	for i, h := range rec {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// limitReader fails with core.FileTooLargeError once more than limit bytes
// have been read.
type limitReader struct {
	r     io.Reader
	n     int64
	limit int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.n > l.limit {
		return 0, core.FileTooLargeError{Limit: l.limit}
	}
	if room := l.limit + 1 - l.n; int64(len(p)) > room {
		p = p[:room]
	}
	n, err := l.r.Read(p)
	l.n += int64(n)
	if l.n > l.limit {
		return 0, core.FileTooLargeError{Limit: l.limit}
	}
	return n, err
}
