// Package records reads and writes the delimited text files exchanged with
// downstream pipelines. The default dialect follows MySQL's SELECT ... INTO
// OUTFILE conventions: tab-separated fields, LF-terminated records, no quote
// character and backslash escapes. The comma dialect is RFC 4180 CSV.
package records

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is one record.
type Row []string

// Format describes a delimited-text dialect. Quoted dialects follow RFC 4180
// (fields holding the delimiter, a quote or a line break are quoted, nothing
// is backslash-escaped); the others use MySQL escaping.
type Format struct {
	Name      string
	Delimiter byte
	Quoted    bool
}

// Supported dialects.
var (
	MySQL = Format{Name: "tab", Delimiter: '\t'}
	Comma = Format{Name: "comma", Delimiter: ',', Quoted: true}
)

const (
	escapeChar = '\\'
	nullField  = `\N`
)

// ParseFormat maps a dialect name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tab", "mysql", "tsv":
		return MySQL, nil
	case "comma", "csv":
		return Comma, nil
	default:
		return Format{}, fmt.Errorf("unknown delimiter %q (want tab or comma)", name)
	}
}

// AppendRow appends the encoded record, including its terminator, to dst.
func (f Format) AppendRow(dst []byte, row Row) []byte {
	if f.Quoted {
		return f.appendQuoted(dst, row)
	}

	for i, field := range row {
		if i > 0 {
			dst = append(dst, f.Delimiter)
		}

		dst = f.appendField(dst, field)
	}

	return append(dst, '\n')
}

func (f Format) appendField(dst []byte, field string) []byte {
	for i := 0; i < len(field); i++ {
		switch c := field[i]; c {
		case '\n':
			dst = append(dst, escapeChar, 'n')
		case '\r':
			dst = append(dst, escapeChar, 'r')
		case escapeChar, f.Delimiter:
			dst = append(dst, escapeChar, c)
		default:
			dst = append(dst, c)
		}
	}

	return dst
}

func (f Format) appendQuoted(dst []byte, row Row) []byte {
	buf := bytes.NewBuffer(dst)

	w := f.csvWriter(buf)
	w.Write(row) //nolint:errcheck // writes to a bytes.Buffer cannot fail.
	w.Flush()

	return buf.Bytes()
}

func (f Format) csvWriter(buf *bytes.Buffer) *csv.Writer {
	w := csv.NewWriter(buf)
	w.Comma = rune(f.Delimiter)

	return w
}

func (f Format) csvReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = rune(f.Delimiter)
	cr.FieldsPerRecord = -1

	return cr
}

// DecodeLine splits one record (without its terminator) into fields.
// Only quoted dialects can fail, on malformed quoting.
func (f Format) DecodeLine(line string) (Row, error) {
	if f.Quoted {
		row, err := f.csvReader(strings.NewReader(line)).Read()
		if err != nil {
			return nil, err
		}

		return row, nil
	}

	return f.decodeEscaped(line), nil
}

func (f Format) decodeEscaped(line string) Row {
	var (
		row   Row
		field strings.Builder
		raw   int // start of the current field in line, for null detection
	)

	flush := func(end int) {
		if line[raw:end] == nullField {
			row = append(row, "")
		} else {
			row = append(row, field.String())
		}

		field.Reset()
	}

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case c == f.Delimiter:
			flush(i)
			raw = i + 1
		case c == escapeChar && i+1 < len(line):
			i++
			field.WriteString(unescape(line[i], f.Delimiter))
		default:
			field.WriteByte(c)
		}
	}

	flush(len(line))

	return row
}

func unescape(c, delimiter byte) string {
	switch c {
	case 'n':
		return "\n"
	case 'r':
		return "\r"
	case 't':
		return "\t"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case escapeChar, delimiter:
		return string(c)
	default:
		return string([]byte{escapeChar, c})
	}
}
