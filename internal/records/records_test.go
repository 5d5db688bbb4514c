package records_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/lexiconlab/babelex/internal/models"
	"github.com/lexiconlab/babelex/internal/records"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}

	return path
}

func TestFormat_Escaping(t *testing.T) {
	tests := []struct {
		name   string
		format records.Format
		row    records.Row
		want   string
	}{
		{name: "plain", format: records.MySQL, row: records.Row{"bn:1n", "bn:2n:1,bn:3n:-1"}, want: "bn:1n\tbn:2n:1,bn:3n:-1\n"},
		{name: "tab in field", format: records.MySQL, row: records.Row{"a\tb"}, want: "a\\\tb\n"},
		{name: "newline and backslash", format: records.MySQL, row: records.Row{"a\nb\\c\r"}, want: "a\\nb\\\\c\\r\n"},
		{name: "comma dialect quotes the neighbour list", format: records.Comma, row: records.Row{"A", "B:1,C:-2"}, want: "A,\"B:1,C:-2\"\n"},
		{name: "comma dialect leaves backslashes alone", format: records.Comma, row: records.Row{"a\\b", "x"}, want: "a\\b,x\n"},
		{name: "comma dialect doubles quotes", format: records.Comma, row: records.Row{`say "hi"`}, want: "\"say \"\"hi\"\"\"\n"},
		{name: "empty field", format: records.MySQL, row: records.Row{"x", ""}, want: "x\t\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := string(tc.format.AppendRow(nil, tc.row))
			if got != tc.want {
				t.Fatalf("AppendRow = %q, want %q", got, tc.want)
			}

			back, err := tc.format.DecodeLine(strings.TrimSuffix(got, "\n"))
			if err != nil {
				t.Fatalf("DecodeLine: %v", err)
			}
			if len(back) != len(tc.row) {
				t.Fatalf("DecodeLine fields = %d, want %d", len(back), len(tc.row))
			}

			for i := range back {
				if back[i] != tc.row[i] {
					t.Errorf("field %d = %q, want %q", i, back[i], tc.row[i])
				}
			}
		})
	}
}

func TestFormat_DecodeSpecials(t *testing.T) {
	row, err := records.MySQL.DecodeLine(`a\tb` + "\t" + `\N` + "\t" + `\q`)
	if err != nil || len(row) != 3 {
		t.Fatalf("fields = %d, want 3", len(row))
	}

	if row[0] != "a\tb" {
		t.Errorf("escaped tab = %q", row[0])
	}

	if row[1] != "" {
		t.Errorf("null field = %q, want empty", row[1])
	}

	if row[2] != `\q` {
		t.Errorf("unknown escape = %q, want kept verbatim", row[2])
	}
}

// Rows written in the comma dialect read back as the same fields through a
// standard CSV reader.
func TestFormat_CommaIsStandardCSV(t *testing.T) {
	rows := []records.Row{
		{"A", "B:1,D:-1,C:2"},
		{"bn:1n", "New York:7,NYC:2"},
		{"q", `a "quoted" lemma`},
		{"multi", "line\nbreak"},
	}

	var buf []byte
	for _, r := range rows {
		buf = records.Comma.AppendRow(buf, r)
	}

	got, err := csv.NewReader(bytes.NewReader(buf)).ReadAll()
	if err != nil {
		t.Fatalf("csv.ReadAll: %v", err)
	}

	if len(got) != len(rows) {
		t.Fatalf("records = %d, want %d", len(got), len(rows))
	}

	for i := range rows {
		if !slices.Equal(got[i], []string(rows[i])) {
			t.Errorf("record %d = %q, want %q", i, got[i], rows[i])
		}
	}

	var scanned []records.Row
	err = records.Scan(bytes.NewReader(buf), records.Comma, func(_ int, row records.Row) error {
		scanned = append(scanned, row)
		return nil
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(scanned) != len(rows) || scanned[3][1] != "line\nbreak" {
		t.Errorf("Scan = %q", scanned)
	}
}

func TestFormat_CommaMalformed(t *testing.T) {
	if _, err := records.Comma.DecodeLine(`A,"B:1`); err == nil {
		t.Error("expected error for unterminated quote")
	}

	err := records.Scan(strings.NewReader("A\nB,\"C\n"), records.Comma, func(int, records.Row) error { return nil })
	if err == nil {
		t.Error("expected Scan to report malformed quoting")
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]records.Format{"": records.MySQL, "TAB": records.MySQL, "comma": records.Comma} {
		got, err := records.ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", name, got, err)
		}
	}

	if _, err := records.ParseFormat("pipe"); err == nil {
		t.Error("expected error for unknown dialect")
	}
}

func TestReadIDs(t *testing.T) {
	path := writeFile(t, "synsets.txt", "bn:00000001n\textra\n\nbn:00000002n\r\nbn:00000003n")

	ids, err := records.ReadIDs(path, records.MySQL)
	if err != nil {
		t.Fatalf("ReadIDs: %v", err)
	}

	want := []models.NodeID{"bn:00000001n", "bn:00000002n", "bn:00000003n"}
	if len(ids) != len(want) {
		t.Fatalf("ReadIDs = %v, want %v", ids, want)
	}

	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestReadIDs_Errors(t *testing.T) {
	if _, err := records.ReadIDs(filepath.Join(t.TempDir(), "missing.txt"), records.MySQL); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	path := writeFile(t, "bad.txt", "ok\n\tsecond-field-only\n")

	_, err := records.ReadIDs(path, records.MySQL)
	if !errors.Is(err, models.ErrInvalidNodeID) {
		t.Fatalf("expected ErrInvalidNodeID, got %v", err)
	}

	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the line, got %q", err)
	}
}

func TestReadClusters(t *testing.T) {
	content := "1\t3\tpython#1, java#2, \n" +
		"2\t1\truby#0\n" +
		"1\t1\tgo#4, \n"
	path := writeFile(t, "clusters.txt", content)

	clusters, err := records.ReadClusters(path, records.MySQL)
	if err != nil {
		t.Fatalf("ReadClusters: %v", err)
	}

	if len(clusters) != 2 {
		t.Fatalf("clusters = %d, want 2", len(clusters))
	}

	if clusters[0].ID() != 1 || len(clusters[0].Senses()) != 1 || clusters[0].Lemmas()[0] != "go" {
		t.Errorf("cluster 1 should be replaced by the later record, got %v", clusters[0].Senses())
	}

	if clusters[1].ID() != 2 || clusters[1].Lemmas()[0] != "ruby" {
		t.Errorf("cluster 2 = %v", clusters[1].Lemmas())
	}

	bad := writeFile(t, "bad.txt", "x\t1\ta#1\n")
	if _, err := records.ReadClusters(bad, records.MySQL); err == nil {
		t.Error("expected error for non-numeric cluster id")
	}

	short := writeFile(t, "short.txt", "1\t2\n")
	if _, err := records.ReadClusters(short, records.MySQL); err == nil {
		t.Error("expected error for short record")
	}
}

func TestSink_ConcurrentAppend(t *testing.T) {
	var buf bytes.Buffer
	sink := records.NewSink(&buf, records.MySQL)

	const writers, perWriter = 16, 200

	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				id := fmt.Sprintf("w%d-%d", w, i)
				if err := sink.Append(records.Row{id, strings.Repeat(id+":1,", 20) + id + ":2"}); err != nil {
					t.Errorf("Append: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if sink.Rows() != writers*perWriter {
		t.Errorf("Rows() = %d, want %d", sink.Rows(), writers*perWriter)
	}

	seen := make(map[string]bool)
	err := records.Scan(&buf, records.MySQL, func(_ int, row records.Row) error {
		if len(row) != 2 {
			return fmt.Errorf("malformed row %q", row)
		}
		if !strings.HasPrefix(row[1], row[0]+":1,") || !strings.HasSuffix(row[1], row[0]+":2") {
			return fmt.Errorf("interleaved row %q", row)
		}
		seen[row[0]] = true
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(seen) != writers*perWriter {
		t.Errorf("distinct rows = %d, want %d", len(seen), writers*perWriter)
	}
}

func TestWithAppendSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(path, []byte("stale\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := records.WithAppendSink(path, records.MySQL, func(s *records.Sink) error {
		if err := s.Append(records.Row{"a", "1"}, records.Row{"b", "2"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected body error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "a\t1\nb\t2\n" {
		t.Errorf("file = %q, want rows flushed and old content truncated", data)
	}

	if err := records.WithAppendSink(filepath.Join(t.TempDir(), "no", "such", "dir.txt"), records.MySQL, func(*records.Sink) error { return nil }); err == nil {
		t.Error("expected error creating file in missing directory")
	}
}

func TestWriteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.txt")
	if err := records.WriteLines(path, records.MySQL, []string{"bn:1n", "bn:2n"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "bn:1n\nbn:2n\n" {
		t.Errorf("file = %q", data)
	}
}
