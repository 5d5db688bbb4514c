package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lexiconlab/babelex/internal/metrics"
)

func TestWriteTextfile(t *testing.T) {
	metrics.ItemsProcessed.WithLabelValues("textfile-test").Add(3)

	path := filepath.Join(t.TempDir(), "babelex.prom")
	if err := metrics.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), `babelex_extract_items_total{action="textfile-test"} 3`) {
		t.Errorf("textfile missing counter:\n%s", data)
	}
}

func TestWriteTextfile_BadPath(t *testing.T) {
	if err := metrics.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Error("expected error for missing directory")
	}
}
