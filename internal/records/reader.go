package records

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lexiconlab/babelex/internal/models"
)

// ReadRecords opens path and passes every non-empty record to fn, stopping
// at the first error.
func ReadRecords(path string, format Format, fn func(line int, row Row) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := Scan(f, format, fn); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	return nil
}

// Scan decodes records from r, skipping blank lines. Escaped records never
// span lines and a trailing CR is dropped; quoted records may span lines.
func Scan(r io.Reader, format Format, fn func(line int, row Row) error) error {
	br := bufio.NewReaderSize(r, 64<<10)

	if format.Quoted {
		return scanQuoted(br, format, fn)
	}

	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("line %d: %w", n, err)
		}

		text := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if text != "" {
			if ferr := fn(n, format.decodeEscaped(text)); ferr != nil {
				return fmt.Errorf("line %d: %w", n, ferr)
			}
		}

		if err != nil {
			return nil
		}
	}
}

func scanQuoted(r io.Reader, format Format, fn func(line int, row Row) error) error {
	cr := format.csvReader(r)

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line, _ := cr.FieldPos(0)
		if ferr := fn(line, row); ferr != nil {
			return fmt.Errorf("line %d: %w", line, ferr)
		}
	}
}

// ReadIDs reads the first field of every record as a synset ID.
func ReadIDs(path string, format Format) ([]models.NodeID, error) {
	var ids []models.NodeID

	err := ReadRecords(path, format, func(_ int, row Row) error {
		id := models.NodeID(row[0])
		if err := id.Validate(); err != nil {
			return err
		}

		ids = append(ids, id)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// ReadClusters parses Chinese Whispers output: field 1 is the numeric cluster
// ID and field 3 the sense list "s1, s2, ..., ". A repeated cluster ID
// replaces the earlier record.
func ReadClusters(path string, format Format) ([]models.Cluster, error) {
	var clusters []models.Cluster

	pos := make(map[int]int)

	err := ReadRecords(path, format, func(_ int, row Row) error {
		if len(row) < 3 {
			return fmt.Errorf("cluster record has %d fields, want at least 3", len(row))
		}

		id, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return fmt.Errorf("parsing cluster id: %w", err)
		}

		c, err := models.NewCluster(id, splitSenses(row[2]))
		if err != nil {
			return err
		}

		if i, ok := pos[id]; ok {
			clusters[i] = c

			return nil
		}

		pos[id] = len(clusters)
		clusters = append(clusters, c)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return clusters, nil
}

func splitSenses(field string) []string {
	field = strings.TrimSuffix(strings.TrimSuffix(field, " "), ",")
	if field == "" {
		return nil
	}

	return strings.Split(field, ", ")
}
