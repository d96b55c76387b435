package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mikey/phish-detector/internal/core"
)

// ErrInvalidRow is returned for CSV rows that are not url,label pairs
var ErrInvalidRow = errors.New("invalid dataset row")

// ImportCSV adds url,label rows to the repository and returns how many were
// read. A header row whose label column is not a number is skipped.
func ImportCSV(ctx context.Context, r io.Reader, repo core.DatasetRepository) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	imported := 0
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			return imported, nil
		}
		if err != nil {
			return imported, fmt.Errorf("failed to read CSV: %w", err)
		}

		url := strings.TrimSpace(record[0])
		label, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			if line == 1 {
				continue
			}
			return imported, fmt.Errorf("%w: line %d: label %q is not a number", ErrInvalidRow, line, record[1])
		}
		if url == "" || label < 0 {
			return imported, fmt.Errorf("%w: line %d", ErrInvalidRow, line)
		}

		if err := repo.Add(ctx, core.LabeledURL{URL: url, Label: label}); err != nil {
			return imported, err
		}
		imported++
	}
}
