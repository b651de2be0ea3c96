package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	domain "github.com/oshokin/labkit/internal/domain/report"
)

// csvHeader matches the export layout consumed by the downstream lab tooling.
var csvHeader = []string{
	"test_name",
	"test_value",
	"bio_reference_range",
	"test_unit",
	"lab_test_out_of_range",
}

// ExportCSV writes the tests as CSV with a fixed header row.
func ExportCSV(w io.Writer, tests []*domain.LabTest) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, test := range tests {
		record := []string{
			test.Name,
			strconv.FormatFloat(test.Value, 'f', -1, 64),
			test.ReferenceRange(),
			test.Unit,
			strconv.FormatBool(test.OutOfRange),
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}
