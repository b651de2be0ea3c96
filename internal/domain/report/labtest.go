package report

import (
	"fmt"
	"strconv"
)

// LabTest is a single measurement extracted from a lab report image.
type LabTest struct {
	// Name is the test name as printed on the report (e.g. "Hemoglobin").
	Name string
	// Value is the measured value.
	Value float64
	// ReferenceMin is the lower bound of the biological reference range.
	ReferenceMin float64
	// ReferenceMax is the upper bound of the biological reference range.
	ReferenceMax float64
	// Unit is the measurement unit (e.g. "g/dL"). May be empty when the
	// report omits it or OCR failed to capture it.
	Unit string
	// OutOfRange reports whether Value falls outside the reference range.
	OutOfRange bool
}

// Clone returns a copy of the test.
func (t *LabTest) Clone() *LabTest {
	if t == nil {
		return nil
	}

	cloned := *t

	return &cloned
}

// ReferenceRange renders the reference bounds as printed in exports ("12.0-15.5").
func (t *LabTest) ReferenceRange() string {
	return fmt.Sprintf("%s-%s",
		strconv.FormatFloat(t.ReferenceMin, 'f', -1, 64),
		strconv.FormatFloat(t.ReferenceMax, 'f', -1, 64))
}

// IsValid reports whether the test carries the fields required for export:
// a non-empty name. Value presence is guaranteed by construction, but rows
// recovered from malformed OCR text may lose their names.
func (t *LabTest) IsValid() bool {
	return t != nil && t.Name != ""
}
