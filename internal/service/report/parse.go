package report

import (
	"regexp"
	"strconv"
	"strings"

	domain "github.com/oshokin/labkit/internal/domain/report"
)

// Lab reports print a test per line, but layouts differ in where the unit
// sits. Three patterns cover the common orderings; they are tried in order
// and the first numerically sound match wins.
var (
	// Test name, value, range, optional trailing unit.
	lineNameValueRangeUnit = regexp.MustCompile(
		`([A-Za-z\s\(\)]+)\s*([\d\.]+)\s*([\d\.\-]+)\s*-\s*([\d\.\-]+)\s*([A-Za-z\/%]+)?`)

	// Test name, value, unit, range.
	lineNameValueUnitRange = regexp.MustCompile(
		`([A-Za-z\s\(\)]+)\s*([\d\.]+)\s*([A-Za-z\/%]+)\s*([\d\.\-]+)\s*-\s*([\d\.\-]+)`)

	// Test name, value, range.
	lineNameValueRange = regexp.MustCompile(
		`([A-Za-z\s\(\)]+)\s*([\d\.]+)\s*([\d\.\-]+)\s*-\s*([\d\.\-]+)`)

	// trailingUnit recovers a unit printed on its own continuation line.
	trailingUnit = regexp.MustCompile(`([A-Za-z\/%]+)$`)
)

// extractTests walks the recognized text line by line and assembles lab tests.
// A line that does not parse as a test may still complete the previous one,
// e.g. when the unit wrapped onto the next line.
func extractTests(text string) []*domain.LabTest {
	var (
		tests   []*domain.LabTest
		current *domain.LabTest
	)

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if test := parseTestLine(line); test != nil {
			if current != nil {
				tests = append(tests, current)
			}

			current = test

			continue
		}

		if current != nil {
			fillMissingUnit(current, line)
		}
	}

	if current != nil {
		tests = append(tests, current)
	}

	return tests
}

// parseTestLine attempts the known line layouts and returns the parsed test,
// or nil when the line does not describe a measurement.
func parseTestLine(line string) *domain.LabTest {
	if test := parseNameValueRangeUnit(line); test != nil {
		return test
	}

	if test := parseNameValueUnitRange(line); test != nil {
		return test
	}

	return parseNameValueRange(line)
}

func parseNameValueRangeUnit(line string) *domain.LabTest {
	m := lineNameValueRangeUnit.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	return newTest(m[1], m[2], m[3], m[4], m[5])
}

func parseNameValueUnitRange(line string) *domain.LabTest {
	m := lineNameValueUnitRange.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	return newTest(m[1], m[2], m[4], m[5], m[3])
}

func parseNameValueRange(line string) *domain.LabTest {
	m := lineNameValueRange.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	return newTest(m[1], m[2], m[3], m[4], "")
}

// newTest converts captured fields into a LabTest, rejecting matches whose
// numeric fields do not parse (OCR noise regularly produces those).
func newTest(name, value, refMin, refMax, unit string) *domain.LabTest {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}

	minValue, err := strconv.ParseFloat(refMin, 64)
	if err != nil {
		return nil
	}

	maxValue, err := strconv.ParseFloat(refMax, 64)
	if err != nil {
		return nil
	}

	return &domain.LabTest{
		Name:         strings.TrimSpace(name),
		Value:        v,
		ReferenceMin: minValue,
		ReferenceMax: maxValue,
		Unit:         strings.TrimSpace(unit),
		OutOfRange:   v < minValue || v > maxValue,
	}
}

// fillMissingUnit completes a test whose unit wrapped onto the next line.
func fillMissingUnit(test *domain.LabTest, line string) {
	if test.Unit != "" {
		return
	}

	if m := trailingUnit.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
		test.Unit = m[1]
	}
}
