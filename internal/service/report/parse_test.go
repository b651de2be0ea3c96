package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseTestLine covers the supported measurement line layouts.
func TestParseTestLine(t *testing.T) {
	t.Parallel()

	// Name, value, range, unit.
	test := parseTestLine("Hemoglobin 11.2 12.0 - 15.5 g/dL")
	require.NotNil(t, test)
	require.Equal(t, "Hemoglobin", test.Name)
	require.InDelta(t, 11.2, test.Value, 0.001)
	require.InDelta(t, 12.0, test.ReferenceMin, 0.001)
	require.InDelta(t, 15.5, test.ReferenceMax, 0.001)
	require.Equal(t, "g/dL", test.Unit)
	require.True(t, test.OutOfRange)

	// Name, value, range without unit.
	test = parseTestLine("Platelet Count 250 150 - 450")
	require.NotNil(t, test)
	require.Equal(t, "Platelet Count", test.Name)
	require.Empty(t, test.Unit)
	require.False(t, test.OutOfRange)

	// Parenthesized names survive.
	test = parseTestLine("Packed Cell Volume (PCV) 57.5 40 - 50 %")
	require.NotNil(t, test)
	require.Equal(t, "Packed Cell Volume (PCV)", test.Name)
	require.Equal(t, "%", test.Unit)
	require.True(t, test.OutOfRange)

	// Lines without measurements are rejected.
	require.Nil(t, parseTestLine("Patient Name John Doe"))
	require.Nil(t, parseTestLine("Page two of two"))
}

// TestExtractTests exercises multi-line assembly and unit continuation lines.
func TestExtractTests(t *testing.T) {
	t.Parallel()

	text := `LABORATORY REPORT

Hemoglobin 11.2 12.0 - 15.5 g/dL
Total WBC Count 11500 4000 - 11000
cells/cumm
Platelet Count 250 150 - 450
`

	tests := extractTests(text)
	require.Len(t, tests, 3)

	require.Equal(t, "Hemoglobin", tests[0].Name)
	require.True(t, tests[0].OutOfRange)

	// The second test picked its unit up from the continuation line.
	require.Equal(t, "Total WBC Count", tests[1].Name)
	require.Equal(t, "cells/cumm", tests[1].Unit)
	require.True(t, tests[1].OutOfRange)

	require.Equal(t, "Platelet Count", tests[2].Name)
	require.False(t, tests[2].OutOfRange)
}

// TestExtractTests_Empty returns no tests for text without measurements.
func TestExtractTests_Empty(t *testing.T) {
	t.Parallel()

	require.Empty(t, extractTests("REPORT HEADER\nno measurements here\n"))
	require.Empty(t, extractTests(""))
}
