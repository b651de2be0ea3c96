// Package provision prepares a lab machine for report extraction.
//
// A run refreshes the OS package index, installs the OCR engine package,
// installs Python dependencies from the requirements manifest and finally
// reports the installed engine version. Steps execute strictly in sequence,
// each outcome is persisted to a JSON state file, and a single step can be
// rerun in isolation. A marker file prevents concurrent runs.
package provision
