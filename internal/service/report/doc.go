// Package report turns lab report images into structured test results.
//
// The pipeline is: binarize the image, recognize text through an ocr.Engine,
// parse measurement lines (name, value, reference range, unit) and flag
// values outside their reference range. Helpers validate rows, filter
// out-of-range results and export CSV.
package report
