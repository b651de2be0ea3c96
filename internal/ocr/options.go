package ocr

import "strconv"

// Option mutates an OCR input before submission.
type Option func(*Input)

// NewInput builds an Input for the provided image with options applied.
func NewInput(id string, image []byte, opts ...Option) Input {
	in := Input{
		ID:    id,
		Image: image,
	}

	for _, opt := range opts {
		opt(&in)
	}

	return in
}

// WithLanguages sets language hints on the OCR input.
func WithLanguages(langs ...string) Option {
	return func(in *Input) {
		in.Languages = append([]string(nil), langs...)
	}
}

// WithDPI overrides the DPI value on the OCR input.
func WithDPI(dpi int) Option {
	return func(in *Input) {
		in.DPI = dpi
	}
}

// WithPageSegmentationMode sets the Tesseract page segmentation mode (PSM).
// Mode 6 ("assume a single uniform block of text") works well for the tabular
// layout of lab reports.
func WithPageSegmentationMode(mode int) Option {
	return func(in *Input) {
		setVariable(in, "tessedit_pageseg_mode", strconv.Itoa(mode))
	}
}

// WithWhitelist restricts recognition to the provided characters.
func WithWhitelist(chars string) Option {
	return func(in *Input) {
		setVariable(in, "tessedit_char_whitelist", chars)
	}
}

func setVariable(in *Input, key, value string) {
	if in.Variables == nil {
		in.Variables = make(map[string]string)
	}

	in.Variables[key] = value
}
