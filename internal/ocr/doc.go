// Package ocr defines a small abstraction for plugging OCR engines into the
// lab report pipeline. The interface is transport-agnostic so engines can be
// backed by native libraries or remote APIs without leaking provider-specific
// concerns into callers. It also provides the image preprocessing applied
// before recognition.
package ocr
