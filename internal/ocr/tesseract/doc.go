// Package tesseract implements the ocr.Engine contract on top of the
// gosseract bindings. It also exposes PATH and version probes used by the
// provisioner's verify step.
package tesseract
