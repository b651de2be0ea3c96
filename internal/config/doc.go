// Package config defines machine settings used by the labkit binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the requirements manifest path, the OCR system
// package, the update folder URL and provisioning state location.
package config
