// Package report defines the domain model for extracted lab report data.
package report
