//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.

// Package common holds helpers shared across the labkit services.
package common
