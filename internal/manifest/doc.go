// Package manifest inspects pip requirements files.
//
// It never interprets version constraints or rewrites the file; the manifest
// format and semantics are owned by pip. The listing is used for logging and
// for post-install verification of the provisioning step.
package manifest
