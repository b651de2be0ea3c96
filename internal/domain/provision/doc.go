// Package provision defines the domain model for machine provisioning state:
// who ran the provisioner, which steps completed and the detected OCR engine
// version. The state exists purely for observability; package managers remain
// the source of truth for what is installed.
package provision
