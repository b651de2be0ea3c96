// Package state implements persistence for the provisioning State.
//
// The FileRepository stores and loads the state as JSON on disk and exposes a
// Repository interface that the provisioner depends on.
package state
