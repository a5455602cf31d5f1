package shortcuts

import (
	"keyloom/internal/dispatch"
	"keyloom/internal/install"
)

// RegistryBinder adapts a dispatch registry to the installer's Binder
// interface.
type RegistryBinder struct {
	reg *dispatch.Registry
}

// NewRegistryBinder wraps reg for use with an installer.
func NewRegistryBinder(reg *dispatch.Registry) *RegistryBinder {
	return &RegistryBinder{reg: reg}
}

// AddBinding registers a binding and returns its disposable handle.
func (rb *RegistryBinder) AddBinding(command string, keys []string, selector string, args map[string]any) (install.Handle, error) {
	b, err := rb.reg.AddBinding(command, keys, selector, args)
	if err != nil {
		return nil, err
	}
	return b, nil
}
