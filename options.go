package gbm

// DeviceOption configures a Device when it is opened.
//
// Example:
//
//	// Pick the backend from the kernel driver name
//	dev, err := gbm.Open("/dev/dri/renderD128")
//
//	// Force a backend regardless of the driver name
//	dev, err := gbm.Open("/dev/dri/card0", gbm.WithBackend("vc4"))
type DeviceOption func(*deviceOptions)

// deviceOptions holds optional configuration for Device creation.
type deviceOptions struct {
	backend  string
	registry *Registry
}

// defaultOptions returns the default device options.
func defaultOptions() deviceOptions {
	return deviceOptions{
		backend:  "", // Selected by driver name
		registry: globalRegistry,
	}
}

// WithBackend selects a registered backend by name instead of by the
// kernel driver name.
func WithBackend(name string) DeviceOption {
	return func(o *deviceOptions) {
		o.backend = name
	}
}

// WithRegistry resolves backends from r instead of the global registry.
func WithRegistry(r *Registry) DeviceOption {
	return func(o *deviceOptions) {
		if r != nil {
			o.registry = r
		}
	}
}
