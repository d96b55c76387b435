package ports

// Frontend is a user-facing surface that feeds inputs to the detector
type Frontend interface {
	// Start starts serving; it must not block
	Start() error

	// Stop stops serving and releases listeners
	Stop() error
}
