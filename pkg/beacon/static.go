package beacon

// Static is a Signal with a fixed answer. Start and Stop do nothing.
type Static bool

var _ Signal = Static(false)

// Start implements Signal.
func (Static) Start() error { return nil }

// Stop implements Signal.
func (Static) Stop() error { return nil }

// IsActive implements Signal.
func (s Static) IsActive() bool { return bool(s) }
