package ibom

// Config selects the optional sections of the scene document.
type Config struct {
	IncludeTracks bool // Emit tracks, vias and filled zones
	IncludeNets   bool // Emit net names on pads, tracks and zones, and the net list
}

// DefaultConfig returns a Config producing the minimal document.
func DefaultConfig() Config {
	return Config{
		IncludeTracks: false,
		IncludeNets:   false,
	}
}
