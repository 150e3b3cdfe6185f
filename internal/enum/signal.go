package enum

// Signal is the tri-state outcome of a single availability check. A checker
// that cannot tell either way answers SignalUnknown and the cascade moves on
// to the next signal.
type Signal string

const (
	SignalRegistered Signal = "registered"
	SignalAvailable  Signal = "available"
	SignalUnknown    Signal = "unknown"
)

func (t Signal) String() string {
	return string(t)
}
