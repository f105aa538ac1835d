package schema

// Limits bounds the size of host-provided Value trees. The core is total
// over well-formed input, but pathologically deep or wide descriptions are
// rejected with a structured error instead of unbounded recursion.
type Limits struct {
	// MaxDepth bounds tree nesting. Non-positive selects the default.
	MaxDepth int
	// MaxNodes bounds the total node count. Non-positive selects the default.
	MaxNodes int
}

// DefaultLimits are generous for any realistic RPC message type.
var DefaultLimits = Limits{MaxDepth: 64, MaxNodes: 1 << 16}

// OrDefault fills non-positive fields from DefaultLimits.
func (l Limits) OrDefault() Limits {
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultLimits.MaxDepth
	}
	if l.MaxNodes <= 0 {
		l.MaxNodes = DefaultLimits.MaxNodes
	}
	return l
}
