package pbjson

// UnknownPolicy controls how JSON keys without a matching field are handled.
type UnknownPolicy int

const (
	UnknownStrict UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                       // Skip unknown keys.
)

// DecodeOpt bundles decoding options. When several are passed, the last wins.
type DecodeOpt struct {
	Unknown UnknownPolicy
	// MaxDepth bounds record nesting, counting the top-level record as 1.
	// Zero means unlimited.
	MaxDepth int
}

// EncodeOpt bundles encoding options. When several are passed, the last wins.
type EncodeOpt struct {
	// EnumsAsNames emits enum values by symbolic name instead of number.
	// Values with no descriptor still emit their number.
	EnumsAsNames bool
}

func decodeOpt(opts []DecodeOpt) DecodeOpt {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return DecodeOpt{}
}

func encodeOpt(opts []EncodeOpt) EncodeOpt {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return EncodeOpt{}
}
