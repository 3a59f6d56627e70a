// Package creditcontrol assembles and disassembles Diameter Credit-Control
// request and answer bodies against a loaded dictionary. The engine deals in
// ordered attribute sequences only; framing the 20-byte command header is the
// transport's job.
package creditcontrol

import (
	"github.com/hsdfat8/gy-dcca/dictionary"
)

// Credit-Control command identity (RFC 4006).
const (
	CommandCode = 272
	AppID       = 4
)

// RequestKind selects the CC-Request-Type of a built request. The numeric
// values match the enumerated wire values.
type RequestKind int32

const (
	Initial RequestKind = iota + 1
	Update
	Terminate
	Event
)

func (k RequestKind) String() string {
	switch k {
	case Initial:
		return "INITIAL_REQUEST"
	case Update:
		return "UPDATE_REQUEST"
	case Terminate:
		return "TERMINATION_REQUEST"
	case Event:
		return "EVENT_REQUEST"
	}
	return "UNKNOWN_REQUEST"
}

// Engine builds and parses Credit-Control message bodies. It holds only a
// reference to the read-only registry, so one engine is safe for any number
// of concurrent build/parse calls.
type Engine struct {
	reg *dictionary.Registry
}

// NewEngine binds an engine to a loaded registry. An empty registry is
// refused up front rather than surfacing as unknown-attribute errors on
// every later call.
func NewEngine(reg *dictionary.Registry) (*Engine, error) {
	if reg == nil || reg.Empty() {
		return nil, dictionary.ErrSchemaLoad{Reason: "registry is empty"}
	}
	return &Engine{reg: reg}, nil
}
