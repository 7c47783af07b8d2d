// Package param models a plugin instance's parameter list as the host
// sees it: a host-assigned index, a stable opaque native id, display
// metadata, a plain-value range, capability flags, and — for enumerated
// parameters — an ordered list of (name, value) choices. Values are stored
// normalized (0-1) behind an atomic so the audio thread can read the
// current value without locking while the main thread applies updates
// from automation or the UI.
package param

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// Flags carries capability bits for a parameter: automatable, readable,
// hidden, and enumerated (the last implying Choices is populated).
type Flags uint32

const (
	CanAutomate Flags = 1 << iota
	IsReadable
	IsHidden
	IsEnumerated
	IsBypass
)

// Choice is one (name, plain-value) pair for an enumerated parameter.
type Choice struct {
	Name  string
	Value float64
}

// Parameter is one entry in a PluginInstance's parameter list.
type Parameter struct {
	Index      int32  // host-assigned, 0..N-1, stable unless the plugin rebuilds its list
	NativeID   uint32 // opaque id the adapter maps back to the plugin ABI
	Name       string
	ModulePath string // e.g. "Filter/Cutoff", mirrors CLAP/VST3 module-tree grouping
	Min, Max   float64
	Default    float64
	Flags      Flags
	Choices    []Choice

	value      uint64 // normalized [0,1] value, float64 bits, atomic
	formatFunc func(plain float64) string
	parseFunc  func(s string) (plain float64, err error)
}

// NewParameter returns a Parameter initialized to its default value.
func NewParameter(index int32, nativeID uint32, name string, min, max, def float64, flags Flags) *Parameter {
	p := &Parameter{
		Index: index, NativeID: nativeID, Name: name,
		Min: min, Max: max, Default: def, Flags: flags,
	}
	p.SetPlainValue(def)
	return p
}

// Value returns the current normalized [0,1] value.
func (p *Parameter) Value() float64 {
	return math.Float64frombits(atomic.LoadUint64(&p.value))
}

// SetValue sets the normalized value, clamped to [0,1].
func (p *Parameter) SetValue(normalized float64) {
	if normalized < 0 {
		normalized = 0
	} else if normalized > 1 {
		normalized = 1
	}
	atomic.StoreUint64(&p.value, math.Float64bits(normalized))
}

// PlainValue returns the current value in the parameter's native range.
func (p *Parameter) PlainValue() float64 {
	return p.Denormalize(p.Value())
}

// SetPlainValue sets the value from a native-range plain value.
func (p *Parameter) SetPlainValue(plain float64) {
	p.SetValue(p.Normalize(plain))
}

// Normalize converts a plain value into [0,1].
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	n := (plain - p.Min) / (p.Max - p.Min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// Denormalize converts a [0,1] value into the parameter's plain range.
func (p *Parameter) Denormalize(normalized float64) float64 {
	return p.Min + normalized*(p.Max-p.Min)
}

// SetFormatter installs custom display formatting/parsing, e.g. for
// enumerated or unit-suffixed parameters.
func (p *Parameter) SetFormatter(format func(float64) string, parse func(string) (float64, error)) {
	p.formatFunc = format
	p.parseFunc = parse
}

// FormatValue renders a normalized value as a display string.
func (p *Parameter) FormatValue(normalized float64) string {
	plain := p.Denormalize(normalized)
	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}
	if p.Flags&IsEnumerated != 0 {
		for _, c := range p.Choices {
			if c.Value == plain {
				return c.Name
			}
		}
	}
	return fmt.Sprintf("%.2f", plain)
}

// ParseValue parses a display string back into a normalized value.
func (p *Parameter) ParseValue(s string) (float64, error) {
	if p.parseFunc != nil {
		plain, err := p.parseFunc(s)
		if err != nil {
			return 0, err
		}
		return p.Normalize(plain), nil
	}
	plain, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return p.Normalize(plain), nil
}
