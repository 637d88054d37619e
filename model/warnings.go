package model

import "strings"

// Warning is a bitmask of advisory flags raised while computing a loss.
// Warnings accumulate with bitwise OR and never abort a computation.
type Warning uint32

const (
	WarnNone Warning = 0

	WarnTXTerminalHeight      Warning = 0x0001 // TX height outside [1, 1000] m
	WarnRXTerminalHeight      Warning = 0x0002 // RX height outside [1, 1000] m
	WarnFrequency             Warning = 0x0004 // frequency outside [40, 10000] MHz
	WarnPathDistanceTooBig1   Warning = 0x0008 // path longer than 1000 km
	WarnPathDistanceTooBig2   Warning = 0x0010 // path longer than 2000 km
	WarnPathDistanceTooSmall1 Warning = 0x0020 // path shorter than the effective-height minimum
	WarnPathDistanceTooSmall2 Warning = 0x0040 // path shorter than 1 km
	WarnTXHorizonAngle        Warning = 0x0080
	WarnRXHorizonAngle        Warning = 0x0100
	WarnTXHorizonDistance1    Warning = 0x0200 // below 0.1x smooth-surface horizon
	WarnRXHorizonDistance1    Warning = 0x0400
	WarnTXHorizonDistance2    Warning = 0x0800 // above 3x smooth-surface horizon
	WarnRXHorizonDistance2    Warning = 0x1000
)

var warningNames = []struct {
	flag Warning
	name string
}{
	{WarnTXTerminalHeight, "TX_TERMINAL_HEIGHT"},
	{WarnRXTerminalHeight, "RX_TERMINAL_HEIGHT"},
	{WarnFrequency, "FREQUENCY"},
	{WarnPathDistanceTooBig1, "PATH_DISTANCE_TOO_BIG_1"},
	{WarnPathDistanceTooBig2, "PATH_DISTANCE_TOO_BIG_2"},
	{WarnPathDistanceTooSmall1, "PATH_DISTANCE_TOO_SMALL_1"},
	{WarnPathDistanceTooSmall2, "PATH_DISTANCE_TOO_SMALL_2"},
	{WarnTXHorizonAngle, "TX_HORIZON_ANGLE"},
	{WarnRXHorizonAngle, "RX_HORIZON_ANGLE"},
	{WarnTXHorizonDistance1, "TX_HORIZON_DISTANCE_1"},
	{WarnRXHorizonDistance1, "RX_HORIZON_DISTANCE_1"},
	{WarnTXHorizonDistance2, "TX_HORIZON_DISTANCE_2"},
	{WarnRXHorizonDistance2, "RX_HORIZON_DISTANCE_2"},
}

// Has reports whether every bit of flag is set in w.
func (w Warning) Has(flag Warning) bool {
	return flag != 0 && w&flag == flag
}

// Flags returns the individual flags set in w, in ascending bit order.
func (w Warning) Flags() []Warning {
	var out []Warning
	for _, wn := range warningNames {
		if w&wn.flag != 0 {
			out = append(out, wn.flag)
		}
	}
	return out
}

// Names returns the identifiers of the flags set in w.
func (w Warning) Names() []string {
	var out []string
	for _, wn := range warningNames {
		if w&wn.flag != 0 {
			out = append(out, wn.name)
		}
	}
	return out
}

// String renders the set flags joined by "|", or "NONE".
func (w Warning) String() string {
	if w == WarnNone {
		return "NONE"
	}
	return strings.Join(w.Names(), "|")
}
