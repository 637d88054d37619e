package core

import (
	"errors"

	"github.com/signalsfoundry/lunar-propagation/model"
)

// Hard failures. Any of these aborts a computation before a loss is
// produced. Callers test with errors.Is; the wrapped message carries the
// offending value.
var (
	ErrTXTerminalHeight = errors.New("tx terminal height out of range")
	ErrRXTerminalHeight = errors.New("rx terminal height out of range")
	ErrPercentage       = errors.New("location percentage out of range")
	ErrFrequency        = errors.New("frequency out of range")
	ErrPolarization     = errors.New("invalid polarization")
	ErrEpsilon          = errors.New("relative permittivity out of range")
	ErrSigma            = errors.New("conductivity out of range")
	ErrGroundImpedance  = errors.New("ground impedance imaginary part exceeds real part")
	ErrPathDistance     = errors.New("path distance out of range")
	ErrDeltaH           = errors.New("terrain irregularity parameter out of range")
	ErrTXSitingCriteria = errors.New("invalid tx siting criteria")
	ErrRXSitingCriteria = errors.New("invalid rx siting criteria")
	ErrTerrainProfile   = errors.New("malformed terrain profile")
)

// Integer return codes of the published ILM interface.
const (
	CodeSuccess             = 0
	CodeSuccessWithWarnings = 1

	CodeTXTerminalHeight  = 1000
	CodeRXTerminalHeight  = 1001
	CodeInvalidPercentage = 1002
	CodeRefractivity      = 1003 // reserved; the lunar model has no atmosphere
	CodeFrequency         = 1004
	CodePolarization      = 1005
	CodeEpsilon           = 1006
	CodeSigma             = 1007
	CodeGroundImpedance   = 1008
	CodePathDistance      = 1009
	CodeDeltaH            = 1010
	CodeTXSitingCriteria  = 1011
	CodeRXSitingCriteria  = 1012
	CodeTerrainProfile    = 1013

	// CodeUnknown is returned for errors that did not originate here.
	CodeUnknown = -1
)

var errorCodes = []struct {
	err  error
	code int
}{
	{ErrTXTerminalHeight, CodeTXTerminalHeight},
	{ErrRXTerminalHeight, CodeRXTerminalHeight},
	{ErrPercentage, CodeInvalidPercentage},
	{ErrFrequency, CodeFrequency},
	{ErrPolarization, CodePolarization},
	{ErrEpsilon, CodeEpsilon},
	{ErrSigma, CodeSigma},
	{ErrGroundImpedance, CodeGroundImpedance},
	{ErrPathDistance, CodePathDistance},
	{ErrDeltaH, CodeDeltaH},
	{ErrTXSitingCriteria, CodeTXSitingCriteria},
	{ErrRXSitingCriteria, CodeRXSitingCriteria},
	{ErrTerrainProfile, CodeTerrainProfile},
}

// Code maps an error returned by this package to its integer return code.
// A nil error maps to CodeSuccess.
func Code(err error) int {
	if err == nil {
		return CodeSuccess
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeUnknown
}

// ReturnCode combines the outcome of a computation into the single integer
// the published interface returns.
func ReturnCode(warnings model.Warning, err error) int {
	if err != nil {
		return Code(err)
	}
	if warnings != model.WarnNone {
		return CodeSuccessWithWarnings
	}
	return CodeSuccess
}
