package model

import "fmt"

// Polarization of the radiated wave.
type Polarization int

const (
	PolarizationHorizontal Polarization = 0
	PolarizationVertical   Polarization = 1
)

// Valid reports whether p is one of the supported polarizations.
func (p Polarization) Valid() bool {
	return p == PolarizationHorizontal || p == PolarizationVertical
}

func (p Polarization) String() string {
	switch p {
	case PolarizationHorizontal:
		return "horizontal"
	case PolarizationVertical:
		return "vertical"
	default:
		return fmt.Sprintf("Polarization(%d)", int(p))
	}
}

// ParsePolarization accepts "horizontal"/"h"/"0" and "vertical"/"v"/"1".
func ParsePolarization(s string) (Polarization, error) {
	switch s {
	case "horizontal", "h", "H", "0":
		return PolarizationHorizontal, nil
	case "vertical", "v", "V", "1":
		return PolarizationVertical, nil
	}
	return 0, fmt.Errorf("unknown polarization %q", s)
}

// SitingCriteria describes how carefully an area-mode terminal was sited.
type SitingCriteria int

const (
	SitingMobile SitingCriteria = 0
	SitingFixed  SitingCriteria = 1
)

// Valid reports whether s is a supported siting criteria value.
func (s SitingCriteria) Valid() bool {
	return s == SitingMobile || s == SitingFixed
}

func (s SitingCriteria) String() string {
	switch s {
	case SitingMobile:
		return "mobile"
	case SitingFixed:
		return "fixed"
	default:
		return fmt.Sprintf("SitingCriteria(%d)", int(s))
	}
}

// ParseSitingCriteria accepts "mobile"/"0" and "fixed"/"1".
func ParseSitingCriteria(s string) (SitingCriteria, error) {
	switch s {
	case "mobile", "0":
		return SitingMobile, nil
	case "fixed", "1":
		return SitingFixed, nil
	}
	return 0, fmt.Errorf("unknown siting criteria %q", s)
}

// Mode is the propagation mode classified at the end of the reference
// attenuation calculation. Values match the published ILM constants.
type Mode int

const (
	ModeNotSet                   Mode = 0
	ModeLineOfSight              Mode = 10
	ModeDiffractionSingleHorizon Mode = 20
	ModeDiffractionDoubleHorizon Mode = 21
)

func (m Mode) String() string {
	switch m {
	case ModeNotSet:
		return "not_set"
	case ModeLineOfSight:
		return "line_of_sight"
	case ModeDiffractionSingleHorizon:
		return "diffraction_single_horizon"
	case ModeDiffractionDoubleHorizon:
		return "diffraction_double_horizon"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}
