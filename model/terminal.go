package model

// Terminal holds the per-terminal geometry derived once per computation,
// either from a terrain profile or from siting statistics.
type Terminal struct {
	// Height is the structural antenna height above local terrain, metres.
	Height float64 `json:"height_m" yaml:"height_m"`
	// EffectiveHeight replaces Height in the propagation formulas.
	EffectiveHeight float64 `json:"effective_height_m" yaml:"effective_height_m"`
	// HorizonAngle is the radio horizon elevation angle, radians.
	HorizonAngle float64 `json:"horizon_angle_rad" yaml:"horizon_angle_rad"`
	// HorizonDistance is the distance to the radio horizon, metres.
	HorizonDistance float64 `json:"horizon_distance_m" yaml:"horizon_distance_m"`
}

// Terminals pairs the transmitter and receiver geometry.
type Terminals struct {
	TX Terminal `json:"tx" yaml:"tx"`
	RX Terminal `json:"rx" yaml:"rx"`
}

// Swap returns the pair with the TX and RX roles exchanged.
func (t Terminals) Swap() Terminals {
	return Terminals{TX: t.RX, RX: t.TX}
}

// CombinedHorizonDistance is the sum of both horizon distances, metres.
func (t Terminals) CombinedHorizonDistance() float64 {
	return t.TX.HorizonDistance + t.RX.HorizonDistance
}

// Ground holds the electrical constants of the surface.
type Ground struct {
	// Epsilon is the relative permittivity.
	Epsilon float64 `json:"epsilon" yaml:"epsilon" mapstructure:"epsilon"`
	// Sigma is the conductivity, S/m.
	Sigma float64 `json:"sigma" yaml:"sigma" mapstructure:"sigma"`
}
