package model

// PointToPointInput is the full parameter set of a profile-driven
// computation.
type PointToPointInput struct {
	TXHeight float64 `json:"tx_height_m" yaml:"tx_height_m" mapstructure:"tx_height_m"`
	RXHeight float64 `json:"rx_height_m" yaml:"rx_height_m" mapstructure:"rx_height_m"`
	// Profile is the terrain in PFL wire form: [np, xi, z0 ... z_np].
	Profile         []float64    `json:"pfl" yaml:"pfl" mapstructure:"pfl"`
	FrequencyMHz    float64      `json:"frequency_mhz" yaml:"frequency_mhz" mapstructure:"frequency_mhz"`
	Polarization    Polarization `json:"polarization" yaml:"polarization" mapstructure:"polarization"`
	Ground          Ground       `json:"ground" yaml:"ground" mapstructure:"ground"`
	LocationPercent float64      `json:"location_percent" yaml:"location_percent" mapstructure:"location_percent"`
	// EffectiveDiffractionAngle evaluates the diffraction line at the
	// effective path angle rather than the published distance argument.
	EffectiveDiffractionAngle bool `json:"effective_diffraction_angle,omitempty" yaml:"effective_diffraction_angle,omitempty" mapstructure:"effective_diffraction_angle"`
}

// AreaInput is the full parameter set of a statistics-driven computation.
type AreaInput struct {
	TXHeight        float64        `json:"tx_height_m" yaml:"tx_height_m" mapstructure:"tx_height_m"`
	RXHeight        float64        `json:"rx_height_m" yaml:"rx_height_m" mapstructure:"rx_height_m"`
	TXSiting        SitingCriteria `json:"tx_siting" yaml:"tx_siting" mapstructure:"tx_siting"`
	RXSiting        SitingCriteria `json:"rx_siting" yaml:"rx_siting" mapstructure:"rx_siting"`
	DistanceKm      float64        `json:"distance_km" yaml:"distance_km" mapstructure:"distance_km"`
	DeltaH          float64        `json:"delta_h_m" yaml:"delta_h_m" mapstructure:"delta_h_m"`
	FrequencyMHz    float64        `json:"frequency_mhz" yaml:"frequency_mhz" mapstructure:"frequency_mhz"`
	Polarization    Polarization   `json:"polarization" yaml:"polarization" mapstructure:"polarization"`
	Ground          Ground         `json:"ground" yaml:"ground" mapstructure:"ground"`
	LocationPercent float64        `json:"location_percent" yaml:"location_percent" mapstructure:"location_percent"`
	// EffectiveDiffractionAngle evaluates the diffraction line at the
	// effective path angle rather than the published distance argument.
	EffectiveDiffractionAngle bool `json:"effective_diffraction_angle,omitempty" yaml:"effective_diffraction_angle,omitempty" mapstructure:"effective_diffraction_angle"`
}

// Swap returns the input with the TX and RX roles exchanged.
func (in AreaInput) Swap() AreaInput {
	in.TXHeight, in.RXHeight = in.RXHeight, in.TXHeight
	in.TXSiting, in.RXSiting = in.RXSiting, in.TXSiting
	return in
}
