package model

// Diagnostics is a read-only snapshot of intermediate values produced while
// computing a loss. It has no influence on the computation itself.
type Diagnostics struct {
	HorizonAngles        [2]float64 `json:"horizon_angles_rad" yaml:"horizon_angles_rad"`
	HorizonDistances     [2]float64 `json:"horizon_distances_m" yaml:"horizon_distances_m"`
	EffectiveHeights     [2]float64 `json:"effective_heights_m" yaml:"effective_heights_m"`
	DeltaH               float64    `json:"delta_h_m" yaml:"delta_h_m"`
	ReferenceAttenuation float64    `json:"a_ref_db" yaml:"a_ref_db"`
	FreeSpaceLoss        float64    `json:"a_fs_db" yaml:"a_fs_db"`
	DistanceKm           float64    `json:"distance_km" yaml:"distance_km"`
	Mode                 Mode       `json:"mode" yaml:"mode"`
}

// SetTerminals copies the derived terminal geometry into the snapshot,
// TX at index 0 and RX at index 1.
func (d *Diagnostics) SetTerminals(t Terminals) {
	d.HorizonAngles = [2]float64{t.TX.HorizonAngle, t.RX.HorizonAngle}
	d.HorizonDistances = [2]float64{t.TX.HorizonDistance, t.RX.HorizonDistance}
	d.EffectiveHeights = [2]float64{t.TX.EffectiveHeight, t.RX.EffectiveHeight}
}
