package thermod

// Status is an immutable snapshot of the daemon state as returned by the
// /status and /monitor endpoints. The daemon reports more fields than the
// monitor needs; only the ones below are decoded, the rest are ignored.
type Status struct {
	Mode               Mode    `json:"status"`
	HeatingStatus      int     `json:"heating_status"`
	CurrentTemperature float64 `json:"current_temperature"`
	TargetTemperature  float64 `json:"target_temperature"`
}

// Heating reports whether the daemon is actively heating.
func (s *Status) Heating() bool {
	return s.HeatingStatus != 0
}
