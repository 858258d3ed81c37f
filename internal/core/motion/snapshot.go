package motion

// Snapshot is the read-only view a debug overlay draws from.
type Snapshot struct {
	State      AccelerationState `json:"state"`
	Input      float64           `json:"input"`
	Parameter  float64           `json:"parameter"`
	Ratio      float64           `json:"ratio"`
	Velocity   float64           `json:"velocity"`
	Curve      string            `json:"curve,omitempty"`
	CurveStart float64           `json:"curve_start"`
	CurveEnd   float64           `json:"curve_end"`
	Inert      bool              `json:"inert,omitempty"`
}

func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		State:     c.state,
		Input:     c.input,
		Parameter: c.regime.Parameter,
		Ratio:     c.ratio,
		Velocity:  c.velocity,
		Inert:     c.Inert(),
	}
	if c.regime.Active() {
		s.Curve = curveName(c.regime.Curve)
		s.CurveStart = c.regime.Curve.FirstKeyTime()
		s.CurveEnd = c.regime.Curve.LastKeyTime()
	}
	return s
}
