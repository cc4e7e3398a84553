package game

// RoundReport totals what a round start changed on one or more units.
type RoundReport struct {
	ModesCommitted int `json:"modesCommitted"`
	BinsDumped     int `json:"binsDumped"`
}

func (r *RoundReport) Add(o RoundReport) {
	r.ModesCommitted += o.ModesCommitted
	r.BinsDumped += o.BinsDumped
}

// PhaseReport totals what a phase start changed.
type PhaseReport struct {
	JamsRevealed int `json:"jamsRevealed"`
	ModesReset   int `json:"modesReset"`
}

func (r *PhaseReport) Add(o PhaseReport) {
	r.JamsRevealed += o.JamsRevealed
	r.ModesReset += o.ModesReset
}
