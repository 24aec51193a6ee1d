package optim

// LinearDecay lowers the learning rate by Delta every Every steps, never
// going below Min. Step 0 counts as a decay step.
type LinearDecay struct {
	Every int     // Steps between decays; 0 disables the schedule
	Delta float64 // Amount subtracted per decay
	Min   float64 // Floor
}

// DefaultDecay is the schedule training runs use unless configured otherwise.
var DefaultDecay = LinearDecay{Every: 1000, Delta: 1e-6, Min: 1e-6}

// Next returns the learning rate to use after step.
func (d LinearDecay) Next(lr float64, step int) float64 {
	if d.Every <= 0 || step%d.Every != 0 {
		return lr
	}
	return max(lr-d.Delta, d.Min)
}
