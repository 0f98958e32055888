package emissions

// Step is the result of one playback tick.
type Step struct {
	Year     int
	Continue bool
}

// Tick advances current by one year. Once current reaches max it stays put
// and Continue is false; the caller must stop driving ticks.
func Tick(current, max int) Step {
	if current >= max {
		return Step{Year: current, Continue: false}
	}
	return Step{Year: current + 1, Continue: true}
}
