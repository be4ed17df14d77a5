package metrics

import "github.com/san-kum/traysim/internal/dynamo"

// ContactFraction is the share of samples where the ball is on the tray,
// counting both riding and adhered samples.
type ContactFraction struct {
	name    string
	onTray  int
	samples int
}

func NewContactFraction() *ContactFraction {
	return &ContactFraction{
		name: "contact_fraction",
	}
}

func (c *ContactFraction) Name() string {
	return c.name
}

func (c *ContactFraction) Observe(s dynamo.Sample) {
	if s.Regime != dynamo.Free {
		c.onTray++
	}
	c.samples++
}

func (c *ContactFraction) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.onTray) / float64(c.samples)
}

func (c *ContactFraction) Reset() {
	c.onTray = 0
	c.samples = 0
}
