package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*MonitorOptions)(nil)

// MonitorOptions configures the connection watchdog sweep.
type MonitorOptions struct {
	// Interval between watchdog sweeps.
	Interval time.Duration `json:"interval" mapstructure:"interval"`

	// StaleAfter is how long a company may stay silent before it is
	// flagged disconnected.
	StaleAfter time.Duration `json:"stale-after" mapstructure:"stale-after"`

	// MaxConcurrency bounds how many company checks run in parallel.
	MaxConcurrency int `json:"max-concurrency" mapstructure:"max-concurrency"`
}

// NewMonitorOptions creates a MonitorOptions object with default parameters.
func NewMonitorOptions() *MonitorOptions {
	return &MonitorOptions{
		Interval:       10 * time.Second,
		StaleAfter:     15 * time.Second,
		MaxConcurrency: 8,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *MonitorOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.Interval <= 0 {
		errors = append(errors, fmt.Errorf("monitor interval must be positive, got %s", o.Interval))
	}
	if o.StaleAfter <= 0 {
		errors = append(errors, fmt.Errorf("monitor stale-after must be positive, got %s", o.StaleAfter))
	}
	if o.MaxConcurrency < 1 {
		errors = append(errors, fmt.Errorf("monitor max-concurrency must be at least 1, got %d", o.MaxConcurrency))
	}

	return errors
}

// AddFlags adds flags related to the connection watchdog to the specified FlagSet.
func (o *MonitorOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.DurationVar(&o.Interval, "monitor.interval", o.Interval, "Interval between connectivity watchdog sweeps.")
	fs.DurationVar(&o.StaleAfter, "monitor.stale-after", o.StaleAfter, "Silence duration after which a company is marked disconnected.")
	fs.IntVar(&o.MaxConcurrency, "monitor.max-concurrency", o.MaxConcurrency, "Maximum parallel company checks per sweep.")
}
