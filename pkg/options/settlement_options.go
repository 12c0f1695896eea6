package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*SettlementOptions)(nil)

// SettlementOptions configures settlement of completed flights.
type SettlementOptions struct {
	// WriteTimeout bounds each outbound collaborator call (ledger,
	// fleet, reputation). A timed-out settlement stays pending.
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`

	// RetryInterval between scans for sessions left in pending settlement.
	RetryInterval time.Duration `json:"retry-interval" mapstructure:"retry-interval"`
}

// NewSettlementOptions creates a SettlementOptions object with default parameters.
func NewSettlementOptions() *SettlementOptions {
	return &SettlementOptions{
		WriteTimeout:  3 * time.Second,
		RetryInterval: 30 * time.Second,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *SettlementOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.WriteTimeout <= 0 {
		errors = append(errors, fmt.Errorf("settlement write-timeout must be positive, got %s", o.WriteTimeout))
	}
	if o.RetryInterval <= 0 {
		errors = append(errors, fmt.Errorf("settlement retry-interval must be positive, got %s", o.RetryInterval))
	}

	return errors
}

// AddFlags adds flags related to settlement to the specified FlagSet.
func (o *SettlementOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.DurationVar(&o.WriteTimeout, "settlement.write-timeout", o.WriteTimeout, "Timeout for each outbound collaborator write during settlement.")
	fs.DurationVar(&o.RetryInterval, "settlement.retry-interval", o.RetryInterval, "Interval between retry scans for pending settlements.")
}
