package options

import (
	"errors"
	"fmt"
	"net"

	"github.com/spf13/pflag"
)

var errEmptyEndpoint = errors.New("s3 endpoint is required when archiving is enabled")

// IOptions defines the contract every option group in this package
// satisfies. Option groups carry their own defaults, validation and
// flag binding so command entry points can compose them freely.
type IOptions interface {
	// Validate checks the option values entered by the user.
	Validate() []error

	// AddFlags binds the option fields to the given FlagSet.
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}

// ValidateAddress checks that addr is a valid "host:port" bind address.
func ValidateAddress(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}

	if host != "" {
		if ip := net.ParseIP(host); ip == nil {
			// Hostnames are allowed for client-side addresses; reject
			// only the clearly malformed.
			if _, err := net.LookupPort("tcp", port); err != nil {
				return fmt.Errorf("invalid address %q", addr)
			}
		}
	}

	if _, err := net.LookupPort("tcp", port); err != nil {
		return fmt.Errorf("invalid port in address %q: %w", addr, err)
	}

	return nil
}
