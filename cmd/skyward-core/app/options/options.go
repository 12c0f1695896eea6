package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/skyward-io/skyward/internal/server"
	"github.com/skyward-io/skyward/pkg/log"
	"github.com/skyward-io/skyward/pkg/options"
)

// CompanySeed is one entry of the companies file: the API-key binding
// the ingestor authenticates against.
type CompanySeed struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	APIKey string `json:"api_key"`
}

// CoreOptions aggregates every tunable of the skyward-core daemon.
type CoreOptions struct {
	HttpOptions       *options.HttpOptions       `json:"http" mapstructure:"http"`
	MqttOptions       *options.MqttOptions       `json:"mqtt" mapstructure:"mqtt"`
	S3Options         *options.S3Options         `json:"s3" mapstructure:"s3"`
	MonitorOptions    *options.MonitorOptions    `json:"monitor" mapstructure:"monitor"`
	SettlementOptions *options.SettlementOptions `json:"settlement" mapstructure:"settlement"`
	Log               *log.Options               `json:"log" mapstructure:"log"`

	// ConfigFile is an optional YAML/JSON file whose keys mirror the
	// flag namespaces above. Flags win over file values.
	ConfigFile string `json:"-" mapstructure:"-"`

	// CompaniesFile seeds the API-key bindings.
	CompaniesFile string `json:"companies-file" mapstructure:"companies-file"`

	// SpeedTableFile optionally overrides the builtin aircraft
	// cruise-speed table and is hot-reloaded while running.
	SpeedTableFile string `json:"speed-table-file" mapstructure:"speed-table-file"`
}

func NewCoreOptions() *CoreOptions {
	return &CoreOptions{
		HttpOptions:       options.NewHttpOptions(),
		MqttOptions:       options.NewMqttOptions(),
		S3Options:         options.NewS3Options(),
		MonitorOptions:    options.NewMonitorOptions(),
		SettlementOptions: options.NewSettlementOptions(),
		Log:               log.NewOptions(),
	}
}

// AddFlags registers every option group on the command's flag set.
func (o *CoreOptions) AddFlags(fs *pflag.FlagSet) {
	o.HttpOptions.AddFlags(fs)
	o.MqttOptions.AddFlags(fs)
	o.S3Options.AddFlags(fs)
	o.MonitorOptions.AddFlags(fs)
	o.SettlementOptions.AddFlags(fs)
	o.Log.AddFlags(fs)

	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "Path to a configuration file. Flags override file values.")
	fs.StringVar(&o.CompaniesFile, "companies-file", o.CompaniesFile, "Path to the JSON file seeding company API-key bindings.")
	fs.StringVar(&o.SpeedTableFile, "speed-table-file", o.SpeedTableFile, "Path to a JSON aircraft cruise-speed override file, hot-reloaded on change.")
}

// Complete loads the config file, if any, underneath the flag values.
func (o *CoreOptions) Complete() error {
	if o.ConfigFile == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(o.ConfigFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", o.ConfigFile, err)
	}
	if err := v.Unmarshal(o); err != nil {
		return fmt.Errorf("failed to unmarshal config file %s: %w", o.ConfigFile, err)
	}
	return nil
}

func (o *CoreOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.MonitorOptions.Validate()...)
	errs = append(errs, o.SettlementOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)

	if o.CompaniesFile == "" {
		errs = append(errs, errors.New("companies-file is required"))
	}

	return errors.Join(errs...)
}

// Companies loads the seed file.
func (o *CoreOptions) Companies() ([]CompanySeed, error) {
	data, err := os.ReadFile(o.CompaniesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read companies file: %w", err)
	}

	var seeds []CompanySeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("invalid companies file %s: %w", o.CompaniesFile, err)
	}

	for _, seed := range seeds {
		if seed.ID == "" || seed.APIKey == "" {
			return nil, fmt.Errorf("companies file %s: every entry needs id and api_key", o.CompaniesFile)
		}
	}
	return seeds, nil
}

// ServerConfig maps the options onto the server manager's config.
func (o *CoreOptions) ServerConfig() *server.Config {
	return &server.Config{
		HttpOptions:       o.HttpOptions,
		MqttOptions:       o.MqttOptions,
		MonitorOptions:    o.MonitorOptions,
		SettlementOptions: o.SettlementOptions,
	}
}
