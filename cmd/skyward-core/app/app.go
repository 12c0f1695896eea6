package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skyward-io/skyward/cmd/skyward-core/app/options"
	"github.com/skyward-io/skyward/internal/aircraftdata"
	"github.com/skyward-io/skyward/internal/core/model"
	"github.com/skyward-io/skyward/internal/core/service"
	"github.com/skyward-io/skyward/internal/notifier"
	"github.com/skyward-io/skyward/internal/server"
	"github.com/skyward-io/skyward/internal/storage"
	"github.com/skyward-io/skyward/internal/store"
	"github.com/skyward-io/skyward/pkg/log"
	pkgmqtt "github.com/skyward-io/skyward/pkg/mqtt"
	"github.com/skyward-io/skyward/pkg/mqtt/topic"
)

const commandDesc = `The Skyward core tracks simulated flights for virtual airline careers:
it ingests telemetry samples, detects flight phases and safety events,
scores every landing and settles completed flights against the company
ledger, fleet and reputation stores.`

// NewCoreCommand builds the skyward-core root command.
func NewCoreCommand(ctx context.Context) *cobra.Command {
	opts := options.NewCoreOptions()

	cmd := &cobra.Command{
		Use:          "skyward-core",
		Short:        "Launch the Skyward flight tracking core",
		Long:         commandDesc,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Complete(); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			return run(ctx, opts)
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, opts *options.CoreOptions) error {
	log.Init(opts.Log)

	companies := store.NewCompanyStore()
	seeds, err := opts.Companies()
	if err != nil {
		return err
	}
	for _, seed := range seeds {
		if err := companies.Add(&model.Company{ID: seed.ID, Name: seed.Name, APIKey: seed.APIKey}); err != nil {
			return err
		}
	}
	log.Info("companies loaded", "count", len(seeds))

	sessions := store.NewSessionStore()
	connections := store.NewConnectionStore()
	ledger := store.NewLedgerStore()
	fleet := store.NewFleetMemStore()
	reputation := store.NewReputationMemStore()

	svcOpts := []service.Option{}

	if opts.S3Options.Enabled {
		archive, err := storage.NewMinIO(opts.S3Options)
		if err != nil {
			return fmt.Errorf("failed to init flight-record archive: %w", err)
		}
		if err := archive.CheckBucket(ctx); err != nil {
			return fmt.Errorf("failed to reach flight-record archive: %w", err)
		}
		svcOpts = append(svcOpts, service.WithArchiver(archive))
	}

	if opts.MqttOptions.Enabled {
		n, err := newNotifier(opts)
		if err != nil {
			return fmt.Errorf("failed to init settlement notifier: %w", err)
		}
		svcOpts = append(svcOpts, service.WithNotifier(n))
	}

	svc := service.New(
		companies, sessions, connections,
		ledger, fleet, reputation,
		service.Config{
			WriteTimeout:     opts.SettlementOptions.WriteTimeout,
			StaleAfter:       opts.MonitorOptions.StaleAfter,
			SweepConcurrency: opts.MonitorOptions.MaxConcurrency,
		},
		svcOpts...,
	)

	// The speed table backs the aircraft performance endpoint; the
	// watcher swaps its overrides in place when the file changes.
	table := aircraftdata.NewTable()

	manager, err := server.NewManager(opts.ServerConfig(), svc, table)
	if err != nil {
		return fmt.Errorf("failed to build server manager: %w", err)
	}

	if opts.SpeedTableFile != "" {
		watcher := aircraftdata.NewWatcher(table, opts.SpeedTableFile)
		go func() {
			if err := watcher.Start(ctx); err != nil {
				log.Error(err, "speed table watcher stopped")
			}
		}()
	}

	return manager.Start(ctx)
}

// newNotifier creates a dedicated egress client for settlement pushes,
// separate from the ingress connection.
func newNotifier(opts *options.CoreOptions) (*notifier.MQTTNotifier, error) {
	cfg := opts.MqttOptions.ToClientConfig()
	if cfg.ClientID == "" {
		hostname, _ := os.Hostname()
		cfg.ClientID = fmt.Sprintf("skyward-core-%s", hostname)
	}
	cfg.ClientID += "-notifier"

	client, err := pkgmqtt.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if err := client.Start(context.Background()); err != nil {
		return nil, err
	}

	builder := topic.NewBuilder(opts.MqttOptions.TopicRoot)
	return notifier.NewMQTTNotifier(client, builder), nil
}
