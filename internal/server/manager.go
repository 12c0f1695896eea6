// Package server assembles the protocol servers and background loops
// around the core service and manages their lifecycle.
package server

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/skyward-io/skyward/internal/aircraftdata"
	"github.com/skyward-io/skyward/internal/core/service"
	"github.com/skyward-io/skyward/internal/server/http"
	"github.com/skyward-io/skyward/internal/server/mqtt"
	"github.com/skyward-io/skyward/pkg/log"
	pkgmqtt "github.com/skyward-io/skyward/pkg/mqtt"
	"github.com/skyward-io/skyward/pkg/mqtt/topic"
)

// Server defines the common interface for all sub-servers and loops.
type Server interface {
	Start(ctx context.Context) error
}

// Manager manages the lifecycle of all protocol servers.
type Manager struct {
	servers []Server
}

// NewManager creates a new server manager and initializes all sub-servers.
func NewManager(cfg *Config, svc *service.Service, table *aircraftdata.Table) (*Manager, error) {
	var servers []Server

	// 1. HTTP server: telemetry endpoint, career API, aircraft
	// performance lookups, probes, metrics.
	servers = append(servers, http.NewServer(cfg.HttpOptions, svc, table))

	// 2. MQTT ingress, when a broker is configured.
	if cfg.MqttOptions.Enabled {
		client, err := newMQTTClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to init mqtt client: %w", err)
		}
		builder := topic.NewBuilder(cfg.MqttOptions.TopicRoot)
		servers = append(servers, mqtt.NewServer(client, builder, svc))
	}

	// 3. Background loops: the connection watchdog and the settlement
	// retrier.
	servers = append(servers, NewWatchdog(svc, cfg.MonitorOptions.Interval))
	servers = append(servers, NewSettlementRetrier(svc, cfg.SettlementOptions.RetryInterval))

	return &Manager{
		servers: servers,
	}, nil
}

func newMQTTClient(cfg *Config) (pkgmqtt.Client, error) {
	clientCfg := cfg.MqttOptions.ToClientConfig()
	if clientCfg.ClientID == "" {
		hostname, _ := os.Hostname()
		clientCfg.ClientID = fmt.Sprintf("skyward-core-%s", hostname)
	}
	return pkgmqtt.NewClient(clientCfg)
}

// Start launches all servers in parallel and waits for termination.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, s := range m.servers {
		srv := s
		g.Go(func() error {
			return srv.Start(ctx)
		})
	}

	log.Info("All servers starting...")
	return g.Wait()
}
