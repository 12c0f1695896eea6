// Package mqtt implements the MQTT telemetry ingress. Simulator
// clients publish samples to {root}/telemetry/{apiKey}; the server
// answers on {root}/telemetry/ack/{apiKey}.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/skyward-io/skyward/internal/core/service"
	"github.com/skyward-io/skyward/internal/server/wire"
	"github.com/skyward-io/skyward/pkg/log"
	pkgmqtt "github.com/skyward-io/skyward/pkg/mqtt"
	"github.com/skyward-io/skyward/pkg/mqtt/topic"
)

const qosAtLeastOnce = 1

// Server implements the MQTT ingress layer.
type Server struct {
	client pkgmqtt.Client
	topics *topic.Builder
	svc    *service.Service
}

// NewServer creates a new MQTT ingress over an already-configured client.
func NewServer(client pkgmqtt.Client, builder *topic.Builder, svc *service.Service) *Server {
	return &Server{
		client: client,
		topics: builder,
		svc:    svc,
	}
}

// Start connects to the broker, subscribes to the telemetry wildcard
// and serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return err
	}

	defer func() {
		log.Info("Disconnecting MQTT client...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.client.Disconnect(shutdownCtx)
		log.Info("MQTT client disconnected")
	}()

	log.Info("Waiting for MQTT connection...")
	if err := s.client.AwaitConnection(ctx); err != nil {
		return err
	}
	log.Info("MQTT Connected")

	filter := s.topics.TelemetryWildcard()
	if err := s.client.Subscribe(ctx, filter, qosAtLeastOnce, s.handleTelemetry); err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", filter, err)
	}

	<-ctx.Done()
	return nil
}

// handleTelemetry processes one published sample. The API key is the
// last topic segment, so a client authenticates by publishing on its
// own branch.
func (s *Server) handleTelemetry(ctx context.Context, msgTopic string, payload []byte) {
	key := apiKeyFromTopic(msgTopic)
	if key == "" || key == topic.Wildcard {
		log.Warn("telemetry on malformed topic", "topic", msgTopic)
		return
	}

	var req wire.TelemetryRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		// Undecodable payload identifies nobody reliable; drop without
		// recording contact, mirroring the HTTP endpoint.
		log.Warn("undecodable telemetry payload", "topic", msgTopic)
		return
	}

	sample, err := req.ToSample()
	if err != nil {
		if cErr := s.svc.RecordContact(ctx, key); cErr != nil {
			log.Error(cErr, "failed to record contact", "topic", msgTopic)
			return
		}
		s.ack(ctx, key, &wire.TelemetryResponse{Error: err.Error()})
		return
	}

	result, err := s.svc.SubmitSample(ctx, key, sample)
	if err != nil {
		s.ack(ctx, key, &wire.TelemetryResponse{Error: err.Error()})
		return
	}

	s.ack(ctx, key, &wire.TelemetryResponse{Accepted: !result.Stale, Result: result})
}

func (s *Server) ack(ctx context.Context, key string, resp *wire.TelemetryResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		log.Error(err, "failed to marshal telemetry ack")
		return
	}
	if err := s.client.Publish(ctx, s.topics.TelemetryAck(key), qosAtLeastOnce, false, payload); err != nil {
		log.Error(err, "failed to publish telemetry ack")
	}
}

func apiKeyFromTopic(t string) string {
	idx := strings.LastIndex(t, "/")
	if idx < 0 || idx == len(t)-1 {
		return ""
	}
	return t[idx+1:]
}
