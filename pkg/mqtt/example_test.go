package mqtt_test

import (
	"context"
	"fmt"
	"time"

	"github.com/skyward-io/skyward/pkg/log"
	"github.com/skyward-io/skyward/pkg/mqtt"
)

// ExampleClient shows the standard usage of the Skyward MQTT component.
// This mirrors how the telemetry ingress (or a simulator-side client)
// initializes the client, subscribes to topics and publishes messages.
func ExampleClient() {
	// 1. Prepare the configuration.
	// In a real deployment these values come from pkg/options or CLI flags.
	cfg := &mqtt.ClientConfig{
		BrokerURL:      "tcp://localhost:1883",
		ClientID:       "example-component-001",
		Username:       "admin",
		Password:       "public",
		KeepAlive:      60,
		ConnectTimeout: 5 * time.Second,
		// Development brokers often use self-signed certificates.
		InsecureSkipVerify: true,
		// Clients that must receive queued messages keep CleanStart false.
		CleanStart: false,
	}

	// 2. Create the client instance. No connection is made yet.
	client, err := mqtt.NewClient(cfg)
	if err != nil {
		log.Error(err, "Failed to create MQTT client")
		return
	}

	// 3. Start the client (non-blocking).
	// Start returns immediately; the connection is established in the
	// background with automatic reconnection.
	ctx := context.Background()
	if err := client.Start(ctx); err != nil {
		log.Error(err, "Failed to start MQTT client")
		return
	}

	// 4. Define the message handler. This is the business-logic entry
	// point for received payloads. Handlers run in their own goroutine;
	// avoid long blocking work here.
	myHandler := func(ctx context.Context, topic string, payload []byte) {
		fmt.Printf("Received message on topic %s: %s\n", topic, string(payload))
	}

	// 5. Subscribe. Topic filters support wildcards; if the connection
	// drops and recovers, the client re-sends SUBSCRIBE packets without
	// the caller noticing.
	subTopic := "skyward/v1/telemetry/+"
	if err := client.Subscribe(ctx, subTopic, 1, myHandler); err != nil {
		log.Error(err, "Failed to subscribe", "topic", subTopic)
	}

	// 6. Optionally block until the connection is up (useful for
	// readiness probes).
	fmt.Println("Waiting for connection...")
	if err := client.AwaitConnection(ctx); err != nil {
		log.Error(err, "Connection timed out")
		return
	}
	fmt.Println("MQTT Connected!")

	// 7. Publish with QoS 1 for at-least-once delivery.
	pubTopic := "skyward/v1/telemetry/ack/key-001"
	payload := []byte(`{"status": "accepted"}`)
	if err := client.Publish(ctx, pubTopic, 1, false, payload); err != nil {
		log.Error(err, "Failed to publish message", "topic", pubTopic)
	}

	// 8. Graceful shutdown on application exit.
	client.Disconnect(ctx)
}
