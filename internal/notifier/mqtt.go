// Package notifier pushes settlement results back to simulator clients.
package notifier

import (
	"context"
	"encoding/json"

	"github.com/skyward-io/skyward/internal/core/model"
	pkgmqtt "github.com/skyward-io/skyward/pkg/mqtt"
	"github.com/skyward-io/skyward/pkg/mqtt/topic"
)

// MQTTNotifier publishes settlement results on the company's
// settlement topic. It satisfies core.SettlementNotifier.
type MQTTNotifier struct {
	client pkgmqtt.Client
	topics *topic.Builder
}

func NewMQTTNotifier(client pkgmqtt.Client, builder *topic.Builder) *MQTTNotifier {
	return &MQTTNotifier{client: client, topics: builder}
}

func (n *MQTTNotifier) NotifySettled(ctx context.Context, company *model.Company, result *model.SettlementResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, n.topics.Settlement(company.APIKey), 1, false, payload)
}
