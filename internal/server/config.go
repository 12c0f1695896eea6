package server

import "github.com/skyward-io/skyward/pkg/options"

type Config struct {
	HttpOptions       *options.HttpOptions
	MqttOptions       *options.MqttOptions
	MonitorOptions    *options.MonitorOptions
	SettlementOptions *options.SettlementOptions
}
