package mqtt

import (
	"crypto/tls"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nbwx/wxcore/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultDialTimeout bounds the transport-level connection attempt.
	// Distinct from the latch wait in Start, which covers the whole
	// outcome including the CONNACK.
	defaultDialTimeout = 10 * time.Second

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second

	// disconnectQuiesce is the time allowed for pending operations on
	// disconnect, in milliseconds.
	disconnectQuiesce = 1000

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// buildClientOptions creates paho MQTT options from wxcore config.
//
// Connect retry is deliberately off: the initial attempt must resolve
// the latch with a terminal outcome instead of retrying silently.
// Auto-reconnect stays on so drops after a successful Start are
// retried by the client itself.
func buildClientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port))

	opts.SetClientID(cfg.Broker.ClientID)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	opts.SetCleanSession(true)
	opts.SetConnectRetry(false)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultDialTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	if cfg.Broker.TLS {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tlsMinVersion,
		})
	}

	return opts
}
