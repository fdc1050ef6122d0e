package config

import (
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog"
)

const (
	defaultReadTimeout     = time.Second * 5
	defaultWriteTimeout    = time.Second * 30
	defaultIdleTimeout     = time.Minute * 2
	defaultUpstreamTimeout = time.Second * 30

	defaultGatewayPort = 8080
	defaultMetricsPort = 9090
)

var defaultConfiguration = Configuration{ // nolint: gochecknoglobals
	Serve: ServeConfig{
		Port: defaultGatewayPort,
		Timeout: Timeout{
			Read:     defaultReadTimeout,
			Write:    defaultWriteTimeout,
			Idle:     defaultIdleTimeout,
			Upstream: defaultUpstreamTimeout,
		},
		BufferLimit: BufferLimit{
			Read:  bytesize.KB * 4, // nolint: mnd
			Write: bytesize.KB * 4, // nolint: mnd
		},
		ConnectionsLimit: ConnectionsLimit{
			MaxIdle:        100, // nolint: mnd
			MaxIdlePerHost: 50,  // nolint: mnd
			MaxPerHost:     0,
		},
	},
	Log: LoggingConfig{
		Level:  zerolog.InfoLevel,
		Format: LogTextFormat,
	},
	Metrics: MetricsConfig{
		Enabled: true,
		Port:    defaultMetricsPort,
	},
	Tracing: TracingConfig{
		Enabled:   true,
		Processor: "batch",
	},
}
