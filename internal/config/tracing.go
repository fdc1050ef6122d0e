package config

type TracingConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Processor string `koanf:"span_processor" validate:"omitempty,oneof=simple batch"`
}
