package config

import "fmt"

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Host    string `koanf:"host"`
	Port    int    `koanf:"port" validate:"gte=0,lte=65535"`
}

func (c MetricsConfig) Address() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }
