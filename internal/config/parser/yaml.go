package parser

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fitlane/gateway/internal/gateway"
	"github.com/fitlane/gateway/internal/x/errorchain"
)

func koanfFromYaml(configFile string) (*koanf.Koanf, error) {
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errorchain.NewWithMessagef(gateway.ErrConfiguration,
			"failed to read config file %s", configFile).CausedBy(err)
	}

	parser := koanf.New(".")

	if err := parser.Load(rawbytes.Provider(raw), yaml.Parser()); err != nil {
		return nil, errorchain.NewWithMessagef(gateway.ErrConfiguration,
			"failed to parse yaml config from %s", configFile).CausedBy(err)
	}

	return parser, nil
}
