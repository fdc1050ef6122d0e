package parser

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

type opts struct {
	configFile       string
	configLookupDirs []string
	envPrefix        string
	decodeHooks      []mapstructure.DecodeHookFunc
}

type Option func(*opts)

func WithConfigFile(file string) Option {
	return func(o *opts) {
		configFile := strings.TrimSpace(file)
		if len(configFile) != 0 {
			o.configFile = configFile
		}
	}
}

func WithConfigLookupDir(dir string) Option {
	return func(o *opts) {
		lookupDir := strings.TrimSpace(dir)
		if len(lookupDir) != 0 {
			o.configLookupDirs = append(o.configLookupDirs, lookupDir)
		}
	}
}

func WithEnvPrefix(prefix string) Option {
	return func(o *opts) {
		o.envPrefix = prefix
	}
}

func WithDecodeHookFunc(hook mapstructure.DecodeHookFunc) Option {
	return func(o *opts) {
		if hook != nil {
			o.decodeHooks = append(o.decodeHooks, hook)
		}
	}
}
