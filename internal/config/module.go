package config

import "go.uber.org/fx"

var Module = fx.Options( // nolint: gochecknoglobals
	fx.Provide(NewConfiguration),
	fx.Provide(LogConfiguration),
)
