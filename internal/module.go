package internal

import (
	"go.uber.org/fx"

	"github.com/fitlane/gateway/internal/config"
	"github.com/fitlane/gateway/internal/handler/metrics"
	"github.com/fitlane/gateway/internal/logging"
	"github.com/fitlane/gateway/internal/prometheus"
	"github.com/fitlane/gateway/internal/routes"
	"github.com/fitlane/gateway/internal/tracing"
)

// nolint
var Module = fx.Options(
	config.Module,
	logging.Module,
	tracing.Module,
	prometheus.Module,
	routes.Module,
	metrics.Module,
)
