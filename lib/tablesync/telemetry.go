package tablesync

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("niopendata.lib.tablesync")
var meter = otel.Meter("niopendata.lib.tablesync")

var outcomeCounter metric.Int64Counter

func init() {
	var err error
	outcomeCounter, err = meter.Int64Counter(
		"tablesync.outcomes",
		metric.WithDescription("synchronizer invocations by outcome"),
	)
	if err != nil {
		panic(err)
	}
}

func recordOutcome(ctx context.Context, space string, outcome Outcome) {
	outcomeCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome.String()),
		attribute.String("space", space),
	))
}
