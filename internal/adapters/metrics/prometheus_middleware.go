package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/antbot-go/internal/application/common"
)

// PrometheusMiddleware records duration and status of every mediator request.
// A nil collector makes it a pass-through.
func PrometheusMiddleware(collector *RequestMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		name := requestName(request)
		start := time.Now()

		response, err := next(ctx, request)

		collector.RecordRequest(name, time.Since(start).Seconds(), err == nil)
		return response, err
	}
}

// requestName strips the pointer and package prefix:
// "*scheduler.ProcessTurnCommand" becomes "ProcessTurnCommand"
func requestName(request common.Request) string {
	if request == nil {
		return "UnknownRequest"
	}

	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}
