package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/dbtargets/pkg/log"
)

// TracedToolHandler is the handler signature wrapped by [WithTracing].
type TracedToolHandler[In, Out any] func(
	context.Context,
	*mcp.ServerSession,
	*mcp.CallToolParamsFor[In],
) (*mcp.CallToolResultFor[Out], error)

// WithTracing wraps a TracedToolHandler with OpenTelemetry tracing and
// structured logging. Each call gets a span; failed calls, whether returned
// as an error or as an IsError result, mark the span as failed.
func WithTracing[In, Out any](
	tracer trace.Tracer,
	handler TracedToolHandler[In, Out],
) mcp.ToolHandlerFor[In, Out] {
	return func(
		ctx context.Context,
		session *mcp.ServerSession,
		params *mcp.CallToolParamsFor[In],
	) (*mcp.CallToolResultFor[Out], error) {
		name := params.Name
		start := time.Now()

		ctx, span := tracer.Start(ctx, "tool "+name, trace.WithAttributes(
			attribute.String("mcp.tool", name),
		))
		defer span.End()

		logger := log.WithContext(ctx)

		logger.DebugContext(ctx, "handling tool call",
			slog.String("name", name),
			slog.Any("args", params.Arguments),
		)

		result, err := handler(ctx, session, params)

		switch {
		case err != nil:
			logger.ErrorContext(ctx, "tool call failed",
				slog.String("name", name),
				slog.Any("error", err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

		case result != nil && result.IsError:
			msg := resultText(result)
			logger.WarnContext(ctx, "tool call returned an error",
				slog.String("name", name),
				slog.String("error", msg),
			)
			span.SetStatus(codes.Error, msg)

		default:
			logger.DebugContext(ctx, "tool call completed",
				slog.String("name", name),
				slog.Duration("duration", time.Since(start)),
			)
		}

		return result, err
	}
}

func resultText[Out any](result *mcp.CallToolResultFor[Out]) string {
	for _, c := range result.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			return tc.Text
		}
	}

	return ""
}
