package service

import (
	"context"
	"log/slog"
	"time"

	apperrors "myworld/backend/internal/errors"
)

// UseCaseEvent describes one finished service call.
type UseCaseEvent struct {
	Name     string
	Duration time.Duration
	Success  bool
	Err      error
	Fields   map[string]any
}

type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver reports use cases at debug level and failures at
// warn level.
func NewLogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 6+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.WarnContext(ctx, "service_use_case", attrs...)
		return
	}
	o.logger.DebugContext(ctx, "service_use_case", attrs...)
}

// observe reports a use case that started at start.
func observe(ctx context.Context, o UseCaseObserver, name string, start time.Time, apiErr *apperrors.APIError, fields map[string]any) {
	event := UseCaseEvent{
		Name:     name,
		Duration: time.Since(start),
		Success:  apiErr == nil,
		Fields:   fields,
	}
	if apiErr != nil {
		event.Err = apiErr
	}
	o.ObserveUseCase(ctx, event)
}
