package simplecms

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) BlogCreated(ctx context.Context, blog *BlogPost) error      { return nil }
func (n *NoopEventSink) BlogUpdated(ctx context.Context, blog *BlogPost) error      { return nil }
func (n *NoopEventSink) BlogDeleted(ctx context.Context, id uuid.UUID) error        { return nil }
func (n *NoopEventSink) ProjectCreated(ctx context.Context, project *Project) error { return nil }
func (n *NoopEventSink) ProjectUpdated(ctx context.Context, project *Project) error { return nil }
func (n *NoopEventSink) ProjectDeleted(ctx context.Context, id uuid.UUID) error     { return nil }

// LogEventSink writes every lifecycle event to a structured logger.
type LogEventSink struct {
	logger *slog.Logger
}

// NewLogEventSink creates an event sink that logs through logger,
// or slog.Default when logger is nil.
func NewLogEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEventSink{logger: logger.With("component", "events")}
}

func (l *LogEventSink) BlogCreated(ctx context.Context, blog *BlogPost) error {
	l.logger.InfoContext(ctx, "blog.created",
		"blog_id", blog.ID.String(),
		"published", blog.Published,
		"read_time", blog.ReadTime,
		"has_image", blog.Image != "")
	return nil
}

func (l *LogEventSink) BlogUpdated(ctx context.Context, blog *BlogPost) error {
	l.logger.InfoContext(ctx, "blog.updated", "blog_id", blog.ID.String(), "published", blog.Published)
	return nil
}

func (l *LogEventSink) BlogDeleted(ctx context.Context, id uuid.UUID) error {
	l.logger.InfoContext(ctx, "blog.deleted", "blog_id", id.String())
	return nil
}

func (l *LogEventSink) ProjectCreated(ctx context.Context, project *Project) error {
	l.logger.InfoContext(ctx, "project.created",
		"project_id", project.ID.String(),
		"tech_stack", len(project.TechStack),
		"has_image", project.ImageURL != "")
	return nil
}

func (l *LogEventSink) ProjectUpdated(ctx context.Context, project *Project) error {
	l.logger.InfoContext(ctx, "project.updated", "project_id", project.ID.String())
	return nil
}

func (l *LogEventSink) ProjectDeleted(ctx context.Context, id uuid.UUID) error {
	l.logger.InfoContext(ctx, "project.deleted", "project_id", id.String())
	return nil
}
