package resolve_model_slug

import "context"

type CatalogService interface {
	ResolveSlug(ctx context.Context, slug string) (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
