package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-analytics/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// TracedItemRepository wraps an ItemRepository with a span per call.
type TracedItemRepository struct {
	next domain.ItemRepository
}

// NewTracedItemRepository decorates next with tracing.
func NewTracedItemRepository(next domain.ItemRepository) *TracedItemRepository {
	return &TracedItemRepository{next: next}
}

func (r *TracedItemRepository) Create(ctx context.Context, item *domain.Item) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("item.sku", item.SKU),
			attribute.Float64("item.current_stock", item.CurrentStock),
		),
	)
	defer span.End()

	if err := r.next.Create(ctx, item); err != nil {
		recordError(span, err)
		return err
	}
	span.SetAttributes(attribute.Int("item.id", int(item.ID)))
	return nil
}

func (r *TracedItemRepository) FindByID(ctx context.Context, id uint) (*domain.Item, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.Int("item.id", int(id))),
	)
	defer span.End()

	item, err := r.next.FindByID(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("item.sku", item.SKU))
	return item, nil
}

func (r *TracedItemRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Item, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAll",
		trace.WithAttributes(
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
		),
	)
	defer span.End()

	items, err := r.next.FindAll(ctx, limit, offset)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

func (r *TracedItemRepository) FindByCategories(ctx context.Context, categories []string, limit, offset int) ([]domain.Item, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByCategories",
		trace.WithAttributes(
			attribute.StringSlice("query.categories", categories),
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
		),
	)
	defer span.End()

	items, err := r.next.FindByCategories(ctx, categories, limit, offset)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

func (r *TracedItemRepository) Update(ctx context.Context, item *domain.Item, columns ...string) error {
	ctx, span := tracer.Start(ctx, "repository.Update",
		trace.WithAttributes(
			attribute.Int("item.id", int(item.ID)),
			attribute.StringSlice("item.columns", columns),
		),
	)
	defer span.End()

	if err := r.next.Update(ctx, item, columns...); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (r *TracedItemRepository) AddStock(ctx context.Context, id uint, delta float64) (*domain.Item, error) {
	ctx, span := tracer.Start(ctx, "repository.AddStock",
		trace.WithAttributes(
			attribute.Int("item.id", int(id)),
			attribute.Float64("stock.delta", delta),
		),
	)
	defer span.End()

	item, err := r.next.AddStock(ctx, id, delta)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Float64("stock.new_value", item.CurrentStock))
	return item, nil
}

func (r *TracedItemRepository) UpdateStock(ctx context.Context, id uint, stock float64) error {
	ctx, span := tracer.Start(ctx, "repository.UpdateStock",
		trace.WithAttributes(
			attribute.Int("item.id", int(id)),
			attribute.Float64("stock.new_value", stock),
		),
	)
	defer span.End()

	if err := r.next.UpdateStock(ctx, id, stock); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (r *TracedItemRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(attribute.Int("item.id", int(id))),
	)
	defer span.End()

	if err := r.next.Delete(ctx, id); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (r *TracedItemRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.Count")
	defer span.End()

	count, err := r.next.Count(ctx)
	if err != nil {
		recordError(span, err)
		return 0, err
	}
	span.SetAttributes(attribute.Int64("result.count", count))
	return count, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
