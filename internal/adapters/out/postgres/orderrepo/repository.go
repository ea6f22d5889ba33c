package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/core/domain/model/order"
	"storymap/internal/core/ports"
	"storymap/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order together with its history.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes status, production data and timestamps guarded by the version
// column, then appends the history entries that are not stored yet. Stored
// entries are never rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	next := dto
	next.Version = dto.Version + 1
	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Select("status", "production", "exported_at", "updated_at", "version").
		Updates(&next)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return fmt.Errorf("%w: %w", ports.ErrConcurrentUpdate,
			errs.NewVersionIsInvalidError("version", fmt.Errorf("order %s is no longer at version %d", aggregate.ID(), dto.Version)))
	}

	var stored int64
	if err := db.Model(&StatusHistoryDTO{}).Where("order_id = ?", dto.ID).Count(&stored).Error; err != nil {
		return err
	}
	if tail := historyFromDomain(dto.ID, aggregate.History(), int(stored)); len(tail) > 0 {
		if err := db.Create(&tail).Error; err != nil {
			return err
		}
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return r.first(ctx, id.String(), "id = ?", id.Bytes())
}

// GetByNumber retrieves an order by its human readable number.
func (r *GormOrderRepository) GetByNumber(ctx context.Context, number order.Number) (*order.Order, error) {
	if err := number.Validate(); err != nil {
		return nil, err
	}

	return r.first(ctx, number.String(), "number = ?", number.String())
}

// NumberExists reports whether an order number is taken.
func (r *GormOrderRepository) NumberExists(ctx context.Context, number order.Number) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("number = ?", number.String()).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFirstAwaitingExport retrieves the oldest approved order that was never
// exported, ignoring the skipped ids.
func (r *GormOrderRepository) GetFirstAwaitingExport(ctx context.Context, skip ...kernel.UUID) (*order.Order, error) {
	if len(skip) == 0 {
		return r.first(ctx, "first awaiting export", "status = ? AND exported_at IS NULL", order.Approved.String())
	}

	ids := make([]uuid.UUID, 0, len(skip))
	for _, id := range skip {
		ids = append(ids, id.Bytes())
	}
	return r.first(ctx, "first awaiting export",
		"status = ? AND exported_at IS NULL AND id NOT IN ?", order.Approved.String(), ids)
}

// GetAllInStatus retrieves all orders in a status, oldest first.
func (r *GormOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	if err := r.withHistory(ctx).
		Where("status = ?", status.String()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) first(ctx context.Context, what string, query string, args ...any) (*order.Order, error) {
	var dto OrderDTO
	if err := r.withHistory(ctx).Where(query, args...).Order("created_at, id").First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", what)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) withHistory(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence")
	})
}
