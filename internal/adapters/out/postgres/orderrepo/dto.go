// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
//
// The placed map snapshot and the production data are stored as JSONB documents, the
// status history as rows of its own table so it can only ever grow.
package orderrepo

import (
	"time"

	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/core/domain/model/mapdata"
	"storymap/internal/core/domain/model/order"
	"storymap/internal/core/domain/model/production"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed by number for support lookups and by status for the export job.
type OrderDTO struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Number     string             `gorm:"type:varchar(16);uniqueIndex;not null"`
	Status     string             `gorm:"type:varchar(32);index;not null"`
	MapData    mapdata.MapData    `gorm:"type:jsonb;serializer:json;not null"`
	Production production.Data    `gorm:"type:jsonb;serializer:json;not null"`
	ExportedAt *time.Time         `gorm:"index"`
	CreatedAt  time.Time          `gorm:"not null"`
	UpdatedAt  time.Time          `gorm:"not null"`
	Version    int                `gorm:"not null;default:0"`
	History    []StatusHistoryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// StatusHistoryDTO is one row of the append-only status audit trail.
type StatusHistoryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_history_order_sequence"`
	Sequence  int       `gorm:"not null;uniqueIndex:idx_history_order_sequence"`
	Status    string    `gorm:"type:varchar(32);not null"`
	Timestamp time.Time `gorm:"not null"`
	Actor     string    `gorm:"type:varchar(128);not null"`
	Note      string    `gorm:"type:text"`
}

// TableName specifies the database table name for history entries.
func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

// fromDomain converts an order domain aggregate to its database representation,
// history included.
func fromDomain(o *order.Order) OrderDTO {
	data := o.Production()
	var exportedAt *time.Time
	if data.LastExport != nil {
		at := data.LastExport.ExportedAt
		exportedAt = &at
	}

	dto := OrderDTO{
		ID:         o.ID().Bytes(),
		Number:     o.Number().String(),
		Status:     o.Status().String(),
		MapData:    o.MapData(),
		Production: data,
		ExportedAt: exportedAt,
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
		Version:    o.Version(),
	}
	dto.History = historyFromDomain(dto.ID, o.History(), 0)
	return dto
}

// historyFromDomain maps entries starting at sequence number from.
func historyFromDomain(orderID uuid.UUID, entries []order.StatusHistoryEntry, from int) []StatusHistoryDTO {
	out := make([]StatusHistoryDTO, 0, len(entries)-from)
	for i := from; i < len(entries); i++ {
		e := entries[i]
		out = append(out, StatusHistoryDTO{
			ID:        e.ID.Bytes(),
			OrderID:   orderID,
			Sequence:  i,
			Status:    e.Status.String(),
			Timestamp: e.Timestamp,
			Actor:     e.Actor,
			Note:      e.Note,
		})
	}
	return out
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
// History rows must be sorted by sequence.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	history := make([]order.StatusHistoryEntry, 0, len(dto.History))
	for _, h := range dto.History {
		entryID, idErr := kernel.UUIDFromBytes(h.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		history = append(history, order.StatusHistoryEntry{
			ID:        entryID,
			Status:    order.Status(h.Status),
			Timestamp: h.Timestamp.UTC(),
			Actor:     h.Actor,
			Note:      h.Note,
		})
	}

	return order.RestoreOrder(
		id,
		order.Number(dto.Number),
		dto.MapData,
		dto.Production,
		order.Status(dto.Status),
		history,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.Version,
	)
}
