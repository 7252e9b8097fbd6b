package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/order"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByChannelOrder finds an order by its marketplace identity
func (r *GormOrderRepository) FindByChannelOrder(ctx context.Context, channel integration.ChannelCode, channelOrderID string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("channel_code = ? AND channel_order_id = ?", channel, channelOrderID).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll finds orders matching the filter, returning the page and the
// total count
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, int64, error) {
	return r.findPage(ctx, r.db.WithContext(ctx).Model(&order.Order{}), filter)
}

// FindByStatus finds orders in the given pipeline state
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status order.OrderStatus, filter shared.Filter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&order.Order{}).Where("status = ?", status)
	return r.findPage(ctx, query, filter)
}

// FindForwardable returns confirmed orders waiting for a wholesaler
// purchase, oldest first
func (r *GormOrderRepository) FindForwardable(ctx context.Context, limit int) ([]order.Order, error) {
	return r.findByStatusOrdered(ctx, order.OrderStatusConfirmed, limit)
}

// FindInTransit returns orders forwarded to a wholesaler but not yet
// shipped, oldest first
func (r *GormOrderRepository) FindInTransit(ctx context.Context, limit int) ([]order.Order, error) {
	return r.findByStatusOrdered(ctx, order.OrderStatusSupplierOrdered, limit)
}

func (r *GormOrderRepository) findByStatusOrdered(ctx context.Context, status order.OrderStatus, limit int) ([]order.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", status).
		Order("ordered_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var orders []order.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByStatus counts orders grouped by pipeline state
func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[order.OrderStatus]int64, error) {
	var rows []struct {
		Status order.OrderStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[order.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// SalesBetween aggregates order count, item count, sale amount, and cost
// over the window. Cancelled orders are excluded.
func (r *GormOrderRepository) SalesBetween(ctx context.Context, from, to time.Time) (order.SalesSummary, error) {
	var row struct {
		OrderCount  int64
		ItemCount   int64
		TotalAmount decimal.Decimal
		TotalCost   decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Select("COUNT(*) as order_count, "+
			"COALESCE(SUM((SELECT SUM(oi.quantity) FROM order_items oi WHERE oi.order_id = orders.id)), 0) as item_count, "+
			"COALESCE(SUM(total_amount), 0) as total_amount, "+
			"COALESCE(SUM(total_cost), 0) as total_cost").
		Where("ordered_at >= ? AND ordered_at < ? AND status <> ?", from, to, order.OrderStatusCancelled).
		Scan(&row).Error; err != nil {
		return order.SalesSummary{}, err
	}

	return order.SalesSummary{
		OrderCount:  row.OrderCount,
		ItemCount:   row.ItemCount,
		TotalAmount: row.TotalAmount,
		TotalCost:   row.TotalCost,
	}, nil
}

// Save creates or updates an order and its items in one transaction
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(o).Error
	})
}

// Delete deletes an order and its items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&order.OrderItem{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&order.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// findPage applies search, counts, then pages and orders the query
func (r *GormOrderRepository) findPage(ctx context.Context, query *gorm.DB, filter shared.Filter) ([]order.Order, int64, error) {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(buyer_name) LIKE ? OR LOWER(receiver_name) LIKE ? OR channel_order_id LIKE ?",
			pattern, pattern, "%"+filter.Search+"%")
	}
	if channel, ok := filter.Filters["channel_code"]; ok {
		query = query.Where("channel_code = ?", channel)
	}
	if source, ok := filter.Filters["supplier_source"]; ok {
		query = query.Where("supplier_source = ?", source)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "ordered_at")
	query = query.Preload("Items").Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var orders []order.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Ensure GormOrderRepository implements Repository
var _ order.Repository = (*GormOrderRepository)(nil)
