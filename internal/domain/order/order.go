package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// OrderStatus represents the status of a marketplace order
type OrderStatus string

const (
	// OrderStatusReceived means the order was pulled from the marketplace
	// but not yet reviewed
	OrderStatusReceived OrderStatus = "RECEIVED"
	// OrderStatusConfirmed means the order passed review and is ready to
	// be forwarded to the wholesaler
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	// OrderStatusSupplierOrdered means the purchase was placed with the
	// wholesaler
	OrderStatusSupplierOrdered OrderStatus = "SUPPLIER_ORDERED"
	OrderStatusShipped         OrderStatus = "SHIPPED"
	OrderStatusDelivered       OrderStatus = "DELIVERED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusReceived, OrderStatusConfirmed, OrderStatusSupplierOrdered,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusReceived:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusSupplierOrdered || target == OrderStatusCancelled
	case OrderStatusSupplierOrdered:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// OrderItem represents a line item in a marketplace order
type OrderItem struct {
	shared.BaseEntity
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	// ChannelItemID is the marketplace's identifier for this line
	ChannelItemID string          `gorm:"type:varchar(100)"`
	ProductName   string          `gorm:"type:varchar(300);not null"`
	OptionName    string          `gorm:"type:varchar(200)"`
	Quantity      int             `gorm:"not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// CostPrice is the wholesaler cost captured at ingestion for margin reporting
	CostPrice decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates an order line item
func NewOrderItem(orderID, productID uuid.UUID, channelItemID, productName, optionName string, quantity int, unitPrice, costPrice decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.ErrInvalidInput.WithMessage("product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.ErrInvalidInput.WithMessage("quantity must be positive")
	}
	if unitPrice.IsNegative() || costPrice.IsNegative() {
		return nil, shared.ErrNegativePrice
	}

	return &OrderItem{
		BaseEntity:    shared.NewBaseEntity(),
		OrderID:       orderID,
		ProductID:     productID,
		ChannelItemID: channelItemID,
		ProductName:   productName,
		OptionName:    optionName,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		Amount:        unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		CostPrice:     costPrice,
	}, nil
}

// Margin returns the per-line margin (sale amount minus cost)
func (i *OrderItem) Margin() decimal.Decimal {
	totalCost := i.CostPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	return i.Amount.Sub(totalCost)
}

// Order is the aggregate root for a marketplace order flowing through the
// dropshipping pipeline: pulled from a channel, forwarded to a wholesaler,
// and tracked until delivery.
type Order struct {
	shared.BaseAggregateRoot
	ChannelCode integration.ChannelCode `gorm:"type:varchar(20);not null;uniqueIndex:idx_order_channel,priority:1"`
	// ChannelOrderID is the marketplace's order number, unique per channel
	ChannelOrderID string `gorm:"type:varchar(100);not null;uniqueIndex:idx_order_channel,priority:2"`
	OrderedAt      time.Time
	Status         OrderStatus `gorm:"type:varchar(20);not null;index"`

	BuyerName     string `gorm:"type:varchar(100);not null"`
	ReceiverName  string `gorm:"type:varchar(100);not null"`
	ReceiverPhone string `gorm:"type:varchar(30)"`
	ReceiverZip   string `gorm:"type:varchar(10)"`
	ReceiverAddr  string `gorm:"type:varchar(500);not null"`
	DeliveryMemo  string `gorm:"type:varchar(300)"`

	Items       []OrderItem     `gorm:"foreignKey:OrderID"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalCost   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ShippingFee decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	// Wholesaler side
	SupplierSource  integration.SourceCode `gorm:"type:varchar(20)"`
	SupplierOrderID string                 `gorm:"type:varchar(100)"`

	// Shipment
	CarrierCode    string `gorm:"type:varchar(30)"`
	TrackingNumber string `gorm:"type:varchar(100)"`

	ConfirmedAt  *time.Time
	ForwardedAt  *time.Time
	ShippedAt    *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an order ingested from a marketplace channel
func NewOrder(channel integration.ChannelCode, channelOrderID string, orderedAt time.Time, buyerName, receiverName, receiverAddr string) (*Order, error) {
	if !channel.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("invalid channel code")
	}
	if channelOrderID == "" {
		return nil, shared.ErrInvalidInput.WithMessage("channel order ID cannot be empty")
	}
	if buyerName == "" {
		return nil, shared.ErrInvalidInput.WithMessage("buyer name cannot be empty")
	}
	if receiverName == "" || receiverAddr == "" {
		return nil, shared.ErrInvalidInput.WithMessage("receiver name and address are required")
	}
	if orderedAt.IsZero() {
		orderedAt = time.Now()
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ChannelCode:       channel,
		ChannelOrderID:    channelOrderID,
		OrderedAt:         orderedAt,
		Status:            OrderStatusReceived,
		BuyerName:         buyerName,
		ReceiverName:      receiverName,
		ReceiverAddr:      receiverAddr,
		Items:             make([]OrderItem, 0),
		TotalAmount:       decimal.Zero,
		TotalCost:         decimal.Zero,
		ShippingFee:       decimal.Zero,
	}

	o.AddDomainEvent(NewOrderReceivedEvent(o))

	return o, nil
}

// AddItem adds a line item. Only allowed before confirmation.
func (o *Order) AddItem(productID uuid.UUID, channelItemID, productName, optionName string, quantity int, unitPrice, costPrice decimal.Decimal) (*OrderItem, error) {
	if o.Status != OrderStatusReceived {
		return nil, shared.ErrInvalidState.WithMessage("cannot add items after confirmation")
	}

	item, err := NewOrderItem(o.ID, productID, channelItemID, productName, optionName, quantity, unitPrice, costPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return item, nil
}

// SetShippingFee sets the shipping fee charged to the buyer
func (o *Order) SetShippingFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return shared.ErrNegativePrice
	}

	o.ShippingFee = fee
	o.UpdatedAt = time.Now()

	return nil
}

// SetReceiverContact fills in the optional receiver fields
func (o *Order) SetReceiverContact(phone, zip, memo string) {
	o.ReceiverPhone = phone
	o.ReceiverZip = zip
	o.DeliveryMemo = memo
	o.UpdatedAt = time.Now()
}

// Confirm moves the order to CONFIRMED. Requires at least one item.
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.ErrInvalidState.WithMessage("cannot confirm order without items")
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderConfirmedEvent(o))

	return nil
}

// MarkSupplierOrdered records the wholesaler purchase placed for this order
func (o *Order) MarkSupplierOrdered(source integration.SourceCode, supplierOrderID string) error {
	if !o.Status.CanTransitionTo(OrderStatusSupplierOrdered) {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("cannot forward order in %s status", o.Status))
	}
	if !source.IsValid() {
		return shared.ErrInvalidInput.WithMessage("invalid wholesaler source code")
	}
	if supplierOrderID == "" {
		return shared.ErrInvalidInput.WithMessage("supplier order ID cannot be empty")
	}

	now := time.Now()
	o.Status = OrderStatusSupplierOrdered
	o.SupplierSource = source
	o.SupplierOrderID = supplierOrderID
	o.ForwardedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderForwardedEvent(o))

	return nil
}

// MarkShipped records the carrier and tracking number from the wholesaler
func (o *Order) MarkShipped(carrierCode, trackingNumber string) error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("cannot ship order in %s status", o.Status))
	}
	if trackingNumber == "" {
		return shared.ErrInvalidInput.WithMessage("tracking number cannot be empty")
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	o.CarrierCode = carrierCode
	o.TrackingNumber = trackingNumber
	o.ShippedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// MarkDelivered completes the order
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("cannot deliver order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Cancel cancels the order. Not allowed once the parcel has shipped;
// shipped orders go through the marketplace return flow instead.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.ErrInvalidInput.WithMessage("cancel reason is required")
	}

	wasForwarded := o.Status == OrderStatusSupplierOrdered
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o, wasForwarded))

	return nil
}

// recalculateTotals recalculates the order totals from line items
func (o *Order) recalculateTotals() {
	total := decimal.Zero
	cost := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
		cost = cost.Add(item.CostPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	o.TotalAmount = total
	o.TotalCost = cost
}

// Margin returns sale amount plus shipping fee minus wholesaler cost
func (o *Order) Margin() decimal.Decimal {
	return o.TotalAmount.Add(o.ShippingFee).Sub(o.TotalCost)
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the sum of all item quantities
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// IsTerminal returns true if the order reached a final state
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// IsCancellable returns true if the order has not shipped yet
func (o *Order) IsCancellable() bool {
	return o.Status.CanTransitionTo(OrderStatusCancelled)
}

// GetItemByChannelItemID returns a line item by the marketplace item ID
func (o *Order) GetItemByChannelItemID(channelItemID string) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ChannelItemID == channelItemID {
			return &o.Items[idx]
		}
	}
	return nil
}
