package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// ProductStatus represents the lifecycle state of a collected product
type ProductStatus string

const (
	// ProductStatusDraft is a freshly collected product not yet priced/approved
	ProductStatusDraft ProductStatus = "draft"
	// ProductStatusActive is a product ready to be listed and sold
	ProductStatusActive ProductStatus = "active"
	// ProductStatusPaused is temporarily withheld from sale (e.g. sold out upstream)
	ProductStatusPaused ProductStatus = "paused"
	// ProductStatusDelisted is permanently removed from sale
	ProductStatusDelisted ProductStatus = "delisted"
)

// Product is the aggregate root for a product collected from a wholesaler.
// Cost side fields mirror the wholesaler; sale side fields are what gets
// pushed to marketplace listings.
type Product struct {
	shared.BaseAggregateRoot
	SourceCode      integration.SourceCode `gorm:"type:varchar(20);not null;uniqueIndex:idx_product_source,priority:1"`
	SourceProductID string                 `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_source,priority:2"`
	Name            string                 `gorm:"type:varchar(300);not null"`
	Description     string                 `gorm:"type:text"`
	CategoryName    string                 `gorm:"type:varchar(200);index"`
	CostPrice       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingFee     decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	StockQuantity   int                    `gorm:"not null;default:0"`
	ImageURLs       string                 `gorm:"type:jsonb"` // JSON array of mirrored image URLs
	Status          ProductStatus          `gorm:"type:varchar(20);not null;default:'draft';index"`
	SoldOut         bool                   `gorm:"not null;default:false"`
	LastCollectedAt *time.Time             `gorm:"index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProductFromSource creates a product from a collected wholesale product
func NewProductFromSource(sp integration.SourceProduct) (*Product, error) {
	if !sp.SourceCode.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("invalid source code")
	}
	if sp.SourceProductID == "" {
		return nil, shared.ErrInvalidInput.WithMessage("source product ID is required")
	}
	if sp.Name == "" {
		return nil, shared.ErrInvalidInput.WithMessage("product name is required")
	}
	if sp.CostPrice.IsNegative() {
		return nil, ErrNegativePrice
	}

	now := time.Now()
	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SourceCode:        sp.SourceCode,
		SourceProductID:   sp.SourceProductID,
		Name:              sp.Name,
		Description:       sp.Description,
		CategoryName:      sp.CategoryName,
		CostPrice:         sp.CostPrice,
		SalePrice:         decimal.Zero,
		ShippingFee:       sp.ShippingFee,
		StockQuantity:     sp.StockQuantity,
		ImageURLs:         "[]",
		Status:            ProductStatusDraft,
		SoldOut:           sp.IsSoldOut,
		LastCollectedAt:   &now,
	}

	p.AddDomainEvent(NewProductCollectedEvent(p))

	return p, nil
}

// UpdateFromSource refreshes cost/stock data from a collection run.
// It returns true when the cost price changed, so the caller can record
// price history and trigger sale price recalculation.
func (p *Product) UpdateFromSource(sp integration.SourceProduct) (priceChanged bool, err error) {
	if sp.CostPrice.IsNegative() {
		return false, ErrNegativePrice
	}

	priceChanged = !p.CostPrice.Equal(sp.CostPrice)
	oldCost := p.CostPrice

	now := time.Now()
	p.Name = sp.Name
	p.Description = sp.Description
	p.CategoryName = sp.CategoryName
	p.CostPrice = sp.CostPrice
	p.ShippingFee = sp.ShippingFee
	p.StockQuantity = sp.StockQuantity
	p.LastCollectedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	if sp.IsSoldOut != p.SoldOut {
		p.SoldOut = sp.IsSoldOut
		if sp.IsSoldOut {
			p.AddDomainEvent(NewProductSoldOutEvent(p))
			if p.Status == ProductStatusActive {
				p.Status = ProductStatusPaused
			}
		} else if p.Status == ProductStatusPaused {
			p.Status = ProductStatusActive
		}
	}

	if priceChanged {
		p.AddDomainEvent(NewProductCostChangedEvent(p, oldCost))
	}

	return priceChanged, nil
}

// SetSalePrice sets the marketplace selling price
func (p *Product) SetSalePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	if price.IsPositive() && price.LessThan(p.CostPrice) {
		return ErrSaleBelowCost
	}

	old := p.SalePrice
	p.SalePrice = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if !old.Equal(price) {
		p.AddDomainEvent(NewProductSalePriceChangedEvent(p, old))
	}

	return nil
}

// SetImageURLs stores the mirrored image URLs as a JSON array string
func (p *Product) SetImageURLs(urlsJSON string) {
	p.ImageURLs = urlsJSON
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Margin returns the absolute margin per unit (sale - cost)
func (p *Product) Margin() decimal.Decimal {
	return p.SalePrice.Sub(p.CostPrice)
}

// MarginRate returns the margin as a ratio of the cost price.
// Returns zero when the cost price is zero.
func (p *Product) MarginRate() decimal.Decimal {
	if p.CostPrice.IsZero() {
		return decimal.Zero
	}
	return p.Margin().Div(p.CostPrice)
}

// Activate makes the product sellable. The product needs a sale price first.
func (p *Product) Activate() error {
	if p.Status == ProductStatusDelisted {
		return shared.ErrInvalidState.WithMessage("delisted products cannot be reactivated")
	}
	if p.SalePrice.IsZero() {
		return ErrNoSalePrice
	}

	p.changeStatus(ProductStatusActive)
	return nil
}

// Pause temporarily withholds the product from sale
func (p *Product) Pause() error {
	if p.Status != ProductStatusActive {
		return shared.ErrInvalidState.WithMessage("only active products can be paused")
	}

	p.changeStatus(ProductStatusPaused)
	return nil
}

// Delist permanently removes the product from sale
func (p *Product) Delist() error {
	if p.Status == ProductStatusDelisted {
		return shared.ErrInvalidState.WithMessage("product is already delisted")
	}

	p.changeStatus(ProductStatusDelisted)
	return nil
}

func (p *Product) changeStatus(status ProductStatus) {
	old := p.Status
	p.Status = status
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductStatusChangedEvent(p, old))
}

// IsSellable returns true if the product can currently be listed for sale
func (p *Product) IsSellable() bool {
	return p.Status == ProductStatusActive && !p.SoldOut && p.StockQuantity > 0
}

// Catalog-specific domain errors
var (
	ErrNegativePrice = shared.NewDomainError("NEGATIVE_PRICE", "Price cannot be negative")
	ErrSaleBelowCost = shared.NewDomainErrorWithMeta("SALE_BELOW_COST", "Sale price cannot be below cost price", shared.SeverityMedium, shared.RecoveryFixInput)
	ErrNoSalePrice   = shared.NewDomainError("NO_SALE_PRICE", "Product has no sale price set")
)
