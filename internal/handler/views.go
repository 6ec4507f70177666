package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
)

// View types shape domain structs for JSON responses. Domain types stay
// free of wire concerns; all field naming for clients happens here.

type ProductListItemView struct {
	ID              uuid.UUID            `json:"id"`
	Name            string               `json:"name"`
	Status          domain.ProductStatus `json:"status"`
	Featured        bool                 `json:"featured"`
	BasePriceCents  int64                `json:"base_price_cents"`
	MinPriceCents   int64                `json:"min_price_cents"`
	MaxPriceCents   int64                `json:"max_price_cents"`
	PrimaryImageURL string               `json:"primary_image_url"`
	VariantCount    int32                `json:"variant_count"`
	TotalStock      int32                `json:"total_stock"`
	StockStatus     domain.StockStatus   `json:"stock_status"`
	CreatedAt       time.Time            `json:"created_at"`
}

func NewProductListItemView(item domain.ProductListItem) ProductListItemView {
	return ProductListItemView{
		ID:              item.ID,
		Name:            item.Name,
		Status:          item.Status,
		Featured:        item.Featured,
		BasePriceCents:  item.BasePriceCents,
		MinPriceCents:   item.MinPriceCents,
		MaxPriceCents:   item.MaxPriceCents,
		PrimaryImageURL: item.PrimaryImageURL,
		VariantCount:    item.VariantCount,
		TotalStock:      item.TotalStock,
		StockStatus:     item.StockStatus,
		CreatedAt:       item.CreatedAt,
	}
}

func NewProductListItemViews(items []domain.ProductListItem) []ProductListItemView {
	views := make([]ProductListItemView, len(items))
	for i, item := range items {
		views[i] = NewProductListItemView(item)
	}
	return views
}

type VariantView struct {
	ID                 uuid.UUID          `json:"id"`
	SKU                string             `json:"sku"`
	Color              string             `json:"color"`
	Size               string             `json:"size"`
	PriceCents         int64              `json:"price_cents"`
	PriceOverrideCents *int64             `json:"price_override_cents,omitempty"`
	IsActive           bool               `json:"is_active"`
	Stock              int32              `json:"stock"`
	AvailableStock     int32              `json:"available_stock"`
	StockStatus        domain.StockStatus `json:"stock_status"`
}

type ImageView struct {
	ID           uuid.UUID `json:"id"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	AltText      string    `json:"alt_text"`
	DisplayOrder int32     `json:"display_order"`
	IsPrimary    bool      `json:"is_primary"`
}

type CategoryView struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

type ProductView struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	BasePriceCents int64                `json:"base_price_cents"`
	Status         domain.ProductStatus `json:"status"`
	Featured       bool                 `json:"featured"`
	Categories     []CategoryView       `json:"categories"`
	Variants       []VariantView        `json:"variants"`
	Images         []ImageView          `json:"images"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func NewProductView(p *domain.Product) ProductView {
	view := ProductView{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		BasePriceCents: p.BasePriceCents,
		Status:         p.Status,
		Featured:       p.Featured,
		Categories:     make([]CategoryView, len(p.Categories)),
		Variants:       make([]VariantView, len(p.Variants)),
		Images:         make([]ImageView, len(p.Images)),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for i, c := range p.Categories {
		view.Categories[i] = CategoryView{ID: c.ID, Name: c.Name, ParentID: c.ParentID}
	}
	for i, v := range p.Variants {
		vv := VariantView{
			ID:                 v.ID,
			SKU:                v.SKU,
			Color:              v.Color,
			Size:               v.Size,
			PriceCents:         v.EffectivePriceCents(p.BasePriceCents),
			PriceOverrideCents: v.PriceOverrideCents,
			IsActive:           v.IsActive,
		}
		if v.Inventory != nil {
			vv.Stock = v.Inventory.Stock
			vv.AvailableStock = v.Inventory.AvailableStock()
			vv.StockStatus = v.Inventory.Status()
		}
		view.Variants[i] = vv
	}
	for i, img := range p.Images {
		view.Images[i] = ImageView{
			ID:           img.ID,
			URL:          img.URL,
			ThumbnailURL: img.ThumbnailURL,
			AltText:      img.AltText,
			DisplayOrder: img.DisplayOrder,
			IsPrimary:    img.IsPrimary(),
		}
	}
	return view
}

type CartItemView struct {
	ID             uuid.UUID `json:"id"`
	VariantID      uuid.UUID `json:"variant_id"`
	SKU            string    `json:"sku"`
	ProductName    string    `json:"product_name"`
	Color          string    `json:"color"`
	Size           string    `json:"size"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	TotalCents     int64     `json:"total_cents"`
	AvailableStock int32     `json:"available_stock"`
}

type CartView struct {
	ID            uuid.UUID         `json:"id"`
	Status        domain.CartStatus `json:"status"`
	Items         []CartItemView    `json:"items"`
	SubtotalCents int64             `json:"subtotal_cents"`
}

func NewCartView(c *domain.Cart) CartView {
	view := CartView{
		ID:            c.ID,
		Status:        c.Status,
		Items:         make([]CartItemView, len(c.Items)),
		SubtotalCents: c.SubtotalCents(),
	}
	for i, item := range c.Items {
		view.Items[i] = CartItemView{
			ID:             item.ID,
			VariantID:      item.VariantID,
			SKU:            item.SKU,
			ProductName:    item.ProductName,
			Color:          item.Color,
			Size:           item.Size,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents(),
			AvailableStock: item.AvailableStock,
		}
	}
	return view
}

type AddressView struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

type OrderItemView struct {
	ID             uuid.UUID `json:"id"`
	VariantID      uuid.UUID `json:"variant_id"`
	SKU            string    `json:"sku"`
	ProductName    string    `json:"product_name"`
	Color          string    `json:"color"`
	Size           string    `json:"size"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	TotalCents     int64     `json:"total_cents"`
}

type OrderView struct {
	ID              uuid.UUID          `json:"id"`
	OrderNumber     string             `json:"order_number"`
	Email           string             `json:"email"`
	Status          domain.OrderStatus `json:"status"`
	SubtotalCents   int64              `json:"subtotal_cents"`
	DiscountCents   int64              `json:"discount_cents"`
	ShippingCents   int64              `json:"shipping_cents"`
	TotalCents      int64              `json:"total_cents"`
	PromoCode       string             `json:"promo_code,omitempty"`
	ShippingAddress AddressView        `json:"shipping_address"`
	Items           []OrderItemView    `json:"items"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func NewOrderView(o *domain.Order) OrderView {
	view := OrderView{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Email:         o.Email,
		Status:        o.Status,
		SubtotalCents: o.SubtotalCents,
		DiscountCents: o.DiscountCents,
		ShippingCents: o.ShippingCents,
		TotalCents:    o.TotalCents,
		PromoCode:     o.PromoCode,
		ShippingAddress: AddressView{
			Name:       o.ShippingAddress.Name,
			Line1:      o.ShippingAddress.Line1,
			Line2:      o.ShippingAddress.Line2,
			City:       o.ShippingAddress.City,
			State:      o.ShippingAddress.State,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.Country,
			Phone:      o.ShippingAddress.Phone,
		},
		Items:     make([]OrderItemView, len(o.Items)),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	for i, item := range o.Items {
		view.Items[i] = OrderItemView{
			ID:             item.ID,
			VariantID:      item.VariantID,
			SKU:            item.SKU,
			ProductName:    item.ProductName,
			Color:          item.Color,
			Size:           item.Size,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
		}
	}
	return view
}

func NewOrderViews(orders []domain.Order) []OrderView {
	views := make([]OrderView, len(orders))
	for i := range orders {
		views[i] = NewOrderView(&orders[i])
	}
	return views
}

type InventoryItemView struct {
	VariantID         uuid.UUID          `json:"variant_id"`
	ProductID         uuid.UUID          `json:"product_id"`
	ProductName       string             `json:"product_name"`
	SKU               string             `json:"sku"`
	Color             string             `json:"color"`
	Size              string             `json:"size"`
	Stock             int32              `json:"stock"`
	ReservedStock     int32              `json:"reserved_stock"`
	AvailableStock    int32              `json:"available_stock"`
	LowStockThreshold int32              `json:"low_stock_threshold"`
	Status            domain.StockStatus `json:"status"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

func NewInventoryItemView(item domain.InventoryItem) InventoryItemView {
	return InventoryItemView(item)
}

type CustomerView struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	OrderCount int64     `json:"order_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewCustomerView(c *domain.Customer) CustomerView {
	return CustomerView{
		ID:         c.ID,
		Email:      c.Email,
		Name:       c.Name,
		Phone:      c.Phone,
		OrderCount: c.OrderCount,
		CreatedAt:  c.CreatedAt,
	}
}

// TeamMemberView deliberately omits the password hash.
type TeamMemberView struct {
	ID        uuid.UUID       `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      domain.TeamRole `json:"role"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewTeamMemberView(m *domain.TeamMember) TeamMemberView {
	return TeamMemberView{
		ID:        m.ID,
		Email:     m.Email,
		Name:      m.Name,
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

type SettingsView struct {
	StoreName            string    `json:"store_name"`
	SupportEmail         string    `json:"support_email"`
	CurrencyCode         string    `json:"currency_code"`
	FlatShippingCents    int64     `json:"flat_shipping_cents"`
	FreeShippingMinCents int64     `json:"free_shipping_min_cents"`
	StylistEnabled       bool      `json:"stylist_enabled"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func NewSettingsView(s *domain.StoreSettings) SettingsView {
	return SettingsView{
		StoreName:            s.StoreName,
		SupportEmail:         s.SupportEmail,
		CurrencyCode:         s.CurrencyCode,
		FlatShippingCents:    s.FlatShippingCents,
		FreeShippingMinCents: s.FreeShippingMinCents,
		StylistEnabled:       s.StylistEnabled,
		UpdatedAt:            s.UpdatedAt,
	}
}

type AuditEntryView struct {
	ID         uuid.UUID      `json:"id"`
	ActorID    *uuid.UUID     `json:"actor_id,omitempty"`
	ActorEmail string         `json:"actor_email,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   uuid.UUID      `json:"entity_id"`
	Detail     map[string]any `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func NewAuditEntryView(e domain.AuditEntry) AuditEntryView {
	return AuditEntryView(e)
}
