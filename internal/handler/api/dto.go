package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/presswork/internal/domain"
)

// money renders a decimal amount the way the storefront displays it.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type productResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Category  string    `json:"category"`
	BasePrice string    `json:"base_price"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Category:  p.Category,
		BasePrice: money(p.BasePrice),
	}
}

type valueResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PriceDelta string `json:"price_delta"`
	IsDefault  bool   `json:"is_default"`
}

type groupResponse struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	InputStyle string          `json:"input_style"`
	Values     []valueResponse `json:"values"`
}

func toGroupResponses(groups []domain.VariantGroup) []groupResponse {
	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		values := make([]valueResponse, 0, len(g.Values))
		for _, v := range g.Values {
			values = append(values, valueResponse{
				ID:         v.ID,
				Name:       v.Name,
				PriceDelta: money(v.PriceDelta),
				IsDefault:  v.IsDefault,
			})
		}
		out = append(out, groupResponse{
			ID:         g.ID,
			Name:       g.Name,
			InputStyle: g.InputStyle,
			Values:     values,
		})
	}
	return out
}

type sizeBoundsResponse struct {
	MinWidth  string `json:"min_width"`
	MaxWidth  string `json:"max_width"`
	MinHeight string `json:"min_height"`
	MaxHeight string `json:"max_height"`
	Step      string `json:"step"`
	StepPrice string `json:"step_price"`
}

// stockResponse renders quantity as null until the selection is complete.
type stockResponse struct {
	Quantity      *int32 `json:"quantity"`
	Matched       bool   `json:"matched"`
	CombinationID int64  `json:"combination_id,omitempty"`
	LowStock      bool   `json:"low_stock"`
}

func toStockResponse(s domain.StockLevel) stockResponse {
	return stockResponse{
		Quantity:      s.QuantityOrNil(),
		Matched:       s.Matched,
		CombinationID: s.CombinationID,
		LowStock:      s.LowStock,
	}
}

type quoteResponse struct {
	UnitPrice  string        `json:"unit_price"`
	Surcharge  string        `json:"size_surcharge"`
	TotalPrice string        `json:"total_price"`
	Quantity   int32         `json:"quantity"`
	Complete   bool          `json:"complete"`
	Stock      stockResponse `json:"stock"`
}

func toQuoteResponse(q *domain.Quote) *quoteResponse {
	return &quoteResponse{
		UnitPrice:  money(q.Price.Unit),
		Surcharge:  money(q.Price.Surcharge),
		TotalPrice: money(q.Price.Total),
		Quantity:   q.Price.Quantity,
		Complete:   q.Complete,
		Stock:      toStockResponse(q.Stock),
	}
}

type restoredResponse struct {
	CartLineID uuid.UUID            `json:"cart_line_id"`
	Quantity   int32                `json:"quantity"`
	Unmatched  []domain.EditVariant `json:"unmatched,omitempty"`
}

type configuratorResponse struct {
	Product  productResponse     `json:"product"`
	Groups   []groupResponse     `json:"groups"`
	Selected domain.Selection    `json:"selected"`
	ImageURL string              `json:"image_url"`
	Size     *sizeBoundsResponse `json:"size,omitempty"`
	Quote    *quoteResponse      `json:"quote,omitempty"`
	Restored *restoredResponse   `json:"restored,omitempty"`
}

func toConfiguratorResponse(c *domain.Configurator) configuratorResponse {
	resp := configuratorResponse{
		Product:  toProductResponse(c.Product),
		Groups:   toGroupResponses(c.Groups),
		Selected: c.Defaults,
		ImageURL: c.ImageURL,
	}
	if sz := c.Profile.Size; sz != nil {
		resp.Size = &sizeBoundsResponse{
			MinWidth:  sz.MinWidth.String(),
			MaxWidth:  sz.MaxWidth.String(),
			MinHeight: sz.MinHeight.String(),
			MaxHeight: sz.MaxHeight.String(),
			Step:      sz.Step.String(),
			StepPrice: money(sz.StepPrice),
		}
	}
	return resp
}

// sizeRequest accepts numbers or numeric strings.
type sizeRequest struct {
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
}

func (s *sizeRequest) toDomain() *domain.CustomSize {
	if s == nil {
		return nil
	}
	return &domain.CustomSize{Width: s.Width, Height: s.Height}
}

type quoteRequest struct {
	Variants domain.Selection `json:"variants"`
	Quantity int32            `json:"quantity" validate:"gte=1,lte=9999"`
	Size     *sizeRequest     `json:"size"`
}

type addLineRequest struct {
	ProductID  uuid.UUID          `json:"product_id" validate:"required"`
	Variants   domain.Selection   `json:"variants"`
	Quantity   int32              `json:"quantity" validate:"gte=1,lte=9999"`
	Size       *sizeRequest       `json:"size"`
	Uploads    []domain.UploadRef `json:"uploads"`
	EditLineID *uuid.UUID         `json:"edit_line_id"`
	Route      string             `json:"route" validate:"max=512"`
}

func (r addLineRequest) toDomain(userID uuid.UUID) domain.AddToCartRequest {
	req := domain.AddToCartRequest{
		UserID:    userID,
		ProductID: r.ProductID,
		Selection: r.Variants,
		Quantity:  r.Quantity,
		Size:      r.Size.toDomain(),
		Uploads:   r.Uploads,
		Route:     r.Route,
	}
	if r.EditLineID != nil {
		req.EditLineID = uuid.NullUUID{UUID: *r.EditLineID, Valid: true}
	}
	return req
}

type cartVariantResponse struct {
	VariantValueID int64  `json:"variant_value_id"`
	PriceDelta     string `json:"price_delta"`
}

type cartLineResponse struct {
	ID         uuid.UUID             `json:"id"`
	ProductID  uuid.UUID             `json:"product_id"`
	Quantity   int32                 `json:"quantity"`
	UnitPrice  string                `json:"unit_price"`
	TotalPrice string                `json:"total_price"`
	Route      string                `json:"route,omitempty"`
	Variants   []cartVariantResponse `json:"variants"`
	Uploads    []uploadResponse      `json:"uploads"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

func toCartLineResponse(l domain.CartLine) cartLineResponse {
	variants := make([]cartVariantResponse, 0, len(l.Variants))
	for _, v := range l.Variants {
		variants = append(variants, cartVariantResponse{
			VariantValueID: v.VariantValueID,
			PriceDelta:     money(v.PriceDelta),
		})
	}
	uploads := make([]uploadResponse, 0, len(l.Uploads))
	for i := range l.Uploads {
		uploads = append(uploads, toUploadResponse(&l.Uploads[i]))
	}
	return cartLineResponse{
		ID:         l.ID,
		ProductID:  l.ProductID,
		Quantity:   l.Quantity,
		UnitPrice:  money(l.UnitPrice),
		TotalPrice: money(l.TotalPrice),
		Route:      l.Route,
		Variants:   variants,
		Uploads:    uploads,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

type reconcileResponse struct {
	Line     cartLineResponse `json:"line"`
	Mode     string           `json:"mode"`
	Attached int              `json:"attached"`
}

type uploadResponse struct {
	ID          uuid.UUID  `json:"id"`
	StorageKey  string     `json:"storage_key"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	URL         string     `json:"url,omitempty"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUploadResponse(u *domain.UploadedFile) uploadResponse {
	resp := uploadResponse{
		ID:          u.ID,
		StorageKey:  u.StorageKey,
		Filename:    u.Filename,
		ContentType: u.ContentType,
		SizeBytes:   u.SizeBytes,
		URL:         u.URL,
		CreatedAt:   u.CreatedAt,
	}
	if u.ProductID.Valid {
		id := u.ProductID.UUID
		resp.ProductID = &id
	}
	return resp
}
