package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	"github.com/sushka2023/sushka-shop-backend/pkg/enums"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/pagination"
)

// SortKey names a storefront ordering of the product listing.
type SortKey string

const (
	SortID        SortKey = "id"
	SortName      SortKey = "name"
	SortLowPrice  SortKey = "low_price"
	SortHighPrice SortKey = "high_price"
	SortLowDate   SortKey = "low_date"
	SortHighDate  SortKey = "high_date"
)

var validSortKeys = []SortKey{SortID, SortName, SortLowPrice, SortHighPrice, SortLowDate, SortHighDate}

// ParseSortKey validates a client-supplied sort key. Empty input defaults to id.
func ParseSortKey(value string) (SortKey, error) {
	if value == "" {
		return SortID, nil
	}
	for _, key := range validSortKeys {
		if SortKey(value) == key {
			return key, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown sort key "+value)
}

func (k SortKey) orderClause() string {
	switch k {
	case SortName:
		return "products.name ASC"
	case SortLowPrice:
		return "min_price ASC"
	case SortHighPrice:
		return "max_price DESC"
	case SortLowDate:
		return "products.created_at ASC"
	case SortHighDate:
		return "products.created_at DESC"
	default:
		return "products.id ASC"
	}
}

// ListParams scopes the storefront listing.
type ListParams struct {
	CategoryID     *uint
	SubcategoryIDs []uint
	Weights        []string
	Sort           SortKey
	Search         string
	Page           pagination.Params
}

// CRMListParams scopes the operator listing; no visibility filter applies.
type CRMListParams struct {
	Status     *enums.ProductStatus
	CategoryID *uint
	Sort       SortKey
	Page       pagination.Params
}

// PriceDTO projects one weight variant.
type PriceDTO struct {
	ID          uint             `json:"id"`
	ProductID   uint             `json:"product_id"`
	Weight      string           `json:"weight"`
	Price       decimal.Decimal  `json:"price"`
	OldPrice    *decimal.Decimal `json:"old_price,omitempty"`
	Quantity    int              `json:"quantity"`
	IsActive    bool             `json:"is_active"`
	Promotional bool             `json:"promotional"`
}

// ImageDTO projects one product picture.
type ImageDTO struct {
	ID          uint   `json:"id"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description,omitempty"`
	MainImage   bool   `json:"main_image"`
}

// ProductDTO is the listing and detail projection of a product.
type ProductDTO struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	CategoryID  uint                `json:"category_id"`
	Status      enums.ProductStatus `json:"status"`
	IsNew       bool                `json:"is_new"`
	IsPopular   bool                `json:"is_popular"`
	IsDeleted   bool                `json:"is_deleted"`
	Prices      []PriceDTO          `json:"prices"`
	Images      []ImageDTO          `json:"images"`
	CreatedAt   time.Time           `json:"created_at"`
}

// CategoryDTO projects a category with its subcategories.
type CategoryDTO struct {
	ID            uint             `json:"id"`
	Name          string           `json:"name"`
	IsDeleted     bool             `json:"is_deleted"`
	Subcategories []SubcategoryDTO `json:"subcategories"`
}

// SubcategoryDTO projects a subcategory.
type SubcategoryDTO struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	CategoryID uint   `json:"category_id"`
	IsDeleted  bool   `json:"is_deleted"`
}

// CreateProductDTO carries the operator payload for a new listing.
type CreateProductDTO struct {
	Name           string
	Description    string
	CategoryID     uint
	SubcategoryIDs []uint
	IsNew          bool
	IsPopular      bool
}

// CreatePriceDTO carries the operator payload for a new weight variant.
type CreatePriceDTO struct {
	ProductID   uint
	Weight      string
	Price       decimal.Decimal
	OldPrice    *decimal.Decimal
	Quantity    int
	Promotional bool
}

// TotalPriceItem is one (price, qty) pair submitted to the total endpoint.
type TotalPriceItem struct {
	PriceID  uint `json:"price_id"`
	Quantity int  `json:"quantity"`
}

func priceToDTO(p models.Price) PriceDTO {
	return PriceDTO{
		ID:          p.ID,
		ProductID:   p.ProductID,
		Weight:      p.Weight,
		Price:       p.Price,
		OldPrice:    p.OldPrice,
		Quantity:    p.Quantity,
		IsActive:    p.IsActive,
		Promotional: p.Promotional,
	}
}

func productToDTO(p models.Product) ProductDTO {
	prices := make([]PriceDTO, 0, len(p.Prices))
	for _, price := range p.Prices {
		prices = append(prices, priceToDTO(price))
	}
	images := make([]ImageDTO, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ImageDTO{
			ID:          img.ID,
			ImageURL:    img.ImageURL,
			Description: img.Description,
			MainImage:   img.MainImage,
		})
	}
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Status:      p.Status,
		IsNew:       p.IsNew,
		IsPopular:   p.IsPopular,
		IsDeleted:   p.IsDeleted,
		Prices:      prices,
		Images:      images,
		CreatedAt:   p.CreatedAt,
	}
}

func categoryToDTO(c models.ProductCategory) CategoryDTO {
	subs := make([]SubcategoryDTO, 0, len(c.Subcategories))
	for _, sub := range c.Subcategories {
		subs = append(subs, SubcategoryDTO{
			ID:         sub.ID,
			Name:       sub.Name,
			CategoryID: sub.CategoryID,
			IsDeleted:  sub.IsDeleted,
		})
	}
	return CategoryDTO{
		ID:            c.ID,
		Name:          c.Name,
		IsDeleted:     c.IsDeleted,
		Subcategories: subs,
	}
}
