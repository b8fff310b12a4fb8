package favorites

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/internal/catalog"
	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
)

type productFinder interface {
	GetProduct(ctx context.Context, id uint) (*catalog.ProductDTO, error)
}

// ItemDTO is one favorites entry with its product summary.
type ItemDTO struct {
	ID      uint               `json:"id"`
	Product catalog.ProductDTO `json:"product"`
}

// Service exposes favorites management for authenticated users.
type Service interface {
	AddItem(ctx context.Context, userID, productID uint) error
	RemoveItem(ctx context.Context, userID, productID uint) error
	List(ctx context.Context, userID uint) ([]ItemDTO, error)
}

// ServiceParams bundles the favorites service dependencies.
type ServiceParams struct {
	Repo     *Repository
	Products productFinder
}

type service struct {
	repo     *Repository
	products productFinder
}

// NewService builds the favorites service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "favorites repository required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product finder required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

// AddItem marks the product as a favorite. A second add is a conflict.
func (s *service) AddItem(ctx context.Context, userID, productID uint) error {
	favorite, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.AddItem(ctx, favorite.ID, productID); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already in favorites")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return nil
}

// RemoveItem drops the favorites entry.
func (s *service) RemoveItem(ctx context.Context, userID, productID uint) error {
	favorite, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	removed, err := s.repo.RemoveItem(ctx, favorite.ID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "favorite not found")
	}
	return nil
}

// List returns the favorites entries with product summaries.
func (s *service) List(ctx context.Context, userID uint) ([]ItemDTO, error) {
	favorite, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, favorite.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dto := ItemDTO{ID: item.ID}
		if item.Product != nil {
			dto.Product = productSummary(*item.Product)
		}
		out = append(out, dto)
	}
	return out, nil
}

func productSummary(p models.Product) catalog.ProductDTO {
	prices := make([]catalog.PriceDTO, 0, len(p.Prices))
	for _, price := range p.Prices {
		prices = append(prices, catalog.PriceDTO{
			ID:          price.ID,
			ProductID:   price.ProductID,
			Weight:      price.Weight,
			Price:       price.Price,
			OldPrice:    price.OldPrice,
			Quantity:    price.Quantity,
			IsActive:    price.IsActive,
			Promotional: price.Promotional,
		})
	}
	images := make([]catalog.ImageDTO, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, catalog.ImageDTO{
			ID:          img.ID,
			ImageURL:    img.ImageURL,
			Description: img.Description,
			MainImage:   img.MainImage,
		})
	}
	return catalog.ProductDTO{
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

func (s *service) load(ctx context.Context, userID uint) (*models.Favorite, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	favorite, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "favorites list not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favorites list")
	}
	return favorite, nil
}
