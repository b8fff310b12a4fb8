package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	"github.com/sushka2023/sushka-shop-backend/pkg/enums"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/pagination"
)

// Service exposes catalog reads for the storefront and writes for the CRM.
type Service interface {
	ListStorefront(ctx context.Context, params ListParams) (*pagination.Page[ProductDTO], error)
	ListCRM(ctx context.Context, params CRMListParams) (*pagination.Page[ProductDTO], error)
	GetProduct(ctx context.Context, id uint) (*ProductDTO, error)
	CreateProduct(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error)
	ArchiveProduct(ctx context.Context, id uint) error
	UnarchiveProduct(ctx context.Context, id uint) error

	GetPrice(ctx context.Context, productID, priceID uint) (*models.Price, error)
	GetPurchasablePrice(ctx context.Context, productID, priceID uint) (*models.Price, error)
	ListPrices(ctx context.Context, productID uint) ([]PriceDTO, error)
	CreatePrice(ctx context.Context, dto CreatePriceDTO) (*PriceDTO, error)
	ArchivePrice(ctx context.Context, priceID uint) error
	UnarchivePrice(ctx context.Context, priceID uint) error
	TotalPrice(ctx context.Context, items []TotalPriceItem) (decimal.Decimal, error)

	ListCategories(ctx context.Context, includeDeleted bool) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, name string) (*CategoryDTO, error)
	ArchiveCategory(ctx context.Context, id uint) error
	UnarchiveCategory(ctx context.Context, id uint) error
	CreateSubcategory(ctx context.Context, categoryID uint, name string) (*SubcategoryDTO, error)
	ArchiveSubcategory(ctx context.Context, id uint) error
	UnarchiveSubcategory(ctx context.Context, id uint) error
}

type service struct {
	repo *Repository
}

// NewService builds the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListStorefront(ctx context.Context, params ListParams) (*pagination.Page[ProductDTO], error) {
	params.Page = params.Page.Normalize()
	rows, total, err := s.repo.ListStorefront(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return pagination.NewPage(toProductDTOs(rows), total, params.Page), nil
}

func (s *service) ListCRM(ctx context.Context, params CRMListParams) (*pagination.Page[ProductDTO], error) {
	params.Page = params.Page.Normalize()
	rows, total, err := s.repo.ListCRM(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return pagination.NewPage(toProductDTOs(rows), total, params.Page), nil
}

func (s *service) GetProduct(ctx context.Context, id uint) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := productToDTO(*product)
	return &dto, nil
}

func (s *service) CreateProduct(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error) {
	if strings.TrimSpace(dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if dto.CategoryID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	product, err := s.repo.CreateProduct(ctx, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	out := productToDTO(*product)
	return &out, nil
}

func (s *service) ArchiveProduct(ctx context.Context, id uint) error {
	return s.setProductStatus(ctx, id, enums.ProductStatusArchived)
}

func (s *service) UnarchiveProduct(ctx context.Context, id uint) error {
	return s.setProductStatus(ctx, id, enums.ProductStatusActivated)
}

func (s *service) setProductStatus(ctx context.Context, id uint, status enums.ProductStatus) error {
	if err := s.repo.SetProductStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product status")
	}
	return nil
}

// GetPrice resolves the variant without flag filtering. Missing rows map to
// NOT_FOUND.
func (s *service) GetPrice(ctx context.Context, productID, priceID uint) (*models.Price, error) {
	price, err := s.repo.GetPrice(ctx, productID, priceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price")
	}
	return price, nil
}

// GetPurchasablePrice additionally rejects archived or disabled variants.
func (s *service) GetPurchasablePrice(ctx context.Context, productID, priceID uint) (*models.Price, error) {
	price, err := s.GetPrice(ctx, productID, priceID)
	if err != nil {
		return nil, err
	}
	if !price.Purchasable() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidPrice, "price is not available for purchase")
	}
	return price, nil
}

func (s *service) ListPrices(ctx context.Context, productID uint) ([]PriceDTO, error) {
	rows, err := s.repo.ListPricesByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list prices")
	}
	out := make([]PriceDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, priceToDTO(row))
	}
	return out, nil
}

func (s *service) CreatePrice(ctx context.Context, dto CreatePriceDTO) (*PriceDTO, error) {
	if dto.ProductID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if strings.TrimSpace(dto.Weight) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight is required")
	}
	if dto.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	price, err := s.repo.CreatePrice(ctx, dto)
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "weight variant already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create price")
	}
	out := priceToDTO(*price)
	return &out, nil
}

func (s *service) ArchivePrice(ctx context.Context, priceID uint) error {
	return s.setPriceArchived(ctx, priceID, true)
}

func (s *service) UnarchivePrice(ctx context.Context, priceID uint) error {
	return s.setPriceArchived(ctx, priceID, false)
}

func (s *service) setPriceArchived(ctx context.Context, priceID uint, archived bool) error {
	if err := s.repo.SetPriceArchived(ctx, priceID, archived); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "price not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update price")
	}
	return nil
}

// TotalPrice sums price times quantity across the submitted pairs, rounded to
// two decimal places.
func (s *service) TotalPrice(ctx context.Context, items []TotalPriceItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range items {
		if item.Quantity < 1 {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		price, err := s.repo.FindPriceByID(ctx, item.PriceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "price not found")
			}
			return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price")
		}
		total = total.Add(price.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2), nil
}

func (s *service) ListCategories(ctx context.Context, includeDeleted bool) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx, includeDeleted)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryToDTO(row))
	}
	return out, nil
}

func (s *service) CreateCategory(ctx context.Context, name string) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category, err := s.repo.CreateCategory(ctx, name)
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	dto := categoryToDTO(*category)
	return &dto, nil
}

func (s *service) ArchiveCategory(ctx context.Context, id uint) error {
	return s.setCategoryArchived(ctx, id, true)
}

func (s *service) UnarchiveCategory(ctx context.Context, id uint) error {
	return s.setCategoryArchived(ctx, id, false)
}

func (s *service) setCategoryArchived(ctx context.Context, id uint, archived bool) error {
	if err := s.repo.SetCategoryArchived(ctx, id, archived); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return nil
}

func (s *service) CreateSubcategory(ctx context.Context, categoryID uint, name string) (*SubcategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subcategory name is required")
	}
	if categoryID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	sub, err := s.repo.CreateSubcategory(ctx, categoryID, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subcategory")
	}
	return &SubcategoryDTO{ID: sub.ID, Name: sub.Name, CategoryID: sub.CategoryID}, nil
}

func (s *service) ArchiveSubcategory(ctx context.Context, id uint) error {
	return s.setSubcategoryArchived(ctx, id, true)
}

func (s *service) UnarchiveSubcategory(ctx context.Context, id uint) error {
	return s.setSubcategoryArchived(ctx, id, false)
}

func (s *service) setSubcategoryArchived(ctx context.Context, id uint, archived bool) error {
	if err := s.repo.SetSubcategoryArchived(ctx, id, archived); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "subcategory not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update subcategory")
	}
	return nil
}

func toProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, productToDTO(row))
	}
	return out
}
