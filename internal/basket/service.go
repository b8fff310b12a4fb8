package basket

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type priceResolver interface {
	GetPurchasablePrice(ctx context.Context, productID, priceID uint) (*models.Price, error)
}

// Service exposes the authenticated basket operations.
type Service interface {
	AddItem(ctx context.Context, userID, productID, priceID uint, quantity int) error
	SetQuantity(ctx context.Context, userID, productID, priceID uint, quantity int) error
	RemoveItem(ctx context.Context, userID, productID, priceID uint) error
	List(ctx context.Context, userID uint) (*BasketDTO, error)
}

// ServiceParams bundles the basket service dependencies.
type ServiceParams struct {
	Repo   *Repository
	Tx     txRunner
	Prices priceResolver
}

type service struct {
	repo   *Repository
	tx     txRunner
	prices priceResolver
}

// NewService builds the basket service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "basket repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Prices == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "price resolver required")
	}
	return &service{repo: params.Repo, tx: params.Tx, prices: params.Prices}, nil
}

// AddItem merges the quantity into an existing line or inserts a new one.
func (s *service) AddItem(ctx context.Context, userID, productID, priceID uint, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if _, err := s.prices.GetPurchasablePrice(ctx, productID, priceID); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		basket, err := s.loadBasket(ctx, repo, userID)
		if err != nil {
			return err
		}
		if err := mergeAdd(ctx, repo, basket.ID, productID, priceID, quantity); err == nil {
			return nil
		} else if !pkgerrors.IsUniqueViolation(err) {
			return err
		}
		// lost the insert race; the row exists now, merge into it
		return mergeAdd(ctx, repo, basket.ID, productID, priceID, quantity)
	})
}

func mergeAdd(ctx context.Context, repo *Repository, basketID, productID, priceID uint, quantity int) error {
	item, err := repo.GetItem(ctx, basketID, productID, priceID)
	if err == nil {
		if err := repo.SetItemQuantity(ctx, item.ID, item.Quantity+quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update basket item")
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket item")
	}
	createErr := repo.CreateItem(ctx, &models.BasketItem{
		BasketID:  basketID,
		ProductID: productID,
		PriceID:   priceID,
		Quantity:  quantity,
	})
	if createErr == nil {
		return nil
	}
	if pkgerrors.IsUniqueViolation(createErr) {
		return createErr
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "insert basket item")
}

// SetQuantity overwrites the line quantity.
func (s *service) SetQuantity(ctx context.Context, userID, productID, priceID uint, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		basket, err := s.loadBasket(ctx, repo, userID)
		if err != nil {
			return err
		}
		item, err := repo.GetItem(ctx, basket.ID, productID, priceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "basket item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket item")
		}
		if err := repo.SetItemQuantity(ctx, item.ID, quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update basket item")
		}
		return nil
	})
}

// RemoveItem drops the line if present.
func (s *service) RemoveItem(ctx context.Context, userID, productID, priceID uint) error {
	basket, err := s.loadBasket(ctx, s.repo, userID)
	if err != nil {
		return err
	}
	removed, err := s.repo.DeleteItem(ctx, basket.ID, productID, priceID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete basket item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "basket item not found")
	}
	return nil
}

// List returns the basket lines with their running total.
func (s *service) List(ctx context.Context, userID uint) (*BasketDTO, error) {
	basket, err := s.loadBasket(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, basket.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list basket items")
	}

	dto := &BasketDTO{ID: basket.ID, Items: make([]ItemDTO, 0, len(items)), Total: decimal.Zero}
	for _, item := range items {
		line := itemToDTO(item)
		dto.Items = append(dto.Items, line)
		dto.Total = dto.Total.Add(line.LineTotal)
	}
	dto.Total = dto.Total.Round(2)
	return dto, nil
}

func (s *service) loadBasket(ctx context.Context, repo *Repository, userID uint) (*models.Basket, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	basket, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "basket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket")
	}
	return basket, nil
}
