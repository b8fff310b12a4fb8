package orders

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/internal/basket"
	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	"github.com/sushka2023/sushka-shop-backend/pkg/enums"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
	"github.com/sushka2023/sushka-shop-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type priceResolver interface {
	GetPurchasablePrice(ctx context.Context, productID, priceID uint) (*models.Price, error)
}

type userGetter interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// CreatedEvent carries everything the notification pipeline needs to announce
// a new order. The recipient email is empty for anonymous buyers without one.
type CreatedEvent struct {
	OrderID    uint
	BuyerEmail string
	BuyerName  string
	Total      decimal.Decimal
}

type notifier interface {
	OrderCreated(event CreatedEvent) error
}

// Service exposes draft handling, checkout and operator transitions.
type Service interface {
	CreateDraft(ctx context.Context) (*OrderDTO, error)
	GetDraft(ctx context.Context, draftID uint) (*OrderDTO, error)
	AddDraftItem(ctx context.Context, draftID, productID, priceID uint, quantity int) error
	SetDraftItemQuantity(ctx context.Context, draftID, productID, priceID uint, quantity int) error
	RemoveDraftItem(ctx context.Context, draftID, productID, priceID uint) error

	PlaceFromBasket(ctx context.Context, userID uint, payload PlaceOrderDTO) (*OrderDTO, error)
	FinalizeDraft(ctx context.Context, draftID uint, payload FinalizeDraftDTO) (*OrderDTO, error)

	ConfirmManager(ctx context.Context, orderID uint) error
	ConfirmPayment(ctx context.Context, orderID uint) error
	SetStatus(ctx context.Context, orderID uint, status string) error
	AddComment(ctx context.Context, orderID uint, comment string) error

	GetOrder(ctx context.Context, orderID uint) (*OrderDTO, error)
	ListUserOrders(ctx context.Context, userID uint, page pagination.Params) (*pagination.Page[OrderDTO], error)
	ListCRM(ctx context.Context, params ListParams) (*pagination.Page[OrderDTO], error)
}

// ServiceParams bundles the order service dependencies. Notifier is optional;
// without one created orders simply go unannounced.
type ServiceParams struct {
	Repo       *Repository
	BasketRepo *basket.Repository
	Tx         txRunner
	Prices     priceResolver
	Users      userGetter
	Notifier   notifier
	Logger     *logger.Logger
}

type service struct {
	repo       *Repository
	basketRepo *basket.Repository
	tx         txRunner
	prices     priceResolver
	users      userGetter
	notifier   notifier
	logger     *logger.Logger
}

// NewService builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if params.BasketRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "basket repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Prices == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "price resolver required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user getter required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		repo:       params.Repo,
		basketRepo: params.BasketRepo,
		tx:         params.Tx,
		prices:     params.Prices,
		users:      params.Users,
		notifier:   params.Notifier,
		logger:     params.Logger,
	}, nil
}

// CreateDraft opens an anonymous draft. The returned id is the caller's only
// handle on the draft, carried in the order_id header afterwards.
func (s *service) CreateDraft(ctx context.Context) (*OrderDTO, error) {
	draft := &models.Order{
		Status:          enums.OrderStatusNew,
		IsAuthenticated: false,
		IsCreated:       false,
	}
	if err := s.repo.Create(ctx, draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create draft")
	}
	dto := orderToDTO(*draft)
	return &dto, nil
}

// GetDraft returns the draft with its accumulated lines and a running total.
func (s *service) GetDraft(ctx context.Context, draftID uint) (*OrderDTO, error) {
	order, err := s.loadDraft(ctx, s.repo, draftID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, draftID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list draft items")
	}
	order.OrderedProducts = items
	order.PriceOrder = computeTotal(items)
	dto := orderToDTO(*order)
	return &dto, nil
}

// AddDraftItem merges the quantity into an existing line or inserts a new
// one, keyed by (order, product, price).
func (s *service) AddDraftItem(ctx context.Context, draftID, productID, priceID uint, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if _, err := s.prices.GetPurchasablePrice(ctx, productID, priceID); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadDraft(ctx, repo, draftID); err != nil {
			return err
		}
		item, err := repo.GetDraftItem(ctx, draftID, productID, priceID)
		if err == nil {
			if err := repo.SetDraftItemQuantity(ctx, item.ID, item.Quantity+quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update draft item")
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load draft item")
		}
		createErr := repo.CreateDraftItem(ctx, &models.OrderedProduct{
			OrderID:   draftID,
			ProductID: productID,
			PriceID:   priceID,
			Quantity:  quantity,
		})
		if createErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "insert draft item")
		}
		return nil
	})
}

// SetDraftItemQuantity overwrites a draft line quantity.
func (s *service) SetDraftItemQuantity(ctx context.Context, draftID, productID, priceID uint, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadDraft(ctx, repo, draftID); err != nil {
			return err
		}
		item, err := repo.GetDraftItem(ctx, draftID, productID, priceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the draft")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load draft item")
		}
		if err := repo.SetDraftItemQuantity(ctx, item.ID, quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update draft item")
		}
		return nil
	})
}

// RemoveDraftItem drops a line from the draft.
func (s *service) RemoveDraftItem(ctx context.Context, draftID, productID, priceID uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadDraft(ctx, repo, draftID); err != nil {
			return err
		}
		removed, err := repo.DeleteDraftItem(ctx, draftID, productID, priceID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete draft item")
		}
		if !removed {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the draft")
		}
		return nil
	})
}

// PlaceFromBasket turns the user's basket into a created order inside one
// transaction and clears the basket on success.
func (s *service) PlaceFromBasket(ctx context.Context, userID uint, payload PlaceOrderDTO) (*OrderDTO, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	// The account already holds contact data, so the phone is optional here
	// and checked only when the buyer supplies one.
	if payload.PhoneNumber != "" {
		if err := ValidatePhone(payload.PhoneNumber); err != nil {
			return nil, err
		}
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		basketRepo := s.basketRepo.WithTx(tx)
		userBasket, err := basketRepo.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeEmptyBasket, "basket is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket")
		}
		items, err := basketRepo.ListItems(ctx, userBasket.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket items")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyBasket, "basket is empty")
		}

		lines := make([]models.OrderedProduct, 0, len(items))
		total := decimal.Zero
		for _, item := range items {
			if item.Price == nil {
				return pkgerrors.New(pkgerrors.CodeInvalidPrice, "basket line references an unknown price")
			}
			total = total.Add(item.Price.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			lines = append(lines, models.OrderedProduct{
				ProductID: item.ProductID,
				PriceID:   item.PriceID,
				Quantity:  item.Quantity,
			})
		}

		order = &models.Order{
			UserID:          &userID,
			BasketID:        &userBasket.ID,
			PriceOrder:      total.Round(2),
			Status:          enums.OrderStatusNew,
			IsAuthenticated: true,
			IsCreated:       true,
			OrderedProducts: lines,
		}
		applyDelivery(order, payload.DeliveryPayload)

		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := basketRepo.ClearItems(ctx, userBasket.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear basket")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	email, name := s.buyerContact(ctx, userID)
	s.announce(ctx, order, email, name)
	dto := orderToDTO(*order)
	return &dto, nil
}

// FinalizeDraft promotes an anonymous draft into a created order. The phone
// check runs before any write so a rejected payload leaves the draft intact.
func (s *service) FinalizeDraft(ctx context.Context, draftID uint, payload FinalizeDraftDTO) (*OrderDTO, error) {
	if err := ValidatePhone(payload.PhoneNumber); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := s.loadDraft(ctx, repo, draftID)
		if err != nil {
			return err
		}
		items, err := repo.ListItems(ctx, draftID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list draft items")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyBasket, "draft has no products")
		}
		for _, item := range items {
			if item.Price == nil {
				return pkgerrors.New(pkgerrors.CodeInvalidPrice, "draft line references an unknown price")
			}
		}

		loaded.PriceOrder = computeTotal(items)
		loaded.FirstNameAnonUser = payload.FirstName
		loaded.LastNameAnonUser = payload.LastName
		loaded.EmailAnonUser = payload.Email
		loaded.PhoneNumberAnonUser = payload.PhoneNumber
		loaded.Status = enums.OrderStatusNew
		loaded.IsCreated = true
		applyDelivery(loaded, payload.DeliveryPayload)

		if err := repo.Save(ctx, loaded); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize draft")
		}
		loaded.OrderedProducts = items
		order = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.announce(ctx, order, payload.Email, payload.FirstName+" "+payload.LastName)
	dto := orderToDTO(*order)
	return &dto, nil
}

// ConfirmManager records the operator call and moves the order into
// processing. A second confirmation is a conflict.
func (s *service) ConfirmManager(ctx context.Context, orderID uint) error {
	order, err := s.loadCreated(ctx, orderID)
	if err != nil {
		return err
	}
	if order.ConfirmationManager {
		return pkgerrors.New(pkgerrors.CodeConflict, "order is already confirmed by a manager")
	}
	fields := map[string]any{
		"confirmation_manager": true,
		"status":               enums.OrderStatusInProcessing,
	}
	if err := s.repo.UpdateFields(ctx, orderID, fields); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm manager")
	}
	return nil
}

// ConfirmPayment flips the payment flag. A second confirmation is a conflict.
func (s *service) ConfirmPayment(ctx context.Context, orderID uint) error {
	order, err := s.loadCreated(ctx, orderID)
	if err != nil {
		return err
	}
	if order.ConfirmationPay {
		return pkgerrors.New(pkgerrors.CodeConflict, "payment is already confirmed")
	}
	if err := s.repo.UpdateFields(ctx, orderID, map[string]any{"confirmation_pay": true}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm payment")
	}
	return nil
}

// SetStatus moves the order to any valid status value, including backwards.
func (s *service) SetStatus(ctx context.Context, orderID uint, status string) error {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	if _, err := s.loadCreated(ctx, orderID); err != nil {
		return err
	}
	if err := s.repo.UpdateFields(ctx, orderID, map[string]any{"status": parsed}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set order status")
	}
	return nil
}

// AddComment appends the operator note to the order's notes field.
func (s *service) AddComment(ctx context.Context, orderID uint, comment string) error {
	if comment == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "comment must not be empty")
	}
	order, err := s.loadCreated(ctx, orderID)
	if err != nil {
		return err
	}
	notes := order.Notes
	if notes != "" {
		notes += "\n"
	}
	notes += comment
	if err := s.repo.UpdateFields(ctx, orderID, map[string]any{"notes": notes}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add order comment")
	}
	return nil
}

// GetOrder fetches one order with its lines. Ownership is enforced at the
// transport layer where the caller identity lives.
func (s *service) GetOrder(ctx context.Context, orderID uint) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	dto := orderToDTO(*order)
	return &dto, nil
}

// ListUserOrders returns the user's order history newest first.
func (s *service) ListUserOrders(ctx context.Context, userID uint, page pagination.Params) (*pagination.Page[OrderDTO], error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	page = page.Normalize()
	rows, total, err := s.repo.ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return pagination.NewPage(ordersToDTOs(rows), total, page), nil
}

// ListCRM returns created orders for operators, optionally filtered by status.
func (s *service) ListCRM(ctx context.Context, params ListParams) (*pagination.Page[OrderDTO], error) {
	params.Page = params.Page.Normalize()
	rows, total, err := s.repo.ListCRM(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return pagination.NewPage(ordersToDTOs(rows), total, params.Page), nil
}

func (s *service) loadDraft(ctx context.Context, repo *Repository, draftID uint) (*models.Order, error) {
	var order models.Order
	err := repo.db.WithContext(ctx).First(&order, "id = ?", draftID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load draft")
	}
	if order.IsCreated {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is already created")
	}
	return &order, nil
}

func (s *service) loadCreated(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !order.IsCreated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// announce hands the created order to the notifier. Delivery is best effort
// and runs after commit so a mail outage never rolls an order back.
func (s *service) announce(ctx context.Context, order *models.Order, email, name string) {
	if s.notifier == nil || order == nil {
		return
	}
	event := CreatedEvent{
		OrderID:    order.ID,
		BuyerEmail: email,
		BuyerName:  name,
		Total:      order.PriceOrder,
	}
	if err := s.notifier.OrderCreated(event); err != nil {
		ctx = s.logger.WithField(ctx, "order_id", order.ID)
		s.logger.Error(ctx, "enqueue order notification", err)
	}
}

func (s *service) buyerContact(ctx context.Context, userID uint) (email, name string) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", ""
	}
	return user.Email, user.FirstName + " " + user.LastName
}

func applyDelivery(order *models.Order, payload DeliveryPayload) {
	order.PaymentType = payload.PaymentType
	order.DeliveryType = payload.DeliveryType
	order.PostType = payload.PostType
	order.SelectedNovaPoshtaID = payload.SelectedNovaPoshtaID
	order.SelectedUkrPoshtaID = payload.SelectedUkrPoshtaID
	order.City = payload.City
	order.Street = payload.Street
	order.House = payload.House
	order.Apartment = payload.Apartment
	order.Floor = payload.Floor
	order.PhoneNumber = payload.PhoneNumber
	order.AnotherRecipient = payload.AnotherRecipient
	order.FullNameAnotherRecipient = payload.FullNameAnotherRecipient
	order.PhoneNumberAnotherRecipient = payload.PhoneNumberAnotherRecipient
	order.Comment = payload.Comment
	order.CallManager = payload.CallManager
}

func computeTotal(items []models.OrderedProduct) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Price == nil {
			continue
		}
		total = total.Add(item.Price.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}

func ordersToDTOs(rows []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, orderToDTO(row))
	}
	return dtos
}
