package warehouses

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
	"github.com/sushka2023/sushka-shop-backend/pkg/novaposhta"
	"github.com/sushka2023/sushka-shop-backend/pkg/pagination"
)

type directoryClient interface {
	GetAllWarehouses(ctx context.Context, city string) ([]novaposhta.Warehouse, error)
}

// Service exposes the parcel-branch directory and its synchronization.
type Service interface {
	Sync(ctx context.Context) (int, error)
	List(ctx context.Context, city string, page pagination.Params) (*pagination.Page[BranchDTO], error)
	CreateBranch(ctx context.Context, dto CreateBranchDTO) (*BranchDTO, error)
	UpdateBranch(ctx context.Context, id uint, dto UpdateBranchDTO) error
	DeleteAll(ctx context.Context) error
	CreateUkrPoshta(ctx context.Context, dto CreateUkrPoshtaDTO) (*UkrPoshtaDTO, error)
}

// ServiceParams bundles the warehouse service dependencies.
type ServiceParams struct {
	Repo   *Repository
	Client directoryClient
	Cities []string
	Logger *logger.Logger
}

type service struct {
	repo   *Repository
	client directoryClient
	cities []string
	logger *logger.Logger
}

// NewService builds the warehouse service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "warehouses repository required")
	}
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "directory client required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		repo:   params.Repo,
		client: params.Client,
		cities: params.Cities,
		logger: params.Logger,
	}, nil
}

// Sync pulls every configured city from the carrier and upserts the rows by
// their (city, address) key. A city failing wholesale does not stop the
// others; the per-city errors come back aggregated. Existing rows are never
// deleted, stale branches simply stop being refreshed.
func (s *service) Sync(ctx context.Context) (int, error) {
	var errAll error
	synced := 0
	for _, city := range s.cities {
		branches, err := s.client.GetAllWarehouses(ctx, city)
		if err != nil {
			cityCtx := s.logger.WithField(ctx, "city", city)
			s.logger.Error(cityCtx, "pull warehouse directory", err)
			errAll = multierr.Append(errAll, err)
			continue
		}
		for _, branch := range branches {
			row := models.NovaPoshtaBranch{
				CityBranch:     branch.City,
				AddressBranch:  branch.Address,
				CategoryBranch: branch.Category,
				AreaBranch:     branch.Area,
				RegionBranch:   branch.Region,
			}
			if err := s.repo.Upsert(ctx, &row); err != nil {
				errAll = multierr.Append(errAll, err)
				continue
			}
			synced++
		}
	}
	return synced, errAll
}

// List returns branches matching the optional city substring.
func (s *service) List(ctx context.Context, city string, page pagination.Params) (*pagination.Page[BranchDTO], error) {
	page = page.Normalize()
	rows, total, err := s.repo.List(ctx, strings.TrimSpace(city), page.Limit, page.Offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list warehouses")
	}
	dtos := make([]BranchDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, branchToDTO(row))
	}
	return pagination.NewPage(dtos, total, page), nil
}

// CreateBranch inserts one manually supplied branch row.
func (s *service) CreateBranch(ctx context.Context, dto CreateBranchDTO) (*BranchDTO, error) {
	if dto.City == "" || dto.Address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city and address are required")
	}
	row := models.NovaPoshtaBranch{
		CityBranch:     dto.City,
		AddressBranch:  dto.Address,
		CategoryBranch: dto.Category,
		AreaBranch:     dto.Area,
		RegionBranch:   dto.Region,
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "branch already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create branch")
	}
	result := branchToDTO(row)
	return &result, nil
}

// UpdateBranch applies a partial update to one branch.
func (s *service) UpdateBranch(ctx context.Context, id uint, dto UpdateBranchDTO) error {
	fields := dto.fields()
	if len(fields) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "branch not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update branch")
	}
	return nil
}

// DeleteAll truncates the directory ahead of a manual full re-pull.
func (s *service) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete warehouses")
	}
	return nil
}

// CreateUkrPoshta stores a buyer-supplied postal delivery address.
func (s *service) CreateUkrPoshta(ctx context.Context, dto CreateUkrPoshtaDTO) (*UkrPoshtaDTO, error) {
	if dto.PostalCode == "" || dto.City == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "postal code and city are required")
	}
	row := models.UkrPoshtaAddress{
		PostalCode: dto.PostalCode,
		City:       dto.City,
		Region:     dto.Region,
		Street:     dto.Street,
		House:      dto.House,
		Apartment:  dto.Apartment,
	}
	if err := s.repo.CreateUkrPoshta(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create postal address")
	}
	result := ukrPoshtaToDTO(row)
	return &result, nil
}
