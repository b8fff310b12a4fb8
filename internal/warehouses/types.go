package warehouses

import "github.com/sushka2023/sushka-shop-backend/pkg/db/models"

// BranchDTO is one parcel-service branch as the API renders it.
type BranchDTO struct {
	ID       uint   `json:"id"`
	City     string `json:"city_branch"`
	Address  string `json:"address_branch"`
	Category string `json:"category_branch,omitempty"`
	Area     string `json:"area_branch,omitempty"`
	Region   string `json:"region_branch,omitempty"`
}

// CreateBranchDTO is the manual branch-creation payload.
type CreateBranchDTO struct {
	City     string `json:"city_branch" validate:"required"`
	Address  string `json:"address_branch" validate:"required"`
	Category string `json:"category_branch"`
	Area     string `json:"area_branch"`
	Region   string `json:"region_branch"`
}

// UpdateBranchDTO carries a partial branch update; nil fields stay untouched.
type UpdateBranchDTO struct {
	City     *string `json:"city_branch,omitempty"`
	Address  *string `json:"address_branch,omitempty"`
	Category *string `json:"category_branch,omitempty"`
	Area     *string `json:"area_branch,omitempty"`
	Region   *string `json:"region_branch,omitempty"`
}

func (d UpdateBranchDTO) fields() map[string]any {
	fields := map[string]any{}
	if d.City != nil {
		fields["city_branch"] = *d.City
	}
	if d.Address != nil {
		fields["address_branch"] = *d.Address
	}
	if d.Category != nil {
		fields["category_branch"] = *d.Category
	}
	if d.Area != nil {
		fields["area_branch"] = *d.Area
	}
	if d.Region != nil {
		fields["region_branch"] = *d.Region
	}
	return fields
}

// CreateUkrPoshtaDTO is the postal-address payload for address delivery.
type CreateUkrPoshtaDTO struct {
	PostalCode string `json:"postal_code" validate:"required"`
	City       string `json:"city" validate:"required"`
	Region     string `json:"region"`
	Street     string `json:"street"`
	House      string `json:"house"`
	Apartment  string `json:"apartment"`
}

// UkrPoshtaDTO is the stored postal address.
type UkrPoshtaDTO struct {
	ID         uint   `json:"id"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	Street     string `json:"street,omitempty"`
	House      string `json:"house,omitempty"`
	Apartment  string `json:"apartment,omitempty"`
}

func branchToDTO(row models.NovaPoshtaBranch) BranchDTO {
	return BranchDTO{
		ID:       row.ID,
		City:     row.CityBranch,
		Address:  row.AddressBranch,
		Category: row.CategoryBranch,
		Area:     row.AreaBranch,
		Region:   row.RegionBranch,
	}
}

func ukrPoshtaToDTO(row models.UkrPoshtaAddress) UkrPoshtaDTO {
	return UkrPoshtaDTO{
		ID:         row.ID,
		PostalCode: row.PostalCode,
		City:       row.City,
		Region:     row.Region,
		Street:     row.Street,
		House:      row.House,
		Apartment:  row.Apartment,
	}
}
