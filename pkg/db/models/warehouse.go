package models

import "time"

// NovaPoshtaBranch mirrors one entry of the external parcel-service
// directory. (CityBranch, AddressBranch) is the reconciliation key; the
// synchronizer upserts on it and never deletes rows.
type NovaPoshtaBranch struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement"`
	CityBranch     string    `gorm:"column:city_branch;not null;uniqueIndex:idx_city_address"`
	AddressBranch  string    `gorm:"column:address_branch;not null;uniqueIndex:idx_city_address"`
	CategoryBranch string    `gorm:"column:category_branch"`
	AreaBranch     string    `gorm:"column:area_branch"`
	RegionBranch   string    `gorm:"column:region_branch"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// UkrPoshtaAddress is a buyer-supplied postal-service delivery target.
type UkrPoshtaAddress struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	PostalCode  string    `gorm:"column:postal_code;not null"`
	City        string    `gorm:"column:city;not null"`
	Region      string    `gorm:"column:region"`
	Street      string    `gorm:"column:street"`
	House       string    `gorm:"column:house"`
	Apartment   string    `gorm:"column:apartment"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
