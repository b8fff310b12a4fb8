package warehouses

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
	"github.com/sushka2023/sushka-shop-backend/pkg/novaposhta"
	"github.com/sushka2023/sushka-shop-backend/pkg/pagination"
)

type stubDirectory struct {
	byCity map[string][]novaposhta.Warehouse
	errors map[string]error
	calls  []string
}

func (s *stubDirectory) GetAllWarehouses(ctx context.Context, city string) ([]novaposhta.Warehouse, error) {
	s.calls = append(s.calls, city)
	if err, ok := s.errors[city]; ok {
		return nil, err
	}
	return s.byCity[city], nil
}

func setupWarehouseTest(t *testing.T, client *stubDirectory, cities []string) (*gorm.DB, Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.NovaPoshtaBranch{}, &models.UkrPoshtaAddress{}))

	svc, err := NewService(ServiceParams{
		Repo:   NewRepository(db),
		Client: client,
		Cities: cities,
		Logger: logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard}),
	})
	require.NoError(t, err)
	return db, svc
}

func TestSyncUpsertsByCityAndAddress(t *testing.T) {
	client := &stubDirectory{byCity: map[string][]novaposhta.Warehouse{
		"Київ": {
			{City: "Київ", Address: "Відділення №1", Category: "Branch", Area: "Київська"},
			{City: "Київ", Address: "Відділення №2", Category: "Branch", Area: "Київська"},
		},
	}}
	db, svc := setupWarehouseTest(t, client, []string{"Київ"})

	synced, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, synced)

	// second pull updates in place instead of duplicating
	client.byCity["Київ"][0].Category = "Postomat"
	synced, err = svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, synced)

	var rows []models.NovaPoshtaBranch
	require.NoError(t, db.Order("address_branch").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "Postomat", rows[0].CategoryBranch)
}

func TestSyncCityFailureDoesNotStopOthers(t *testing.T) {
	client := &stubDirectory{
		byCity: map[string][]novaposhta.Warehouse{
			"Львів": {{City: "Львів", Address: "Відділення №5"}},
		},
		errors: map[string]error{"Київ": errors.New("carrier unavailable")},
	}
	db, svc := setupWarehouseTest(t, client, []string{"Київ", "Львів"})

	synced, err := svc.Sync(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, synced)
	assert.Equal(t, []string{"Київ", "Львів"}, client.calls)

	var total int64
	require.NoError(t, db.Model(&models.NovaPoshtaBranch{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)
}

func TestSyncNeverDeletes(t *testing.T) {
	client := &stubDirectory{byCity: map[string][]novaposhta.Warehouse{
		"Київ": {{City: "Київ", Address: "Відділення №1"}},
	}}
	db, svc := setupWarehouseTest(t, client, []string{"Київ"})

	stale := models.NovaPoshtaBranch{CityBranch: "Одеса", AddressBranch: "Відділення №9"}
	require.NoError(t, db.Create(&stale).Error)

	_, err := svc.Sync(context.Background())
	require.NoError(t, err)

	var total int64
	require.NoError(t, db.Model(&models.NovaPoshtaBranch{}).Count(&total).Error)
	assert.EqualValues(t, 2, total)
}

func TestListFiltersByCitySubstring(t *testing.T) {
	client := &stubDirectory{}
	db, svc := setupWarehouseTest(t, client, nil)
	seed := []models.NovaPoshtaBranch{
		{CityBranch: "Київ", AddressBranch: "Відділення №1"},
		{CityBranch: "Київ", AddressBranch: "Відділення №2"},
		{CityBranch: "Львів", AddressBranch: "Відділення №5"},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	page, err := svc.List(context.Background(), "Київ", pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = svc.List(context.Background(), "", pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Items, 2)
}

func TestCreateBranchConflict(t *testing.T) {
	client := &stubDirectory{}
	_, svc := setupWarehouseTest(t, client, nil)

	dto := CreateBranchDTO{City: "Київ", Address: "Відділення №1"}
	_, err := svc.CreateBranch(context.Background(), dto)
	require.NoError(t, err)

	_, err = svc.CreateBranch(context.Background(), dto)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestUpdateBranchPartial(t *testing.T) {
	client := &stubDirectory{}
	db, svc := setupWarehouseTest(t, client, nil)
	row := models.NovaPoshtaBranch{CityBranch: "Київ", AddressBranch: "Відділення №1", AreaBranch: "Київська"}
	require.NoError(t, db.Create(&row).Error)

	area := "Столична"
	require.NoError(t, svc.UpdateBranch(context.Background(), row.ID, UpdateBranchDTO{Area: &area}))

	var loaded models.NovaPoshtaBranch
	require.NoError(t, db.First(&loaded, "id = ?", row.ID).Error)
	assert.Equal(t, "Столична", loaded.AreaBranch)
	assert.Equal(t, "Київ", loaded.CityBranch)

	err := svc.UpdateBranch(context.Background(), row.ID, UpdateBranchDTO{})
	require.Error(t, err)

	err = svc.UpdateBranch(context.Background(), 9999, UpdateBranchDTO{Area: &area})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestDeleteAllAndUkrPoshta(t *testing.T) {
	client := &stubDirectory{}
	db, svc := setupWarehouseTest(t, client, nil)
	require.NoError(t, db.Create(&models.NovaPoshtaBranch{CityBranch: "Київ", AddressBranch: "Відділення №1"}).Error)

	require.NoError(t, svc.DeleteAll(context.Background()))
	var total int64
	require.NoError(t, db.Model(&models.NovaPoshtaBranch{}).Count(&total).Error)
	assert.Zero(t, total)

	address, err := svc.CreateUkrPoshta(context.Background(), CreateUkrPoshtaDTO{PostalCode: "01001", City: "Київ", Street: "Хрещатик"})
	require.NoError(t, err)
	assert.NotZero(t, address.ID)

	_, err = svc.CreateUkrPoshta(context.Background(), CreateUkrPoshtaDTO{City: "Київ"})
	require.Error(t, err)
}
