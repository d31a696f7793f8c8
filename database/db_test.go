package database

import (
	"path/filepath"
	"testing"

	"github.com/Romankivs/Lab1Istp/config"
	"github.com/Romankivs/Lab1Istp/database/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Type:   config.DatabaseTypeSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	}
	db, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestOpenMigratesSchema(t *testing.T) {
	h := openTestDB(t)
	for _, table := range []string{"staff", "manufacturers", "car_models", "cars", "customers", "rental_cases", "settings"} {
		assert.True(t, h.Migrator().HasTable(table), table)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	h := openTestDB(t)

	err := h.Create(&model.CarModel{Name: "Corolla", ManufacturerId: 42}).Error
	require.Error(t, err)
	assert.True(t, IsConstraint(err), "got %v", err)

	m := &model.Manufacturer{Name: "Toyota", Country: "Japan"}
	require.NoError(t, h.Create(m).Error)
	cm := &model.CarModel{Name: "Corolla", ManufacturerId: m.Id}
	require.NoError(t, h.Create(cm).Error)

	err = h.Delete(&model.Manufacturer{}, m.Id).Error
	require.Error(t, err)
	assert.True(t, IsConstraint(err), "got %v", err)
}

func TestDuplicateKeyTranslated(t *testing.T) {
	h := openTestDB(t)
	m := &model.Manufacturer{Name: "Toyota"}
	require.NoError(t, h.Create(m).Error)
	cm := &model.CarModel{Name: "Corolla", ManufacturerId: m.Id}
	require.NoError(t, h.Create(cm).Error)

	car := model.Car{PlateNumber: "ABC123", CarModelId: cm.Id, PricePerDay: decimal.RequireFromString("50.00")}
	require.NoError(t, h.Omit("CarModel").Create(&car).Error)
	dup := car
	err := h.Omit("CarModel").Create(&dup).Error
	require.Error(t, err)
	assert.True(t, IsConstraint(err), "got %v", err)
}

func TestIsNotFound(t *testing.T) {
	h := openTestDB(t)
	var m model.Manufacturer
	err := h.First(&m, 1).Error
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(nil))
}

func TestCloseNil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
