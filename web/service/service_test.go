package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Romankivs/Lab1Istp/config"
	"github.com/Romankivs/Lab1Istp/database"
	"github.com/Romankivs/Lab1Istp/database/model"
	"github.com/Romankivs/Lab1Istp/util/crypto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Type:   config.DatabaseTypeSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "service.db")},
	}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

type fixture struct {
	db           *gorm.DB
	manufacturer *model.Manufacturer
	carModel     *model.CarModel
	car          *model.Car
	customer     *model.Customer
	staff        *model.Staff
}

func seed(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := openTestDB(t)
	f := &fixture{db: db}

	f.manufacturer = &model.Manufacturer{Name: "Toyota", Country: "Japan"}
	require.NoError(t, NewManufacturerService(db).Create(ctx, f.manufacturer))
	f.carModel = &model.CarModel{Name: "Corolla", ManufacturerId: f.manufacturer.Id}
	require.NoError(t, NewCarModelService(db).Create(ctx, f.carModel))
	f.car = &model.Car{
		PlateNumber: "AA1234BB",
		CarModelId:  f.carModel.Id,
		Available:   true,
		Condition:   "new",
		PricePerDay: decimal.RequireFromString("50.00"),
	}
	require.NoError(t, NewCarService(db).Create(ctx, f.car))
	f.customer = &model.Customer{FirstName: "Ivan", LastName: "Petrenko", PassportNumber: "KA123456"}
	require.NoError(t, NewCustomerService(db).Create(ctx, f.customer))

	hash, err := crypto.HashPasswordAsBcrypt("secret")
	require.NoError(t, err)
	f.staff = &model.Staff{Email: "clerk@example.com", Name: "Clerk", PasswordHash: hash}
	require.NoError(t, NewStaffService(db).Create(ctx, f.staff))
	return f
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
