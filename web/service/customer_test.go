package service

import (
	"context"
	"testing"

	"github.com/Romankivs/Lab1Istp/database/model"
	"github.com/Romankivs/Lab1Istp/util/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRentalCases(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	cases := NewRentalCaseService(f.db)
	customers := NewCustomerService(f.db)

	other := &model.Customer{FirstName: "Olena", LastName: "Koval", PassportNumber: "KB000001"}
	require.NoError(t, customers.Create(ctx, other))

	for _, rc := range []*model.RentalCase{
		{CustomerId: f.customer.Id, CarPlate: f.car.PlateNumber, StaffId: f.staff.Id, StartDate: day("2024-03-01"), EndDate: day("2024-03-05"), Status: model.RentalCompleted},
		{CustomerId: f.customer.Id, CarPlate: f.car.PlateNumber, StaffId: f.staff.Id, StartDate: day("2024-01-10"), EndDate: day("2024-01-12"), Status: model.RentalCompleted},
		{CustomerId: other.Id, CarPlate: f.car.PlateNumber, StaffId: f.staff.Id, StartDate: day("2024-02-01"), EndDate: day("2024-02-02"), Status: model.RentalActive},
	} {
		require.NoError(t, cases.Create(ctx, rc))
	}

	customer, got, err := customers.RentalCases(ctx, f.customer.Id)
	require.NoError(t, err)
	assert.Equal(t, "Ivan Petrenko", customer.FullName())
	require.Len(t, got, 2)
	assert.Equal(t, 10, got[0].StartDate.Day())
	assert.Equal(t, 3, got[0].Days())
	require.NotNil(t, got[0].Car)
	require.NotNil(t, got[0].Car.CarModel)
	assert.Equal(t, "Toyota", got[0].Car.CarModel.Manufacturer.Name)
	require.NotNil(t, got[0].Staff)
	assert.Equal(t, "Clerk", got[0].Staff.Name)
}

func TestCustomerRentalCasesUnknownCustomer(t *testing.T) {
	f := seed(t)
	_, _, err := NewCustomerService(f.db).RentalCases(context.Background(), 404)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCustomerDuplicatePassport(t *testing.T) {
	f := seed(t)
	err := NewCustomerService(f.db).Create(context.Background(), &model.Customer{
		FirstName: "Ivan", LastName: "Other", PassportNumber: f.customer.PassportNumber,
	})
	assert.ErrorIs(t, err, common.ErrConstraint)
}
