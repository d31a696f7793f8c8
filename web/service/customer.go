package service

import (
	"context"

	"github.com/Romankivs/Lab1Istp/database/model"

	"gorm.io/gorm"
)

type CustomerService struct {
	*Crud[model.Customer, int]
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{Crud: NewCrud[model.Customer, int](db, "id"), db: db}
}

// RentalCases returns the cases of one customer with the rented car and the
// handling staff member. An unknown customer is common.ErrNotFound.
func (s *CustomerService) RentalCases(ctx context.Context, customerId int) (*model.Customer, []model.RentalCase, error) {
	customer, err := s.Get(ctx, customerId)
	if err != nil {
		return nil, nil, err
	}
	cases := make([]model.RentalCase, 0)
	err = s.db.WithContext(ctx).
		Preload("Car").
		Preload("Car.CarModel").
		Preload("Car.CarModel.Manufacturer").
		Preload("Staff").
		Where("customer_id = ?", customerId).
		Order("start_date, id").
		Find(&cases).Error
	if err != nil {
		return nil, nil, translate(err)
	}
	return customer, cases, nil
}
