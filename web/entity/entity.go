// Package entity defines the form payloads and response envelopes used by
// the web layer, together with their conversion into store rows.
package entity

import (
	"strings"
	"time"

	"github.com/Romankivs/Lab1Istp/database/model"
	"github.com/Romankivs/Lab1Istp/util/common"
	"github.com/Romankivs/Lab1Istp/util/crypto"
	"github.com/Romankivs/Lab1Istp/util/money"
)

// Msg represents a JSON response with success status, message text, and optional data object.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

// ReservedPlates are path segments under /car that cannot be plate numbers.
var ReservedPlates = []string{"list", "add", "update", "diagram_info"}

// plateRules matches the plate_number column size and keeps the plate
// usable as a path segment.
const plateRules = "required,max=16,excludesall=/?#%"

type LoginForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// StaffForm is the registration and update payload of a staff member.
type StaffForm struct {
	Email    string `form:"email" binding:"required" validate:"required,email"`
	Password string `form:"password" binding:"required" validate:"min=4"`
	Name     string `form:"name" binding:"required" validate:"required"`
}

// ToModel hashes the password; the plain text never reaches the store.
func (f *StaffForm) ToModel(key *int) (*model.Staff, error) {
	f.Email = NormalizeEmail(f.Email)
	f.Name = strings.TrimSpace(f.Name)
	if err := validateForm(f); err != nil {
		return nil, err
	}
	hash, err := crypto.HashPasswordAsBcrypt(f.Password)
	if err != nil {
		return nil, err
	}
	staff := &model.Staff{Email: f.Email, Name: f.Name, PasswordHash: hash}
	if key != nil {
		staff.Id = *key
	}
	return staff, nil
}

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type ManufacturerForm struct {
	Name    string `form:"name" binding:"required" validate:"required"`
	Country string `form:"country"`
}

func (f *ManufacturerForm) ToModel(key *int) (*model.Manufacturer, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Country = strings.TrimSpace(f.Country)
	if err := validateForm(f); err != nil {
		return nil, err
	}
	m := &model.Manufacturer{Name: f.Name, Country: f.Country}
	if key != nil {
		m.Id = *key
	}
	return m, nil
}

type CarModelForm struct {
	Name           string `form:"name" binding:"required" validate:"required"`
	ManufacturerId int    `form:"manufacturer_id" binding:"required" validate:"gt=0"`
}

func (f *CarModelForm) ToModel(key *int) (*model.CarModel, error) {
	f.Name = strings.TrimSpace(f.Name)
	if err := validateForm(f); err != nil {
		return nil, err
	}
	cm := &model.CarModel{Name: f.Name, ManufacturerId: f.ManufacturerId}
	if key != nil {
		cm.Id = *key
	}
	return cm, nil
}

// CarForm carries the price as text so it can be quantized exactly.
type CarForm struct {
	PlateNumber string `form:"plate_number"`
	CarModelId  int    `form:"car_model_id" binding:"required" validate:"gt=0"`
	Available   bool   `form:"available"`
	Condition   string `form:"condition"`
	PricePerDay string `form:"price_per_day" binding:"required"`
}

// ToModel validates the plate only when creating; an update keeps the
// plate from the path.
func (f *CarForm) ToModel(key *string) (*model.Car, error) {
	plate := strings.ToUpper(strings.TrimSpace(f.PlateNumber))
	if key != nil {
		plate = *key
	} else if err := ValidatePlate(plate); err != nil {
		return nil, err
	}
	f.Condition = strings.TrimSpace(f.Condition)
	if err := validateForm(f); err != nil {
		return nil, err
	}
	price, err := money.ParsePrice("price_per_day", f.PricePerDay)
	if err != nil {
		return nil, err
	}
	return &model.Car{
		PlateNumber: plate,
		CarModelId:  f.CarModelId,
		Available:   f.Available,
		Condition:   f.Condition,
		PricePerDay: price,
	}, nil
}

// ValidatePlate checks a new plate number.
func ValidatePlate(plate string) error {
	if err := validateVar("plate_number", plate, plateRules); err != nil {
		return err
	}
	for _, r := range ReservedPlates {
		if strings.EqualFold(plate, r) {
			return common.NewValidationError("plate_number", "%q is reserved", plate)
		}
	}
	return nil
}

type CustomerForm struct {
	FirstName      string `form:"first_name" binding:"required" validate:"required"`
	LastName       string `form:"last_name" binding:"required" validate:"required"`
	PassportNumber string `form:"passport_number" binding:"required" validate:"required"`
	Phone          string `form:"phone"`
	Email          string `form:"email" validate:"omitempty,email"`
}

func (f *CustomerForm) ToModel(key *int) (*model.Customer, error) {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.PassportNumber = strings.ToUpper(strings.TrimSpace(f.PassportNumber))
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = NormalizeEmail(f.Email)
	if err := validateForm(f); err != nil {
		return nil, err
	}
	c := &model.Customer{
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		PassportNumber: f.PassportNumber,
		Phone:          f.Phone,
		Email:          f.Email,
	}
	if key != nil {
		c.Id = *key
	}
	return c, nil
}

// RentalCaseForm dates are calendar days; the time of day is dropped
// before validation.
type RentalCaseForm struct {
	CustomerId int       `form:"customer_id" binding:"required" validate:"gt=0"`
	CarPlate   string    `form:"car_plate" binding:"required" validate:"required"`
	StaffId    int       `form:"staff_id" binding:"required" validate:"gt=0"`
	StartDate  time.Time `form:"start_date" time_format:"2006-01-02" binding:"required" validate:"required"`
	EndDate    time.Time `form:"end_date" time_format:"2006-01-02" binding:"required" validate:"required,gtefield=StartDate"`
	Status     string    `form:"status" binding:"required" validate:"oneof=reserved active completed cancelled"`
}

func (f *RentalCaseForm) ToModel(key *int) (*model.RentalCase, error) {
	f.CarPlate = strings.ToUpper(strings.TrimSpace(f.CarPlate))
	f.StartDate = truncateDay(f.StartDate)
	f.EndDate = truncateDay(f.EndDate)
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	if err := validateForm(f); err != nil {
		return nil, err
	}
	rc := &model.RentalCase{
		CustomerId: f.CustomerId,
		CarPlate:   f.CarPlate,
		StaffId:    f.StaffId,
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
		Status:     model.RentalStatus(f.Status),
	}
	if key != nil {
		rc.Id = *key
	}
	return rc, nil
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
