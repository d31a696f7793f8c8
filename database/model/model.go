// Package model defines the rows persisted by the car rental panel.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Staff is an operator of the panel and the source of session identity.
type Staff struct {
	Id           int    `json:"staff_id" gorm:"column:staff_id;primaryKey;autoIncrement"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	Name         string `json:"name" gorm:"not null"`
}

func (Staff) TableName() string { return "staff" }

type Manufacturer struct {
	Id      int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string `json:"name" gorm:"not null"`
	Country string `json:"country"`
}

type CarModel struct {
	Id             int           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name           string        `json:"name" gorm:"not null"`
	ManufacturerId int           `json:"manufacturer_id" gorm:"not null;index"`
	Manufacturer   *Manufacturer `json:"manufacturer,omitempty" gorm:"foreignKey:ManufacturerId;references:Id"`
}

// Car is keyed by its plate number, which never changes after creation.
type Car struct {
	PlateNumber string          `json:"plate_number" gorm:"primaryKey;size:16"`
	CarModelId  int             `json:"car_model_id" gorm:"not null;index"`
	Available   bool            `json:"available" gorm:"not null;default:false"`
	Condition   string          `json:"condition"`
	PricePerDay decimal.Decimal `json:"price_per_day" gorm:"type:decimal(10,2);not null"`
	CarModel    *CarModel       `json:"car_model,omitempty" gorm:"foreignKey:CarModelId;references:Id"`
}

type Customer struct {
	Id             int    `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName      string `json:"first_name" gorm:"not null"`
	LastName       string `json:"last_name" gorm:"not null"`
	PassportNumber string `json:"passport_number" gorm:"uniqueIndex;not null"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
}

// FullName joins the first and last name for display.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// RentalStatus is the state of a rental case.
type RentalStatus string

const (
	RentalReserved  RentalStatus = "reserved"
	RentalActive    RentalStatus = "active"
	RentalCompleted RentalStatus = "completed"
	RentalCancelled RentalStatus = "cancelled"
)

// RentalStatuses lists the accepted statuses in display order.
var RentalStatuses = []RentalStatus{RentalReserved, RentalActive, RentalCompleted, RentalCancelled}

type RentalCase struct {
	Id         int          `json:"id" gorm:"primaryKey;autoIncrement"`
	CustomerId int          `json:"customer_id" gorm:"not null;index"`
	CarPlate   string       `json:"car_plate" gorm:"size:16;not null;index"`
	StaffId    int          `json:"staff_id" gorm:"not null;index"`
	StartDate  time.Time    `json:"start_date" gorm:"type:date;not null"`
	EndDate    time.Time    `json:"end_date" gorm:"type:date;not null"`
	Status     RentalStatus `json:"status" gorm:"size:16;not null"`
	Customer   *Customer    `json:"customer,omitempty" gorm:"foreignKey:CustomerId;references:Id"`
	Car        *Car         `json:"car,omitempty" gorm:"foreignKey:CarPlate;references:PlateNumber"`
	Staff      *Staff       `json:"staff,omitempty" gorm:"foreignKey:StaffId;references:Id"`
}

// Days is the inclusive length of the rental in days.
func (r RentalCase) Days() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// Setting is a key/value pair of panel configuration.
type Setting struct {
	Id    int    `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	Key   string `json:"key" form:"key"`
	Value string `json:"value" form:"value"`
}
