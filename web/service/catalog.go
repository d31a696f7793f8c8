package service

import (
	"github.com/Romankivs/Lab1Istp/database/model"

	"gorm.io/gorm"
)

type ManufacturerService struct {
	*Crud[model.Manufacturer, int]
}

func NewManufacturerService(db *gorm.DB) *ManufacturerService {
	return &ManufacturerService{NewCrud[model.Manufacturer, int](db, "id")}
}

type CarModelService struct {
	*Crud[model.CarModel, int]
}

func NewCarModelService(db *gorm.DB) *CarModelService {
	return &CarModelService{NewCrud[model.CarModel, int](db, "id", "Manufacturer")}
}
