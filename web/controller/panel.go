package controller

import (
	"github.com/Romankivs/Lab1Istp/web/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Services bundles the services the controllers are built on.
type Services struct {
	Setting      *service.SettingService
	Staff        *service.StaffService
	Manufacturer *service.ManufacturerService
	CarModel     *service.CarModelService
	Car          *service.CarService
	Customer     *service.CustomerService
	RentalCase   *service.RentalCaseService
}

// NewServices builds every service over one store handle.
func NewServices(settings *service.SettingService, db *gorm.DB) *Services {
	return &Services{
		Setting:      settings,
		Staff:        service.NewStaffService(db),
		Manufacturer: service.NewManufacturerService(db),
		CarModel:     service.NewCarModelService(db),
		Car:          service.NewCarService(db),
		Customer:     service.NewCustomerService(db),
		RentalCase:   service.NewRentalCaseService(db),
	}
}

// PanelController mounts the entity pages behind the login check.
type PanelController struct {
	BaseController

	manufacturer *ManufacturerController
	carModel     *CarModelController
	car          *CarController
	customer     *CustomerController
	rentalCase   *RentalCaseController
	staff        *StaffController
}

func NewPanelController(g *gin.RouterGroup, s *Services) *PanelController {
	a := &PanelController{}
	a.initRouter(g, s)
	return a
}

func (a *PanelController) initRouter(g *gin.RouterGroup, s *Services) {
	a.staff = NewStaffController(g, s.Staff)

	g = g.Group("", a.checkLogin)
	a.manufacturer = NewManufacturerController(g, s.Manufacturer)
	a.carModel = NewCarModelController(g, s.CarModel, s.Manufacturer)
	a.car = NewCarController(g, s.Car, s.CarModel)
	a.customer = NewCustomerController(g, s.Customer)
	a.rentalCase = NewRentalCaseController(g, s.RentalCase, s.Customer, s.Car, s.Staff)
}
