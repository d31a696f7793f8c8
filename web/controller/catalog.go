package controller

import (
	"context"

	"github.com/Romankivs/Lab1Istp/database/model"
	"github.com/Romankivs/Lab1Istp/web/entity"
	"github.com/Romankivs/Lab1Istp/web/service"

	"github.com/gin-gonic/gin"
)

type ManufacturerController struct {
	*Resource[model.Manufacturer, int, entity.ManufacturerForm, *entity.ManufacturerForm]
}

func NewManufacturerController(g *gin.RouterGroup, manufacturers *service.ManufacturerService) *ManufacturerController {
	a := &ManufacturerController{
		Resource: NewResource[model.Manufacturer, int, entity.ManufacturerForm]("manufacturer", "entity.manufacturer.title", manufacturers.Crud, parseIntKey),
	}
	a.initRouter(g.Group("/manufacturer"))
	return a
}

type CarModelController struct {
	*Resource[model.CarModel, int, entity.CarModelForm, *entity.CarModelForm]
}

func NewCarModelController(g *gin.RouterGroup, carModels *service.CarModelService, manufacturers *service.ManufacturerService) *CarModelController {
	a := &CarModelController{
		Resource: NewResource[model.CarModel, int, entity.CarModelForm]("car_model", "entity.carModel.title", carModels.Crud, parseIntKey).
			WithReferences(func(ctx context.Context) (gin.H, error) {
				rows, err := manufacturers.List(ctx)
				return gin.H{"manufacturers": rows}, err
			}),
	}
	a.initRouter(g.Group("/car_model"))
	return a
}
