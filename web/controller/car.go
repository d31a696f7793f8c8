package controller

import (
	"context"

	"github.com/Romankivs/Lab1Istp/database/model"
	"github.com/Romankivs/Lab1Istp/web/entity"
	"github.com/Romankivs/Lab1Istp/web/service"

	"github.com/gin-gonic/gin"
)

type CarController struct {
	*Resource[model.Car, string, entity.CarForm, *entity.CarForm]

	carService *service.CarService
}

func NewCarController(g *gin.RouterGroup, cars *service.CarService, carModels *service.CarModelService) *CarController {
	a := &CarController{
		Resource: NewResource[model.Car, string, entity.CarForm]("car", "entity.car.title", cars.Crud, parsePlateKey).
			WithReferences(func(ctx context.Context) (gin.H, error) {
				rows, err := carModels.List(ctx)
				return gin.H{"car_models": rows}, err
			}),
		carService: cars,
	}
	g = g.Group("/car")
	g.GET("/diagram_info", a.diagramInfo)
	a.initRouter(g)
	return a
}

// diagramInfo returns the fleet grouped by car model for the chart.
func (a *CarController) diagramInfo(c *gin.Context) {
	stats, err := a.carService.DiagramInfo(c.Request.Context())
	jsonObj(c, stats, err)
}
