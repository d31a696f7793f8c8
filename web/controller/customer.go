package controller

import (
	"github.com/Romankivs/Lab1Istp/database/model"
	"github.com/Romankivs/Lab1Istp/web/entity"
	"github.com/Romankivs/Lab1Istp/web/service"

	"github.com/gin-gonic/gin"
)

type CustomerController struct {
	*Resource[model.Customer, int, entity.CustomerForm, *entity.CustomerForm]

	customerService *service.CustomerService
}

func NewCustomerController(g *gin.RouterGroup, customers *service.CustomerService) *CustomerController {
	a := &CustomerController{
		Resource:        NewResource[model.Customer, int, entity.CustomerForm]("customer", "entity.customer.title", customers.Crud, parseIntKey),
		customerService: customers,
	}
	g = g.Group("/customer")
	g.GET("/rental_cases/:key", a.rentalCases)
	a.initRouter(g)
	return a
}

// rentalCases lists one customer's rentals with the car and staff member.
func (a *CustomerController) rentalCases(c *gin.Context) {
	id, err := a.key(c)
	if err != nil {
		renderError(c, err)
		return
	}
	customer, cases, err := a.customerService.RentalCases(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	html(c, "customer_rental_cases.html", "entity.customer.title", gin.H{
		"customer": customer,
		"rows":     cases,
	})
}
