package controller

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/Romankivs/Lab1Istp/database/model"
	"github.com/Romankivs/Lab1Istp/logger"
	"github.com/Romankivs/Lab1Istp/util/common"
	"github.com/Romankivs/Lab1Istp/web/entity"
	"github.com/Romankivs/Lab1Istp/web/service"
	"github.com/Romankivs/Lab1Istp/web/session"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RentalCaseController struct {
	*Resource[model.RentalCase, int, entity.RentalCaseForm, *entity.RentalCaseForm]

	rentalCaseService *service.RentalCaseService
}

func NewRentalCaseController(
	g *gin.RouterGroup,
	rentalCases *service.RentalCaseService,
	customers *service.CustomerService,
	cars *service.CarService,
	staff *service.StaffService,
) *RentalCaseController {
	a := &RentalCaseController{
		Resource: NewResource[model.RentalCase, int, entity.RentalCaseForm]("rental_cases", "entity.rentalCase.title", rentalCases.Crud, parseIntKey).
			WithReferences(func(ctx context.Context) (gin.H, error) {
				customerRows, err := customers.List(ctx)
				if err != nil {
					return nil, err
				}
				carRows, err := cars.List(ctx)
				if err != nil {
					return nil, err
				}
				staffRows, err := staff.List(ctx)
				if err != nil {
					return nil, err
				}
				return gin.H{
					"customers":     customerRows,
					"cars":          carRows,
					"staff_members": staffRows,
					"statuses":      model.RentalStatuses,
				}, nil
			}),
		rentalCaseService: rentalCases,
	}
	g = g.Group("/rental_cases")
	g.GET("/excel", a.excel)
	g.POST("/upload_excel", a.uploadExcel)
	a.initRouter(g)
	return a
}

// excel downloads every rental case as a workbook.
func (a *RentalCaseController) excel(c *gin.Context) {
	var buf bytes.Buffer
	if err := a.rentalCaseService.Export(c.Request.Context(), &buf); err != nil {
		renderError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="rental_cases.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// uploadExcel imports the workbook in the multipart field "file". Invalid
// rows are listed on a report page and nothing is inserted.
func (a *RentalCaseController) uploadExcel(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		renderError(c, common.NewValidationError("file", "%v", err))
		return
	}
	file, err := header.Open()
	if err != nil {
		renderError(c, err)
		return
	}
	defer file.Close()

	staff := session.GetLoginStaff(c)
	report, err := a.rentalCaseService.Import(c.Request.Context(), file, staff.Id)
	if err != nil {
		var rowErr *service.ImportRowError
		switch {
		case common.IsValidation(err) && len(report.Errors) > 0:
			htmlStatus(c, http.StatusUnprocessableEntity, "rental_cases_import.html", "entity.rentalCase.title", gin.H{
				"report":   report,
				"filename": header.Filename,
			})
		case errors.As(err, &rowErr):
			logger.Errorf("import of %s failed at row %d: %v", header.Filename, rowErr.Line, rowErr.Err)
			htmlStatus(c, http.StatusInternalServerError, "error.html", "pages.error.title", gin.H{
				"code":    http.StatusInternalServerError,
				"message": errorMessageKey(http.StatusInternalServerError),
				"line":    rowErr.Line,
			})
		default:
			renderError(c, err)
		}
		return
	}
	logger.Infof("%s imported %d rental cases from %s", staff.Email, report.Inserted, header.Filename)
	seeOther(c, "/rental_cases/list")
}
