package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Romankivs/Lab1Istp/database/model"
	"github.com/Romankivs/Lab1Istp/logger"
	"github.com/Romankivs/Lab1Istp/util/common"
	"github.com/Romankivs/Lab1Istp/util/excel"
	"github.com/Romankivs/Lab1Istp/web/entity"

	"gorm.io/gorm"
)

// RentalCaseSheet is the sheet name of exported workbooks.
const RentalCaseSheet = "Rental cases"

// RentalCaseColumns is the header row of the rental case workbook. Id is
// written on export and ignored on import.
var RentalCaseColumns = []string{"Id", "Customer Id", "Car Plate", "Staff Id", "Start Date", "End Date", "Status"}

type RentalCaseService struct {
	*Crud[model.RentalCase, int]
	db *gorm.DB
}

func NewRentalCaseService(db *gorm.DB) *RentalCaseService {
	return &RentalCaseService{
		Crud: NewCrud[model.RentalCase, int](db, "id", "Customer", "Car", "Car.CarModel", "Staff"),
		db:   db,
	}
}

// ImportRowError ties an import failure to its sheet row.
type ImportRowError struct {
	Line int
	Err  error
}

func (e *ImportRowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *ImportRowError) Unwrap() error { return e.Err }

// ImportReport summarizes one upload.
type ImportReport struct {
	Inserted int
	Errors   []*ImportRowError
}

// Export writes every rental case as an xlsx workbook.
func (s *RentalCaseService) Export(ctx context.Context, w io.Writer) error {
	cases := make([]model.RentalCase, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&cases).Error; err != nil {
		return translate(err)
	}
	rows := make([][]any, 0, len(cases))
	for _, rc := range cases {
		rows = append(rows, []any{
			rc.Id,
			rc.CustomerId,
			rc.CarPlate,
			rc.StaffId,
			rc.StartDate.Format(excel.DateLayout),
			rc.EndDate.Format(excel.DateLayout),
			string(rc.Status),
		})
	}
	return excel.Export(w, RentalCaseSheet, RentalCaseColumns, rows)
}

// Import reads a workbook and inserts all of its rows or none of them.
// Every row is validated before the first insert; invalid rows come back
// in the report together with a ValidationError. A row refused by the
// store rolls the whole upload back and is reported by its line. A blank
// staff id is filled with uploader.
func (s *RentalCaseService) Import(ctx context.Context, r io.Reader, uploader int) (*ImportReport, error) {
	report := &ImportReport{}
	records, err := excel.Import(r)
	if err != nil {
		return report, common.NewValidationError("file", "%v", err)
	}

	cases := make([]*model.RentalCase, 0, len(records))
	lines := make([]int, 0, len(records))
	for _, rec := range records {
		rc, err := rentalCaseFromRecord(rec, uploader)
		if err != nil {
			report.Errors = append(report.Errors, &ImportRowError{Line: rec.Line, Err: err})
			continue
		}
		cases = append(cases, rc)
		lines = append(lines, rec.Line)
	}
	if len(report.Errors) > 0 {
		return report, common.NewValidationError("file", "%d of %d rows are invalid", len(report.Errors), len(records))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		crud := s.WithTx(tx)
		for i, rc := range cases {
			if err := crud.Create(ctx, rc); err != nil {
				return &ImportRowError{Line: lines[i], Err: err}
			}
		}
		return nil
	})
	if err != nil {
		var rowErr *ImportRowError
		if errors.As(err, &rowErr) {
			report.Errors = append(report.Errors, rowErr)
		}
		logger.Warning("rental case import rolled back:", err)
		return report, err
	}
	report.Inserted = len(cases)
	return report, nil
}

func rentalCaseFromRecord(rec excel.Record, uploader int) (*model.RentalCase, error) {
	form := &entity.RentalCaseForm{
		CarPlate: rec.Get("Car Plate"),
		Status:   rec.Get("Status"),
		StaffId:  uploader,
	}
	var err error
	if form.CustomerId, err = parseId("customer_id", rec.Get("Customer Id")); err != nil {
		return nil, err
	}
	if v := rec.Get("Staff Id"); v != "" {
		if form.StaffId, err = parseId("staff_id", v); err != nil {
			return nil, err
		}
	}
	if form.StartDate, err = parseDate("start_date", rec.Get("Start Date")); err != nil {
		return nil, err
	}
	if form.EndDate, err = parseDate("end_date", rec.Get("End Date")); err != nil {
		return nil, err
	}
	return form.ToModel(nil)
}

func parseId(field, v string) (int, error) {
	if v == "" {
		return 0, common.NewValidationError(field, "value is required")
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0, common.NewValidationError(field, "%q is not a number", v)
	}
	return id, nil
}

func parseDate(field, v string) (t time.Time, err error) {
	if v == "" {
		return t, common.NewValidationError(field, "value is required")
	}
	t, err = excel.ParseDate(v)
	if err != nil {
		return t, common.NewValidationError(field, "%v", err)
	}
	return t, nil
}
