package service

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/Romankivs/Lab1Istp/database/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CarService struct {
	*Crud[model.Car, string]
}

func NewCarService(db *gorm.DB) *CarService {
	return &CarService{NewCrud[model.Car, string](db, "plate_number", "CarModel", "CarModel.Manufacturer")}
}

// CarModelStats is one bar of the fleet chart.
type CarModelStats struct {
	CarModelId   int         `json:"car_model_id"`
	Model        string      `json:"model"`
	Manufacturer string      `json:"manufacturer"`
	Total        int         `json:"total"`
	Available    int         `json:"available"`
	AveragePrice json.Number `json:"average_price"`
}

// DiagramInfo groups the fleet by car model. Models without cars are left
// out. The average price is rounded half up to two digits.
func (s *CarService) DiagramInfo(ctx context.Context) ([]CarModelStats, error) {
	cars, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	type acc struct {
		stats CarModelStats
		sum   decimal.Decimal
	}
	byModel := make(map[int]*acc)
	for _, car := range cars {
		a, ok := byModel[car.CarModelId]
		if !ok {
			a = &acc{stats: CarModelStats{CarModelId: car.CarModelId}}
			if car.CarModel != nil {
				a.stats.Model = car.CarModel.Name
				if car.CarModel.Manufacturer != nil {
					a.stats.Manufacturer = car.CarModel.Manufacturer.Name
				}
			}
			byModel[car.CarModelId] = a
		}
		a.stats.Total++
		if car.Available {
			a.stats.Available++
		}
		a.sum = a.sum.Add(car.PricePerDay)
	}

	result := make([]CarModelStats, 0, len(byModel))
	for _, a := range byModel {
		avg := a.sum.Div(decimal.NewFromInt(int64(a.stats.Total))).Round(2)
		a.stats.AveragePrice = json.Number(avg.StringFixed(2))
		result = append(result, a.stats)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CarModelId < result[j].CarModelId
	})
	return result, nil
}
