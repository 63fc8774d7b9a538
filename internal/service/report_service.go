package service

import (
	"context"
	"errors"
	"io"

	"farmledger/internal/infra"
	"farmledger/internal/repository"

	"gorm.io/gorm"
)

type ReportService interface {
	// WriteHerdReport writes the herd spreadsheet into w.
	WriteHerdReport(ctx context.Context, w io.Writer) error
}

type reportService struct {
	animals repository.AnimalRepository
	weights repository.WeightRepository
}

func NewReportService(animals repository.AnimalRepository, weights repository.WeightRepository) ReportService {
	return &reportService{animals: animals, weights: weights}
}

func (s *reportService) WriteHerdReport(ctx context.Context, w io.Writer) error {
	animals, err := s.animals.ListAll(ctx)
	if err != nil {
		return err
	}
	rows := make([]infra.HerdRow, 0, len(animals))
	for i := range animals {
		a := &animals[i]
		row := infra.HerdRow{
			Eartag:        a.Eartag,
			Room:          a.Room,
			Cost:          a.Cost,
			FeedCost:      a.FeedCost,
			IsSlaughtered: a.IsSlaughtered,
		}
		if a.Company != nil {
			row.Company = a.Company.Name
		}
		if a.Race != nil {
			row.Race = *a.Race
		}
		latest, err := s.weights.Latest(ctx, a.ID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		default:
			row.LatestWeight = &latest.Weight
		}
		rows = append(rows, row)
	}
	return infra.WriteHerdReport(w, rows)
}
