package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/pesopolis/internal/model"
	"github.com/Freeeeeet/pesopolis/internal/repository"
	"github.com/Freeeeeet/pesopolis/internal/repository/base"
	"go.uber.org/zap"
)

// NoSalary возвращается, когда за период нет ни одного оплачиваемого занятия
var NoSalary = model.NewMoney(-1)

// SalaryReport зарплата сотрудника за период
type SalaryReport struct {
	StaffID int64       `json:"staff_id"`
	Start   time.Time   `json:"start_date"`
	End     time.Time   `json:"end_date"`
	Salary  model.Money `json:"salary"`
}

type SalaryService struct {
	db     *base.Database
	staffs *repository.TableRepository[model.Staff, *model.Staff]
	salary *repository.SalaryRepository
	logger *zap.Logger
}

func NewSalaryService(db *base.Database, logger *zap.Logger) *SalaryService {
	return &SalaryService{
		db:     db,
		staffs: repository.NewTableRepository[model.Staff, *model.Staff](logger),
		salary: repository.NewSalaryRepository(logger),
		logger: logger,
	}
}

// SalaryWindow возвращает полуинтервал [from, to) для отчёта.
// Без end период равен календарному месяцу от start, оба дня включаются.
func SalaryWindow(start time.Time, end *time.Time) (from, to time.Time, err error) {
	from = truncateDay(start)
	last := addMonth(from)
	if end != nil {
		last = truncateDay(*end)
	}
	if last.Before(from) {
		return time.Time{}, time.Time{}, invalid("end_date %s is before start_date %s",
			last.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	return from, last.AddDate(0, 0, 1), nil
}

// Salary считает зарплату сотрудника за период.
// Если занятий нет, возвращает NoSalary.
func (s *SalaryService) Salary(ctx context.Context, staffID int64, start time.Time, end *time.Time) (SalaryReport, error) {
	from, to, err := SalaryWindow(start, end)
	if err != nil {
		return SalaryReport{}, err
	}

	if _, err := s.staffs.GetByID(ctx, s.db.DB(), staffID); err != nil {
		if base.IsNotFound(err) {
			return SalaryReport{}, notFound("staff with id %d not found", staffID)
		}
		return SalaryReport{}, fmt.Errorf("get staff: %w", err)
	}

	sum, err := s.salary.SumLessonPrices(ctx, s.db.DB(), staffID, from, to)
	if err != nil {
		return SalaryReport{}, err
	}

	report := SalaryReport{
		StaffID: staffID,
		Start:   from,
		End:     to.AddDate(0, 0, -1),
		Salary:  NoSalary,
	}
	if sum != nil {
		report.Salary = *sum
	}

	s.logger.Debug("Salary calculated",
		zap.Int64("staff_id", staffID),
		zap.Time("from", from),
		zap.Time("to", to),
		zap.String("salary", report.Salary.String()))

	return report, nil
}

// SalaryByTelegram считает зарплату сотрудника, найденного по Telegram ID
func (s *SalaryService) SalaryByTelegram(ctx context.Context, tgID int64, start time.Time, end *time.Time) (SalaryReport, error) {
	staffs, err := s.staffs.List(ctx, s.db.DB(), map[string]any{"tg_id": tgID})
	if err != nil {
		return SalaryReport{}, fmt.Errorf("find staff by telegram id: %w", err)
	}
	if len(staffs) == 0 {
		return SalaryReport{}, notFound("staff with telegram id %d not found", tgID)
	}
	if len(staffs) > 1 {
		return SalaryReport{}, invalid("telegram id %d belongs to %d staff members", tgID, len(staffs))
	}
	return s.Salary(ctx, staffs[0].ID, start, end)
}

// addMonth сдвигает дату на месяц, 31 января даёт последний день февраля
func addMonth(t time.Time) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(d, lastDay), 0, 0, 0, 0, time.UTC)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
