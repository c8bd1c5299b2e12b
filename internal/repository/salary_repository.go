package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Freeeeeet/pesopolis/internal/model"
	"github.com/Freeeeeet/pesopolis/internal/repository/base"
	"go.uber.org/zap"
)

// Групповое занятие оплачивается по group_price один раз.
// Индивидуальное занятие оплачивается за каждую отдельную собаку:
// big_dog_price для большой, low_dog_price для маленькой.
// Параметры повторяются, так как sqlite нумерует их по первому вхождению.
const lessonPricesSumQuery = `
	SELECT SUM(price)
	FROM (
		SELECT ss.group_price AS price
		FROM lessons l
		JOIN (SELECT DISTINCT lesson_id, staff_id FROM lesson_staff) ls
			ON ls.lesson_id = l.id
		JOIN staffs s
			ON s.id = ls.staff_id
		JOIN staff_status ss
			ON ss.id = s.status
		WHERE ls.staff_id = $1
			AND l.is_group
			AND l.date >= $2 AND l.date < $3

		UNION ALL

		SELECT CASE WHEN d.is_big THEN ss.big_dog_price ELSE ss.low_dog_price END AS price
		FROM lessons l
		JOIN (SELECT DISTINCT lesson_id, staff_id FROM lesson_staff) ls
			ON ls.lesson_id = l.id
		JOIN staffs s
			ON s.id = ls.staff_id
		JOIN staff_status ss
			ON ss.id = s.status
		JOIN (SELECT DISTINCT lesson_id, dog_id FROM lesson_dog) ld
			ON ld.lesson_id = l.id
		JOIN dogs d
			ON d.id = ld.dog_id
		WHERE ls.staff_id = $4
			AND NOT l.is_group
			AND l.date >= $5 AND l.date < $6
	) priced
`

type SalaryRepository struct {
	logger *zap.Logger
}

func NewSalaryRepository(logger *zap.Logger) *SalaryRepository {
	return &SalaryRepository{logger: logger}
}

// SumLessonPrices суммирует стоимость занятий сотрудника в интервале [from, to).
// Возвращает nil если подходящих занятий нет.
func (r *SalaryRepository) SumLessonPrices(ctx context.Context, q base.Querier, staffID int64, from, to time.Time) (*model.Money, error) {
	from, to = from.UTC(), to.UTC()

	var sum sql.NullString
	err := q.QueryRowContext(ctx, lessonPricesSumQuery,
		staffID, from, to,
		staffID, from, to,
	).Scan(&sum)
	if err != nil {
		r.logger.Error("Failed to sum lesson prices",
			zap.Int64("staff_id", staffID),
			zap.Error(err))
		return nil, fmt.Errorf("sum lesson prices: %w", err)
	}

	if !sum.Valid {
		return nil, nil
	}

	total, err := model.ParseMoney(sum.String)
	if err != nil {
		return nil, fmt.Errorf("sum lesson prices: %w", err)
	}
	return &total, nil
}
