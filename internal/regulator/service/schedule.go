package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ============================================================
// Schedule
// ============================================================

// Schedule - cron-выражение "0 <hour> * * <dayOfWeek>".
type Schedule struct {
	Spec     string
	schedule cron.Schedule
}

// ParseSchedule собирает выражение из часа и поля дня недели cron
// ("*", "1,3,5", "1-5", "MON-FRI", "*/2").
func ParseSchedule(hour int, dayOfWeek string) (Schedule, error) {
	if hour < 0 || hour > 23 {
		return Schedule{}, fmt.Errorf("hour %d out of range", hour)
	}
	dayOfWeek = strings.TrimSpace(dayOfWeek)
	if dayOfWeek == "" {
		dayOfWeek = "*"
	}

	spec := fmt.Sprintf("0 %d * * %s", hour, dayOfWeek)
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return Schedule{}, fmt.Errorf("schedule %q: %w", spec, err)
	}
	return Schedule{Spec: spec, schedule: schedule}, nil
}

// Next - ближайший запуск строго после after.
func (s Schedule) Next(after time.Time) time.Time {
	return s.schedule.Next(after)
}

// Loop вызывает job по расписанию до отмены ctx и ждёт завершения
// начатого запуска.
func (s Schedule) Loop(ctx context.Context, job func(ctx context.Context, at time.Time)) error {
	c := cron.New()
	id, err := c.AddFunc(s.Spec, func() {
		at := time.Now()
		job(ctx, at)
		log.Printf("[REGULATOR] next run at %s", s.Next(at).Format(time.RFC3339))
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", s.Spec, err)
	}

	c.Start()
	log.Printf("[REGULATOR] next run at %s", c.Entry(id).Next.Format(time.RFC3339))

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}
