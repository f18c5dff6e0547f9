package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"office-planner/internal/planner/models"
	"office-planner/internal/planner/repository"
)

// ============================================================
// Errors
// ============================================================

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

// notFound переводит ошибку репозитория в ошибку сервиса.
func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", err.Error(), ErrNotFound)
	}
	return err
}

// ============================================================
// Planner Service
// ============================================================

// Planner - этажи локаций и брони столов.
type Planner struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewPlanner(repo *repository.Repository) *Planner {
	return &Planner{repo: repo, now: time.Now}
}

// LocationOf - имя локации пользователя: город с заглавной буквы.
func LocationOf(user models.User) string {
	city := strings.ToLower(strings.TrimSpace(user.City))
	if city == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(city)
	return string(unicode.ToUpper(r)) + city[size:]
}

// parseDate проверяет дату YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(models.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, invalid("bad date %q", s)
	}
	return d, nil
}

func (p *Planner) isPast(d time.Time) bool {
	y, m, day := p.now().Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.Local)
	return d.Before(today)
}

// futureDate - дата, которая не раньше сегодняшней.
func (p *Planner) futureDate(s string) (time.Time, error) {
	d, err := parseDate(s)
	if err != nil {
		return d, err
	}
	if p.isPast(d) {
		return d, invalid("date %s is in the past", s)
	}
	return d, nil
}
