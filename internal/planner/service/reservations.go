package service

import (
	"context"
	"fmt"
	"log"
	"sort"

	"office-planner/internal/planner/models"
	"office-planner/internal/planner/repository"

	"github.com/google/uuid"
)

// ============================================================
// Requests
// ============================================================

// ReservationRequest - тело PUT/PATCH/DELETE /table.
// ReservedForDate обязателен и для постоянной брони: день недели даты
// должен входить в Weekdays.
type ReservationRequest struct {
	TableID         int               `json:"tableId"`
	Floor           int               `json:"floor,omitempty"`
	ReservedForDate string            `json:"reservedForDate"`
	Permanent       *models.Permanent `json:"permanent,omitempty"`
}

func (req *ReservationRequest) normalize() error {
	if req.Floor == 0 {
		req.Floor = 1
	}
	if req.Floor < 1 {
		return invalid("floor %d", req.Floor)
	}
	if req.TableID <= 0 {
		return invalid("table id %d", req.TableID)
	}
	if req.Permanent != nil {
		for _, w := range req.Permanent.Weekdays {
			if w < 0 || w > 6 {
				return invalid("weekday %d", w)
			}
		}
	}
	return nil
}

func (req *ReservationRequest) permanentWeekdays() []int {
	if req.Permanent == nil {
		return nil
	}
	return req.Permanent.Weekdays
}

// ============================================================
// Reserve
// ============================================================

// Reserve бронирует стол на дату или постоянно по дням недели.
func (p *Planner) Reserve(ctx context.Context, user models.User, req ReservationRequest) error {
	if err := req.normalize(); err != nil {
		return err
	}
	if req.ReservedForDate == "" {
		return invalid("reservedForDate is required")
	}
	date, err := p.futureDate(req.ReservedForDate)
	if err != nil {
		return err
	}
	if err := p.tableExists(ctx, user, req.Floor, req.TableID); err != nil {
		return err
	}

	if req.Permanent != nil {
		weekdays := req.permanentWeekdays()
		if len(weekdays) == 0 {
			return invalid("permanent reservation without weekdays")
		}
		if !containsInt(weekdays, int(date.Weekday())) {
			return invalid("weekday of %s is not among %v", req.ReservedForDate, weekdays)
		}
	}

	// Проверки и запись - одна транзакция.
	return p.repo.InTx(ctx, func(tx *repository.Repository) error {
		if req.Permanent != nil {
			return p.reservePermanent(ctx, tx, user, req)
		}
		return p.reserveSingle(ctx, tx, user, req)
	})
}

func (p *Planner) reserveSingle(ctx context.Context, repo *repository.Repository, user models.User, req ReservationRequest) error {
	location := LocationOf(user)

	taken, err := repo.ListReservations(ctx, repository.ReservationFilter{
		Location: location,
		TableID:  &req.TableID,
		ActiveOn: req.ReservedForDate,
	})
	if err != nil {
		return err
	}
	if len(taken) > 0 {
		return conflict("table %d is already reserved on %s", req.TableID, req.ReservedForDate)
	}

	mine, err := repo.ListReservations(ctx, repository.ReservationFilter{
		Location: location,
		UserID:   user.ID,
		ActiveOn: req.ReservedForDate,
	})
	if err != nil {
		return err
	}
	if len(mine) > 0 {
		return conflict("user already has a table on %s", req.ReservedForDate)
	}

	res := &models.Reservation{
		ID:              uuid.NewString(),
		Location:        location,
		Floor:           req.Floor,
		TableID:         req.TableID,
		ReservedForDate: req.ReservedForDate,
		UserID:          user.ID,
		CreatedAt:       p.now().UTC(),
	}
	if err := repo.InsertReservation(ctx, res); err != nil {
		return err
	}
	log.Printf("[PLANNER] %s reserved table %d on %s", user.ID, req.TableID, req.ReservedForDate)
	return nil
}

func (p *Planner) reservePermanent(ctx context.Context, repo *repository.Repository, user models.User, req ReservationRequest) error {
	location := LocationOf(user)
	weekdays := req.permanentWeekdays()
	permanent := true

	tableRes, err := repo.ListReservations(ctx, repository.ReservationFilter{
		Location:  location,
		TableID:   &req.TableID,
		Permanent: &permanent,
	})
	if err != nil {
		return err
	}
	if overlaps(tableRes, weekdays) {
		return conflict("table %d is permanently reserved on one of %v", req.TableID, weekdays)
	}

	userRes, err := repo.ListReservations(ctx, repository.ReservationFilter{
		Location:  location,
		UserID:    user.ID,
		Permanent: &permanent,
	})
	if err != nil {
		return err
	}
	if overlaps(userRes, weekdays) {
		return conflict("user already has a permanent table on one of %v", weekdays)
	}

	// Дни добавляются к уже существующей постоянной брони того же стола.
	for _, res := range userRes {
		if res.TableID != req.TableID || res.Floor != req.Floor {
			continue
		}
		res.Permanent.Weekdays = uniqueSorted(append(res.Permanent.Weekdays, weekdays...))
		res.CreatedAt = p.now().UTC()
		return repo.UpdateReservation(ctx, &res)
	}

	res := &models.Reservation{
		ID:        uuid.NewString(),
		Location:  location,
		Floor:     req.Floor,
		TableID:   req.TableID,
		Permanent: &models.Permanent{Weekdays: uniqueSorted(weekdays)},
		UserID:    user.ID,
		CreatedAt: p.now().UTC(),
	}
	if err := repo.InsertReservation(ctx, res); err != nil {
		return err
	}
	log.Printf("[PLANNER] %s reserved table %d on weekdays %v", user.ID, req.TableID, res.Permanent.Weekdays)
	return nil
}

// ============================================================
// Move
// ============================================================

// Move пересаживает пользователя на другой стол в пределах одного дня.
// Постоянная бронь при этом не трогается: дата исключается из неё,
// а на новый стол создаётся разовая бронь.
func (p *Planner) Move(ctx context.Context, user models.User, req ReservationRequest) error {
	if err := req.normalize(); err != nil {
		return err
	}
	if req.ReservedForDate == "" {
		return invalid("reservedForDate is required")
	}
	if _, err := p.futureDate(req.ReservedForDate); err != nil {
		return err
	}
	if err := p.tableExists(ctx, user, req.Floor, req.TableID); err != nil {
		return err
	}

	return p.repo.InTx(ctx, func(tx *repository.Repository) error {
		return p.move(ctx, tx, user, req)
	})
}

func (p *Planner) move(ctx context.Context, repo *repository.Repository, user models.User, req ReservationRequest) error {
	location := LocationOf(user)
	taken, err := repo.ListReservations(ctx, repository.ReservationFilter{
		Location: location,
		TableID:  &req.TableID,
		ActiveOn: req.ReservedForDate,
	})
	if err != nil {
		return err
	}
	if len(taken) > 0 {
		return conflict("table %d is already reserved on %s", req.TableID, req.ReservedForDate)
	}

	mine, err := repo.ListReservations(ctx, repository.ReservationFilter{
		Location: location,
		UserID:   user.ID,
		ActiveOn: req.ReservedForDate,
	})
	if err != nil {
		return err
	}
	if len(mine) == 0 {
		return invalid("user has no reservation on %s", req.ReservedForDate)
	}
	latest := mine[len(mine)-1]
	now := p.now().UTC()

	if latest.Permanent == nil {
		latest.TableID = req.TableID
		latest.CreatedAt = now
		return repo.UpdateReservation(ctx, &latest)
	}

	latest.ExcludeDates = append(latest.ExcludeDates, req.ReservedForDate)
	if err := repo.UpdateReservation(ctx, &latest); err != nil {
		return err
	}
	return repo.InsertReservation(ctx, &models.Reservation{
		ID:              uuid.NewString(),
		Location:        location,
		Floor:           req.Floor,
		TableID:         req.TableID,
		ReservedForDate: req.ReservedForDate,
		UserID:          user.ID,
		CreatedAt:       now,
	})
}

// ============================================================
// Cancel
// ============================================================

// Cancel снимает бронь. С Weekdays снимаются дни постоянной брони,
// без них только одна дата.
func (p *Planner) Cancel(ctx context.Context, user models.User, req ReservationRequest) error {
	if err := req.normalize(); err != nil {
		return err
	}
	if len(req.permanentWeekdays()) > 0 {
		return p.cancelWeekdays(ctx, user, req)
	}
	if req.ReservedForDate == "" {
		return invalid("reservedForDate is required")
	}
	if _, err := p.futureDate(req.ReservedForDate); err != nil {
		return err
	}

	mine, err := p.repo.ListReservations(ctx, repository.ReservationFilter{
		Location: LocationOf(user),
		UserID:   user.ID,
		TableID:  &req.TableID,
		ActiveOn: req.ReservedForDate,
	})
	if err != nil {
		return err
	}
	if len(mine) == 0 {
		return notFound(repository.ErrNotFound)
	}

	latest := mine[len(mine)-1]
	if latest.Permanent != nil {
		latest.ExcludeDates = append(latest.ExcludeDates, req.ReservedForDate)
		return p.repo.UpdateReservation(ctx, &latest)
	}
	return notFound(p.repo.DeleteReservation(ctx, latest.ID))
}

func (p *Planner) cancelWeekdays(ctx context.Context, user models.User, req ReservationRequest) error {
	weekdays := req.permanentWeekdays()
	date, err := parseDate(req.ReservedForDate)
	if err != nil {
		return err
	}
	if !containsInt(weekdays, int(date.Weekday())) {
		return invalid("weekday of %s is not among %v", req.ReservedForDate, weekdays)
	}

	permanent := true
	mine, err := p.repo.ListReservations(ctx, repository.ReservationFilter{
		Location:  LocationOf(user),
		Floor:     &req.Floor,
		UserID:    user.ID,
		TableID:   &req.TableID,
		Permanent: &permanent,
	})
	if err != nil {
		return err
	}

	for _, res := range mine {
		if !coversAll(res.Permanent.Weekdays, weekdays) {
			continue
		}
		left := without(res.Permanent.Weekdays, weekdays)
		if len(left) == 0 {
			return notFound(p.repo.DeleteReservation(ctx, res.ID))
		}
		res.Permanent.Weekdays = left
		return p.repo.UpdateReservation(ctx, &res)
	}
	return notFound(repository.ErrNotFound)
}

// ============================================================
// Table day details
// ============================================================

// TableDetails - состояние стола в конкретный день с точки зрения пользователя.
type TableDetails struct {
	HasUserAlreadyReservedTableToday bool  `json:"hasUserAlreadyReservedTableToday"`
	IsSelectedTableReserved          bool  `json:"isSelectedTableReserved"`
	IsTableReservedByMe              bool  `json:"isTableReservedByMe"`
	GeneralPermanentWeekdays         []int `json:"generalPermanentWeekdays"`
	UserPermanentWeekdays            []int `json:"userPermanentWeekdays"`
	IsSameTable                      *bool `json:"isSameTable,omitempty"`
	IsPermanent                      bool  `json:"isPermanent,omitempty"`
}

func (p *Planner) TableDay(ctx context.Context, user models.User, tableID int, date string) (*TableDetails, error) {
	if tableID <= 0 {
		return nil, invalid("table id %d", tableID)
	}
	if _, err := parseDate(date); err != nil {
		return nil, err
	}

	location := LocationOf(user)
	all, err := p.repo.ListReservations(ctx, repository.ReservationFilter{Location: location})
	if err != nil {
		return nil, err
	}

	var (
		details    = &TableDetails{}
		tableToday *models.Reservation
		userToday  *models.Reservation
		general    []int
		personal   []int
	)
	// all отсортированы по времени создания, первым берётся самый ранний.
	for i := range all {
		res := &all[i]
		active := res.ActiveOn(date)
		if res.TableID == tableID && active && tableToday == nil {
			tableToday = res
		}
		if res.UserID == user.ID && active && userToday == nil {
			userToday = res
		}
		if res.Permanent != nil {
			if res.TableID == tableID {
				general = append(general, res.Permanent.Weekdays...)
			}
			if res.UserID == user.ID {
				personal = append(personal, res.Permanent.Weekdays...)
			}
		}
	}

	details.GeneralPermanentWeekdays = uniqueSorted(general)
	details.UserPermanentWeekdays = uniqueSorted(personal)

	if tableToday != nil {
		details.IsSelectedTableReserved = true
		details.IsTableReservedByMe = tableToday.UserID == user.ID
	}
	if userToday != nil {
		// Бронь пользователя действительна, только если её стол в этот день
		// не занят кем-то раньше.
		for _, res := range all {
			if res.TableID == userToday.TableID && res.ActiveOn(date) {
				details.HasUserAlreadyReservedTableToday = res.UserID == user.ID
				break
			}
		}
	}
	if userToday != nil && tableToday != nil {
		same := userToday.TableID == tableToday.TableID
		details.IsSameTable = &same
		details.IsPermanent = userToday.Permanent != nil
	}
	return details, nil
}

// ============================================================
// Floor day
// ============================================================

// FloorDay возвращает столы этажа, имеющие состояние в этот день:
// во всех комнатах, где занят хоть один стол, свободные столы Green,
// занятые Occupied. Пользователю засчитывается только самая ранняя бронь.
func (p *Planner) FloorDay(ctx context.Context, user models.User, floor int, date string) ([]models.Table, error) {
	if floor < 1 {
		return nil, invalid("floor %d", floor)
	}
	if _, err := parseDate(date); err != nil {
		return nil, err
	}

	location := LocationOf(user)
	loc, err := p.repo.GetFloor(ctx, location, floor)
	if err != nil {
		return nil, notFound(err)
	}
	active, err := p.repo.ListReservations(ctx, repository.ReservationFilter{
		Location: location,
		Floor:    &floor,
		ActiveOn: date,
	})
	if err != nil {
		return nil, err
	}

	occupant := make(map[int]string)
	seen := make(map[string]struct{})
	for _, res := range active {
		if _, ok := seen[res.UserID]; ok {
			continue
		}
		seen[res.UserID] = struct{}{}
		occupant[res.TableID] = res.UserID
	}

	tables := []models.Table{}
	for _, room := range loc.Structure.Rooms {
		reserved := false
		for _, t := range room.Tables {
			if _, ok := occupant[t.TableID]; ok {
				reserved = true
				break
			}
		}
		if !reserved {
			continue
		}
		for _, t := range room.Tables {
			t.State = models.TableGreen
			if uid, ok := occupant[t.TableID]; ok {
				t.State = models.TableOccupied
				t.IsItMe = uid == user.ID
				t.UserID = uid
			}
			tables = append(tables, t)
		}
	}
	return tables, nil
}

// ============================================================
// Helpers
// ============================================================

func (p *Planner) tableExists(ctx context.Context, user models.User, floor, tableID int) error {
	loc, err := p.repo.GetFloor(ctx, LocationOf(user), floor)
	if err != nil {
		return notFound(err)
	}
	for _, t := range loc.Structure.Tables() {
		if t.TableID == tableID {
			return nil
		}
	}
	return fmt.Errorf("table %d on floor %d: %w", tableID, floor, ErrNotFound)
}

func overlaps(list []models.Reservation, weekdays []int) bool {
	for _, res := range list {
		for _, w := range weekdays {
			if res.HasWeekday(w) {
				return true
			}
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func coversAll(set, subset []int) bool {
	for _, v := range subset {
		if !containsInt(set, v) {
			return false
		}
	}
	return true
}

func without(set, remove []int) []int {
	out := []int{}
	for _, v := range set {
		if !containsInt(remove, v) {
			out = append(out, v)
		}
	}
	return out
}

func uniqueSorted(list []int) []int {
	out := []int{}
	for _, v := range list {
		if !containsInt(out, v) {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

// FloorView - этаж с состояниями столов на дату, для экспорта плана.
func (p *Planner) FloorView(ctx context.Context, user models.User, floor int, date string) (*models.Location, error) {
	loc, err := p.GetFloor(ctx, user, floor)
	if err != nil {
		return nil, err
	}
	if date == "" {
		return loc, nil
	}

	day, err := p.FloorDay(ctx, user, floor, date)
	if err != nil {
		return nil, err
	}
	states := make(map[int]models.Table, len(day))
	for _, t := range day {
		states[t.TableID] = t
	}
	for i := range loc.Structure.Rooms {
		for j, t := range loc.Structure.Rooms[i].Tables {
			if s, ok := states[t.TableID]; ok {
				loc.Structure.Rooms[i].Tables[j] = s
			}
		}
	}
	return loc, nil
}
