package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"office-planner/internal/planner/models"
	"office-planner/internal/planner/repository"
	planner "office-planner/internal/planner/service"
	"office-planner/internal/regulator/homeassistant"
)

// ============================================================
// Regulator
// ============================================================

// Store - чтение этажей и броней.
type Store interface {
	ListFloors(ctx context.Context, location string) ([]models.Location, error)
	ListReservations(ctx context.Context, f repository.ReservationFilter) ([]models.Reservation, error)
}

// Thermostats - термостаты одного сервера Home Assistant.
type Thermostats interface {
	States(ctx context.Context) ([]homeassistant.Entity, error)
	SetTemperature(ctx context.Context, entityID string, temperature float64) error
}

// Regulator на ночь понижает температуру в комнатах, где завтра никого
// не будет, и возвращает её в занятых.
type Regulator struct {
	store       Store
	protocols   *ProtocolStorage
	thermostats func(LocationConfig) Thermostats
}

func NewRegulator(store Store, protocols *ProtocolStorage, timeout time.Duration) *Regulator {
	return &Regulator{
		store:     store,
		protocols: protocols,
		thermostats: func(l LocationConfig) Thermostats {
			return homeassistant.NewClient(l.BaseURL(), l.HAToken, timeout)
		},
	}
}

// Run обрабатывает все локации. Ошибка одной локации не останавливает остальные.
func (r *Regulator) Run(ctx context.Context, locations []LocationConfig, now time.Time) error {
	var failed []string
	for _, l := range locations {
		if err := r.RunLocation(ctx, l, now); err != nil {
			log.Printf("[REGULATOR] %s: %v", l.Location, err)
			failed = append(failed, l.Location)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("regulator failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

// RunLocation выставляет температуры по броням на завтра и пишет протокол
// в файл <LOCATION>-<сегодня>.txt.
func (r *Regulator) RunLocation(ctx context.Context, l LocationConfig, now time.Time) error {
	name := planner.LocationOf(models.User{City: l.Location})
	tomorrow := now.AddDate(0, 0, 1).Format(models.DateLayout)

	floors, err := r.store.ListFloors(ctx, name)
	if err != nil {
		return fmt.Errorf("list floors: %w", err)
	}
	reservations, err := r.store.ListReservations(ctx, repository.ReservationFilter{
		Location: name,
		ActiveOn: tomorrow,
	})
	if err != nil {
		return fmt.Errorf("list reservations: %w", err)
	}

	reserved := make(map[int]bool, len(reservations))
	for _, res := range reservations {
		reserved[res.TableID] = true
	}

	ha := r.thermostats(l)
	states, statesErr := ha.States(ctx)
	if statesErr != nil {
		log.Printf("[REGULATOR] %s: states: %v", name, statesErr)
	}

	var protocol Protocol
	for _, floor := range floors {
		protocol.Floor(floor.Floor)
		for _, room := range floor.Structure.Rooms {
			target := l.EmptyTemp
			if len(reserved) == 0 || occupied(room, reserved) {
				target = l.DefaultTemp
			}

			protocol.Room(room.RoomName, room.Area)
			if statesErr != nil {
				protocol.Failed(statesErr)
			} else {
				r.regulateRoom(ctx, ha, homeassistant.Climate(states, EntityName(room.RoomName)), target, &protocol)
			}
			protocol.EndRoom()
		}
	}

	if err := r.protocols.Append(l.Location, now.Format(models.DateLayout), &protocol); err != nil {
		return err
	}
	log.Printf("[REGULATOR] %s: %d floors, %d reservations for %s", name, len(floors), len(reservations), tomorrow)
	return nil
}

func (r *Regulator) regulateRoom(ctx context.Context, ha Thermostats, entities []homeassistant.Entity, target float64, protocol *Protocol) {
	for _, e := range entities {
		current, ok := e.Temperature()
		if ok && current == target {
			protocol.Unchanged()
			continue
		}
		if err := ha.SetTemperature(ctx, e.EntityID, target); err != nil {
			log.Printf("[REGULATOR] %s: %v", e.EntityID, err)
			protocol.Failed(err)
			continue
		}
		protocol.Change(current, target)
	}
}

// EntityName - часть entity_id термостата комнаты: пробелы в _, нижний регистр.
func EntityName(roomName string) string {
	return strings.ToLower(strings.ReplaceAll(roomName, " ", "_"))
}

func occupied(room models.Room, reserved map[int]bool) bool {
	for _, t := range room.Tables {
		if reserved[t.TableID] {
			return true
		}
	}
	return false
}
