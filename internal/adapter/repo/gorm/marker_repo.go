package gormrepo

import (
	"context"
	"errors"
	"strings"

	"hivemind/internal/adapter/repo/gorm/model"
	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MarkerRepo struct {
	db *gorm.DB
}

func NewMarkerRepo(db *gorm.DB) MarkerRepo {
	return MarkerRepo{db: db}
}

func (r MarkerRepo) Get(ctx context.Context, name string) (colony.MarkerMemory, error) {
	var m model.Marker
	if err := conn(ctx, r.db).Where("name = ?", name).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return colony.MarkerMemory{}, ports.ErrNotFound
		}
		return colony.MarkerMemory{}, err
	}
	return toMarkerMemory(m), nil
}

func (r MarkerRepo) List(ctx context.Context) ([]colony.MarkerMemory, error) {
	var rows []model.Marker
	if err := conn(ctx, r.db).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]colony.MarkerMemory, 0, len(rows))
	for _, m := range rows {
		out = append(out, toMarkerMemory(m))
	}
	return out, nil
}

func (r MarkerRepo) Save(ctx context.Context, mem colony.MarkerMemory) error {
	row := model.Marker{
		Name:       mem.Name,
		Room:       mem.Room,
		Kind:       string(mem.Kind),
		ColonyName: mem.Colony,
		Processed:  mem.Processed,
		Complete:   mem.Complete,
		PlacedTick: int64(mem.PlacedTick),
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"room", "kind", "colony_name", "processed", "complete", "placed_tick"}),
	}).Create(&row).Error
}

func (r MarkerRepo) Delete(ctx context.Context, name string) error {
	res := conn(ctx, r.db).Where("name = ?", name).Delete(&model.Marker{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func toMarkerMemory(m model.Marker) colony.MarkerMemory {
	return colony.MarkerMemory{
		Name:       m.Name,
		Room:       m.Room,
		Kind:       colony.MarkerKind(m.Kind),
		Colony:     m.ColonyName,
		Processed:  m.Processed,
		Complete:   m.Complete,
		PlacedTick: uint64(m.PlacedTick),
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
