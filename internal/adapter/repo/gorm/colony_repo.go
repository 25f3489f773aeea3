package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"hivemind/internal/adapter/repo/gorm/model"
	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"

	"gorm.io/gorm"
)

type ColonyRepo struct {
	db *gorm.DB
}

func NewColonyRepo(db *gorm.DB) ColonyRepo {
	return ColonyRepo{db: db}
}

func (r ColonyRepo) Get(ctx context.Context, name string) (*colony.Colony, error) {
	var m model.Colony
	if err := conn(ctx, r.db).Where("name = ?", name).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return decodeColony(m)
}

func (r ColonyRepo) List(ctx context.Context) ([]*colony.Colony, error) {
	var rows []model.Colony
	if err := conn(ctx, r.db).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*colony.Colony, 0, len(rows))
	for _, m := range rows {
		c, err := decodeColony(m)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r ColonyRepo) SaveWithVersion(ctx context.Context, c *colony.Colony, expectedVersion int64) error {
	if err := c.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	db := conn(ctx, r.db)
	if expectedVersion == 0 {
		m := model.Colony{
			Name:        c.Name,
			State:       c.State.String(),
			Defcon:      int32(c.Defcon),
			Payload:     string(payload),
			UpdatedTick: int64(c.UpdatedTick),
			Version:     c.Version,
			UpdatedAt:   time.Now().UTC(),
		}
		if err := db.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	res := db.Model(&model.Colony{}).
		Where("name = ? AND version = ?", c.Name, expectedVersion).
		Updates(map[string]any{
			"state":        c.State.String(),
			"defcon":       int32(c.Defcon),
			"payload":      string(payload),
			"updated_tick": int64(c.UpdatedTick),
			"version":      c.Version,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func decodeColony(m model.Colony) (*colony.Colony, error) {
	var c colony.Colony
	if err := json.Unmarshal([]byte(m.Payload), &c); err != nil {
		return nil, err
	}
	c.Name = m.Name
	c.Version = m.Version
	c.EnsureBoard()
	return &c, nil
}
