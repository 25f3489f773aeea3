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

type AgentRepo struct {
	db *gorm.DB
}

func NewAgentRepo(db *gorm.DB) AgentRepo {
	return AgentRepo{db: db}
}

func (r AgentRepo) Get(ctx context.Context, name string) (*colony.Agent, error) {
	var m model.Agent
	if err := conn(ctx, r.db).Where("name = ?", name).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return decodeAgent(m)
}

func (r AgentRepo) ListByColony(ctx context.Context, colonyName string) ([]*colony.Agent, error) {
	var rows []model.Agent
	if err := conn(ctx, r.db).
		Where("colony_name = ?", colonyName).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*colony.Agent, 0, len(rows))
	for _, m := range rows {
		a, err := decodeAgent(m)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r AgentRepo) SaveWithVersion(ctx context.Context, a *colony.Agent, expectedVersion int64) error {
	if err := a.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return err
	}
	db := conn(ctx, r.db)
	if expectedVersion == 0 {
		m := model.Agent{
			Name:       a.Name,
			ColonyName: a.Home,
			Role:       string(a.Role),
			Payload:    string(payload),
			Version:    a.Version,
			UpdatedAt:  time.Now().UTC(),
		}
		if err := db.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	res := db.Model(&model.Agent{}).
		Where("name = ? AND version = ?", a.Name, expectedVersion).
		Updates(map[string]any{
			"colony_name": a.Home,
			"role":        string(a.Role),
			"payload":     string(payload),
			"version":     a.Version,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r AgentRepo) Delete(ctx context.Context, name string) error {
	res := conn(ctx, r.db).Where("name = ?", name).Delete(&model.Agent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func decodeAgent(m model.Agent) (*colony.Agent, error) {
	var a colony.Agent
	if err := json.Unmarshal([]byte(m.Payload), &a); err != nil {
		return nil, err
	}
	a.Name = m.Name
	a.Version = m.Version
	return &a, nil
}
