package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"hivemind/internal/app/ports"
	"hivemind/internal/domain/colony"
)

type ColonyRepo struct {
	db *sql.DB
}

func NewColonyRepo(db *sql.DB) ColonyRepo {
	return ColonyRepo{db: db}
}

func (r ColonyRepo) Get(ctx context.Context, name string) (*colony.Colony, error) {
	var payload string
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT payload FROM colonies WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeColony(payload)
}

func (r ColonyRepo) List(ctx context.Context) ([]*colony.Colony, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `SELECT payload FROM colonies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*colony.Colony
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		c, err := decodeColony(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r ColonyRepo) SaveWithVersion(ctx context.Context, c *colony.Colony, expectedVersion int64) error {
	if err := c.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	q := conn(ctx, r.db)
	if expectedVersion == 0 {
		res, err := q.ExecContext(ctx,
			`INSERT INTO colonies(name, state, payload, version) VALUES (?, ?, ?, ?) ON CONFLICT(name) DO NOTHING`,
			c.Name, c.State.String(), string(payload), c.Version)
		return conflictUnlessWritten(res, err)
	}
	res, err := q.ExecContext(ctx,
		`UPDATE colonies SET state = ?, payload = ?, version = ? WHERE name = ? AND version = ?`,
		c.State.String(), string(payload), c.Version, c.Name, expectedVersion)
	return conflictUnlessWritten(res, err)
}

type AgentRepo struct {
	db *sql.DB
}

func NewAgentRepo(db *sql.DB) AgentRepo {
	return AgentRepo{db: db}
}

func (r AgentRepo) Get(ctx context.Context, name string) (*colony.Agent, error) {
	var payload string
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT payload FROM agents WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var a colony.Agent
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r AgentRepo) ListByColony(ctx context.Context, colonyName string) ([]*colony.Agent, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `SELECT payload FROM agents WHERE colony_name = ? ORDER BY name`, colonyName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*colony.Agent
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var a colony.Agent
		if err := json.Unmarshal([]byte(payload), &a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r AgentRepo) SaveWithVersion(ctx context.Context, a *colony.Agent, expectedVersion int64) error {
	if err := a.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return err
	}
	q := conn(ctx, r.db)
	if expectedVersion == 0 {
		res, err := q.ExecContext(ctx,
			`INSERT INTO agents(name, colony_name, payload, version) VALUES (?, ?, ?, ?) ON CONFLICT(name) DO NOTHING`,
			a.Name, a.Home, string(payload), a.Version)
		return conflictUnlessWritten(res, err)
	}
	res, err := q.ExecContext(ctx,
		`UPDATE agents SET colony_name = ?, payload = ?, version = ? WHERE name = ? AND version = ?`,
		a.Home, string(payload), a.Version, a.Name, expectedVersion)
	return conflictUnlessWritten(res, err)
}

func (r AgentRepo) Delete(ctx context.Context, name string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM agents WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

type MarkerRepo struct {
	db *sql.DB
}

func NewMarkerRepo(db *sql.DB) MarkerRepo {
	return MarkerRepo{db: db}
}

func (r MarkerRepo) Get(ctx context.Context, name string) (colony.MarkerMemory, error) {
	var payload string
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT payload FROM markers WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return colony.MarkerMemory{}, ports.ErrNotFound
	}
	if err != nil {
		return colony.MarkerMemory{}, err
	}
	var m colony.MarkerMemory
	err = json.Unmarshal([]byte(payload), &m)
	return m, err
}

func (r MarkerRepo) List(ctx context.Context) ([]colony.MarkerMemory, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `SELECT payload FROM markers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []colony.MarkerMemory
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var m colony.MarkerMemory
		if err := json.Unmarshal([]byte(payload), &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r MarkerRepo) Save(ctx context.Context, m colony.MarkerMemory) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO markers(name, payload) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET payload = excluded.payload`,
		m.Name, string(payload))
	return err
}

func (r MarkerRepo) Delete(ctx context.Context, name string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM markers WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func decodeColony(payload string) (*colony.Colony, error) {
	var c colony.Colony
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return nil, err
	}
	c.EnsureBoard()
	return &c, nil
}

func conflictUnlessWritten(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrConflict
	}
	return nil
}
