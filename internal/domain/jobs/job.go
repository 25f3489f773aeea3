package jobs

import (
	"encoding/json"
	"errors"
	"fmt"

	"hivemind/internal/domain/world"
)

var (
	ErrUnknownCategory = errors.New("unknown job category")
	ErrDetailMismatch  = errors.New("job detail does not match category")
)

// Detail is the category specific part of a job. The set of implementations is
// closed: every switch over Detail lists all of them.
type Detail interface {
	isDetail()
}

type HarvestDetail struct {
	SourceID  string         `json:"source_id"`
	Pos       world.Position `json:"pos"`
	Seat      int            `json:"seat"`
	Container string         `json:"container,omitempty"`
}

type WithdrawDetail struct {
	StructureType world.StructureType `json:"structure_type"`
	Pos           world.Position      `json:"pos"`
	Amount        int                 `json:"amount"`
}

type PickupDetail struct {
	ResourceType string         `json:"resource_type"`
	Pos          world.Position `json:"pos"`
	Amount       int            `json:"amount"`
}

type BuildDetail struct {
	StructureType world.StructureType `json:"structure_type"`
	Pos           world.Position      `json:"pos"`
	Remaining     int                 `json:"remaining"`
}

type RepairDetail struct {
	StructureType world.StructureType `json:"structure_type"`
	Pos           world.Position      `json:"pos"`
	Hits          int                 `json:"hits"`
	HitsGoal      int                 `json:"hits_goal"`
}

type UpgradeDetail struct {
	Pos   world.Position `json:"pos"`
	Level int            `json:"level"`
}

type FillDetail struct {
	StructureType world.StructureType `json:"structure_type"`
	Pos           world.Position      `json:"pos"`
	Missing       int                 `json:"missing"`
}

type ControllerAction string

const (
	ControllerClaim   ControllerAction = "claim"
	ControllerReserve ControllerAction = "reserve"
	ControllerSign    ControllerAction = "sign"
)

type ControllerDetail struct {
	Action ControllerAction `json:"action"`
	Pos    world.Position   `json:"pos"`
}

type AttackDetail struct {
	FlagName  string `json:"flag_name"`
	SquadUUID string `json:"squad_uuid"`
}

func (HarvestDetail) isDetail()    {}
func (WithdrawDetail) isDetail()   {}
func (PickupDetail) isDetail()     {}
func (BuildDetail) isDetail()      {}
func (RepairDetail) isDetail()     {}
func (UpgradeDetail) isDetail()    {}
func (FillDetail) isDetail()       {}
func (ControllerDetail) isDetail() {}
func (AttackDetail) isDetail()     {}

type Job struct {
	ID       string
	Category Category
	Room     string
	TargetID string
	Taken    bool
	Detail   Detail
}

// Ref is the persisted pointer from an agent to its job.
type Ref struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
}

func (j Job) Ref() Ref {
	return Ref{ID: j.ID, Category: j.Category}
}

func MakeID(category Category, targetID string) string {
	return string(category) + ":" + targetID
}

// Target is where an agent has to be to work the job.
func (j Job) Target() world.Position {
	switch d := j.Detail.(type) {
	case HarvestDetail:
		return d.Pos
	case WithdrawDetail:
		return d.Pos
	case PickupDetail:
		return d.Pos
	case BuildDetail:
		return d.Pos
	case RepairDetail:
		return d.Pos
	case UpgradeDetail:
		return d.Pos
	case FillDetail:
		return d.Pos
	case ControllerDetail:
		return d.Pos
	case AttackDetail:
		return world.Position{Room: j.Room, X: 25, Y: 25}
	}
	return world.Position{Room: j.Room, X: 25, Y: 25}
}

// Reached reports whether an agent at p is close enough to work the job.
// Attack jobs target a whole room.
func (j Job) Reached(p world.Position) bool {
	if _, ok := j.Detail.(AttackDetail); ok {
		return p.Room == j.Room
	}
	if h, ok := j.Detail.(HarvestDetail); ok && h.Container != "" {
		// container miners stand on the container.
		return p == h.Pos
	}
	return p.InRange(j.Target(), j.Category.Range())
}

func (j Job) Validate() error {
	if j.ID == "" || j.Detail == nil {
		return ErrDetailMismatch
	}
	if !detailMatches(j.Category, j.Detail) {
		return fmt.Errorf("%w: %s carries %T", ErrDetailMismatch, j.Category, j.Detail)
	}
	return nil
}

func detailMatches(c Category, d Detail) bool {
	switch d.(type) {
	case HarvestDetail:
		return c == CategorySource
	case WithdrawDetail:
		return c == CategoryContainer || c == CategoryLink || c == CategoryBackup
	case PickupDetail:
		return c == CategoryPickup
	case BuildDetail:
		return c == CategoryBuild
	case RepairDetail:
		return c == CategoryRepair || c == CategoryWallRepair
	case UpgradeDetail:
		return c == CategoryUpgrade
	case FillDetail:
		return c == CategoryFill || c == CategoryStore
	case ControllerDetail:
		return c == CategoryClaim || c == CategoryReserve || c == CategorySign
	case AttackDetail:
		return c == CategoryAttack
	}
	return false
}

func newDetail(c Category) (Detail, error) {
	switch c {
	case CategorySource:
		return &HarvestDetail{}, nil
	case CategoryContainer, CategoryLink, CategoryBackup:
		return &WithdrawDetail{}, nil
	case CategoryPickup:
		return &PickupDetail{}, nil
	case CategoryBuild:
		return &BuildDetail{}, nil
	case CategoryRepair, CategoryWallRepair:
		return &RepairDetail{}, nil
	case CategoryUpgrade:
		return &UpgradeDetail{}, nil
	case CategoryFill, CategoryStore:
		return &FillDetail{}, nil
	case CategoryClaim, CategoryReserve, CategorySign:
		return &ControllerDetail{}, nil
	case CategoryAttack:
		return &AttackDetail{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
}

func deref(d Detail) Detail {
	switch v := d.(type) {
	case *HarvestDetail:
		return *v
	case *WithdrawDetail:
		return *v
	case *PickupDetail:
		return *v
	case *BuildDetail:
		return *v
	case *RepairDetail:
		return *v
	case *UpgradeDetail:
		return *v
	case *FillDetail:
		return *v
	case *ControllerDetail:
		return *v
	case *AttackDetail:
		return *v
	}
	return d
}

type jobJSON struct {
	ID       string          `json:"id"`
	Category Category        `json:"category"`
	Room     string          `json:"room"`
	TargetID string          `json:"target_id"`
	Taken    bool            `json:"taken"`
	Detail   json.RawMessage `json:"detail"`
}

func (j Job) MarshalJSON() ([]byte, error) {
	detail, err := json.Marshal(j.Detail)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jobJSON{
		ID:       j.ID,
		Category: j.Category,
		Room:     j.Room,
		TargetID: j.TargetID,
		Taken:    j.Taken,
		Detail:   detail,
	})
}

func (j *Job) UnmarshalJSON(data []byte) error {
	var raw jobJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := newDetail(raw.Category)
	if err != nil {
		return err
	}
	if len(raw.Detail) > 0 && string(raw.Detail) != "null" {
		if err := json.Unmarshal(raw.Detail, d); err != nil {
			return fmt.Errorf("decode %s detail: %w", raw.Category, err)
		}
	}
	*j = Job{
		ID:       raw.ID,
		Category: raw.Category,
		Room:     raw.Room,
		TargetID: raw.TargetID,
		Taken:    raw.Taken,
		Detail:   deref(d),
	}
	return nil
}
