package world

import "errors"

type StructureType string

const (
	StructureSpawn      StructureType = "spawn"
	StructureExtension  StructureType = "extension"
	StructureRoad       StructureType = "road"
	StructureWall       StructureType = "constructedWall"
	StructureRampart    StructureType = "rampart"
	StructureLink       StructureType = "link"
	StructureStorage    StructureType = "storage"
	StructureTower      StructureType = "tower"
	StructureContainer  StructureType = "container"
	StructureTerminal   StructureType = "terminal"
	StructureLab        StructureType = "lab"
	StructureController StructureType = "controller"
	StructureNuker      StructureType = "nuker"
)

type Structure struct {
	ID             string        `json:"id" yaml:"id"`
	Type           StructureType `json:"type" yaml:"type"`
	Pos            Position      `json:"pos" yaml:"pos"`
	Hits           int           `json:"hits" yaml:"hits"`
	HitsMax        int           `json:"hits_max" yaml:"hits_max"`
	Energy         int           `json:"energy" yaml:"energy"`
	EnergyCapacity int           `json:"energy_capacity" yaml:"energy_capacity"`
	My             bool          `json:"my" yaml:"my"`
}

func (s Structure) FreeCapacity() int {
	return max(0, s.EnergyCapacity-s.Energy)
}

func (s Structure) IsDefense() bool {
	return s.Type == StructureWall || s.Type == StructureRampart
}

type Source struct {
	ID             string   `json:"id" yaml:"id"`
	Pos            Position `json:"pos" yaml:"pos"`
	Energy         int      `json:"energy" yaml:"energy"`
	EnergyCapacity int      `json:"energy_capacity" yaml:"energy_capacity"`
	AccessTiles    int      `json:"access_tiles" yaml:"access_tiles"`
}

type BodyPart string

const (
	PartMove         BodyPart = "move"
	PartWork         BodyPart = "work"
	PartCarry        BodyPart = "carry"
	PartAttack       BodyPart = "attack"
	PartRangedAttack BodyPart = "ranged_attack"
	PartHeal         BodyPart = "heal"
	PartClaim        BodyPart = "claim"
	PartTough        BodyPart = "tough"
)

func (p BodyPart) IsCombat() bool {
	return p == PartAttack || p == PartRangedAttack || p == PartHeal
}

type Creep struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	Owner         string     `json:"owner" yaml:"owner"`
	My            bool       `json:"my" yaml:"my"`
	Pos           Position   `json:"pos" yaml:"pos"`
	Hits          int        `json:"hits" yaml:"hits"`
	HitsMax       int        `json:"hits_max" yaml:"hits_max"`
	TicksToLive   int        `json:"ticks_to_live" yaml:"ticks_to_live"`
	Body          []BodyPart `json:"body" yaml:"body"`
	Carry         int        `json:"carry" yaml:"carry"`
	CarryCapacity int        `json:"carry_capacity" yaml:"carry_capacity"`
	Spawning      bool       `json:"spawning" yaml:"spawning"`
}

func (c Creep) BodySize() int {
	return len(c.Body)
}

func (c Creep) ActiveParts(part BodyPart) int {
	n := 0
	for _, p := range c.Body {
		if p == part {
			n++
		}
	}
	return n
}

func (c Creep) CombatParts() int {
	n := 0
	for _, p := range c.Body {
		if p.IsCombat() {
			n++
		}
	}
	return n
}

func (c Creep) IsEmpty() bool {
	return c.Carry <= 0
}

func (c Creep) IsFull() bool {
	return c.CarryCapacity > 0 && c.Carry >= c.CarryCapacity
}

func (c Creep) IsDamaged() bool {
	return c.Hits < c.HitsMax
}

type ConstructionSite struct {
	ID            string        `json:"id" yaml:"id"`
	Type          StructureType `json:"type" yaml:"type"`
	Pos           Position      `json:"pos" yaml:"pos"`
	Progress      int           `json:"progress" yaml:"progress"`
	ProgressTotal int           `json:"progress_total" yaml:"progress_total"`
}

type DroppedResource struct {
	ID           string   `json:"id" yaml:"id"`
	Pos          Position `json:"pos" yaml:"pos"`
	ResourceType string   `json:"resource_type" yaml:"resource_type"`
	Amount       int      `json:"amount" yaml:"amount"`
}

const ResourceEnergy = "energy"

type Controller struct {
	ID               string   `json:"id" yaml:"id"`
	Pos              Position `json:"pos" yaml:"pos"`
	Level            int      `json:"level" yaml:"level"`
	My               bool     `json:"my" yaml:"my"`
	Owner            string   `json:"owner" yaml:"owner"`
	ReservedBy       string   `json:"reserved_by" yaml:"reserved_by"`
	ReservationTicks int      `json:"reservation_ticks" yaml:"reservation_ticks"`
	SignedBy         string   `json:"signed_by" yaml:"signed_by"`
}

type Nuke struct {
	ID         string   `json:"id" yaml:"id"`
	Pos        Position `json:"pos" yaml:"pos"`
	TimeToLand int      `json:"time_to_land" yaml:"time_to_land"`
}

type Color int

const (
	ColorRed Color = iota + 1
	ColorPurple
	ColorBlue
	ColorCyan
	ColorGreen
	ColorYellow
	ColorOrange
	ColorBrown
	ColorGrey
	ColorWhite
)

type Marker struct {
	Name           string   `json:"name" yaml:"name"`
	Pos            Position `json:"pos" yaml:"pos"`
	Color          Color    `json:"color" yaml:"color"`
	SecondaryColor Color    `json:"secondary_color" yaml:"secondary_color"`
}

type RoomInfo struct {
	Name            string      `json:"name" yaml:"name"`
	Controller      *Controller `json:"controller,omitempty" yaml:"controller"`
	EnergyAvailable int         `json:"energy_available" yaml:"energy_available"`
	EnergyCapacity  int         `json:"energy_capacity" yaml:"energy_capacity"`
	Nukes           []Nuke      `json:"nukes,omitempty" yaml:"nukes"`
}

func (r RoomInfo) ControllerLevel() int {
	if r.Controller == nil {
		return 0
	}
	return r.Controller.Level
}

var ErrInvalidEntity = errors.New("invalid world entity")

func (s Structure) Validate() error {
	if s.ID == "" || s.Type == "" || s.Hits < 0 || s.Energy < 0 {
		return ErrInvalidEntity
	}
	return nil
}

func (c Creep) Validate() error {
	if c.Name == "" && c.ID == "" {
		return ErrInvalidEntity
	}
	if c.Hits < 0 || c.Carry < 0 {
		return ErrInvalidEntity
	}
	return nil
}
