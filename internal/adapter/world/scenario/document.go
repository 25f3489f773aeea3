package scenario

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"hivemind/internal/domain/world"
)

//go:embed scenario.schema.json
var schemaText string

var ErrInvalidScenario = errors.New("invalid scenario")

// Document is a scenario file: the starting world plus scripted events.
type Document struct {
	Username string         `yaml:"username" json:"username"`
	Owned    []string       `yaml:"owned" json:"owned"`
	Rooms    []RoomDoc      `yaml:"rooms" json:"rooms"`
	Markers  []world.Marker `yaml:"markers" json:"markers"`
	Events   []Event        `yaml:"events" json:"events"`
}

type RoomDoc struct {
	Name           string                   `yaml:"name" json:"name"`
	Controller     *world.Controller        `yaml:"controller" json:"controller"`
	EnergyCapacity int                      `yaml:"energy_capacity" json:"energy_capacity"`
	Nukes          []world.Nuke             `yaml:"nukes" json:"nukes"`
	Structures     []world.Structure        `yaml:"structures" json:"structures"`
	Sources        []world.Source           `yaml:"sources" json:"sources"`
	Creeps         []world.Creep            `yaml:"creeps" json:"creeps"`
	Sites          []world.ConstructionSite `yaml:"sites" json:"sites"`
	Dropped        []world.DroppedResource  `yaml:"dropped" json:"dropped"`
}

// Event changes the world when the simulation reaches Tick.
type Event struct {
	Tick       uint64                   `yaml:"tick" json:"tick"`
	AddCreeps  []world.Creep            `yaml:"add_creeps" json:"add_creeps"`
	AddMarkers []world.Marker           `yaml:"add_markers" json:"add_markers"`
	AddSites   []world.ConstructionSite `yaml:"add_sites" json:"add_sites"`
	Remove     []string                 `yaml:"remove" json:"remove"`
}

func Load(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	doc, err := Parse(raw)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse validates a yaml scenario against the embedded schema and decodes it.
func Parse(raw []byte) (Document, error) {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	// Round trip through JSON so the validator sees JSON value types.
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	var instance any
	if err := json.Unmarshal(asJSON, &instance); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	schema, err := jsonschema.CompileString("scenario.schema.json", schemaText)
	if err != nil {
		return Document{}, err
	}
	if err := schema.Validate(instance); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return doc, nil
}
