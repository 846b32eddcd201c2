package spatialq

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spatialq/spatialq/geom"
)

type UpdateModeKind int

const (
	// Leaves cover the colliders where they are now.
	ModeCurrentPosition UpdateModeKind = iota
	// Leaves also cover the position predicted from the body velocity.
	ModeSweepPredictedPosition
	// Leaves also cover the body's next position.
	ModeSweepNextPosition
)

func (k UpdateModeKind) String() string {
	switch k {
	case ModeCurrentPosition:
		return "current_position"
	case ModeSweepPredictedPosition:
		return "sweep_predicted_position"
	case ModeSweepNextPosition:
		return "sweep_next_position"
	}
	return fmt.Sprintf("UpdateModeKind(%d)", int(k))
}

func (k UpdateModeKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *UpdateModeKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "", "current_position":
		*k = ModeCurrentPosition
	case "sweep_predicted_position":
		*k = ModeSweepPredictedPosition
	case "sweep_next_position":
		*k = ModeSweepNextPosition
	default:
		return fmt.Errorf("line %d: unknown update mode %q", value.Line, s)
	}
	return nil
}

// UpdateMode selects which poses the broad phase boxes cover.
type UpdateMode struct {
	Kind UpdateModeKind
	// Prediction horizon of ModeSweepPredictedPosition.
	DT float64
}

func CurrentPosition() UpdateMode {
	return UpdateMode{Kind: ModeCurrentPosition}
}

func SweepTestWithPredictedPosition(dt float64) UpdateMode {
	return UpdateMode{Kind: ModeSweepPredictedPosition, DT: dt}
}

func SweepTestWithNextPosition() UpdateMode {
	return UpdateMode{Kind: ModeSweepNextPosition}
}

// Config tunes a QueryPipeline.
type Config struct {
	Mode         UpdateModeKind  `yaml:"mode"`
	PredictionDT float64         `yaml:"prediction_dt"`
	Fattening    float64         `yaml:"fattening"`
	Tolerances   geom.Tolerances `yaml:"tolerances"`
}

func DefaultConfig() Config {
	return Config{
		Mode:         ModeCurrentPosition,
		PredictionDT: 1.0 / 60.0,
		Fattening:    DefaultFattening,
		Tolerances:   geom.DefaultTolerances(),
	}
}

func (c Config) UpdateMode() UpdateMode {
	return UpdateMode{Kind: c.Mode, DT: c.PredictionDT}
}

// LoadConfig reads a YAML config. Missing keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("spatialq: read config %q: %w", path, err)
	}
	return ParseConfig(b)
}

func ParseConfig(b []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("spatialq: parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Fattening < 0 {
		return fmt.Errorf("spatialq: fattening must not be negative, got %v", c.Fattening)
	}
	if c.Mode == ModeSweepPredictedPosition && c.PredictionDT <= 0 {
		return fmt.Errorf("spatialq: prediction_dt must be positive, got %v", c.PredictionDT)
	}
	return nil
}
