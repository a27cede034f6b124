// Package config provides configuration loading and access for the simulation.
package config

import (
	"embed"
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed presets/*.yaml
var presetFS embed.FS

// Render strategy names.
const (
	StrategyThreshold = "threshold"
	StrategyContour   = "contour"
)

// Radius drift modes.
const (
	RadiusThermal = "thermal"
	RadiusDrift   = "drift"
)

// Field sampling modes.
const (
	SampleNearest  = "nearest"
	SampleBilinear = "bilinear"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Preset     string           `yaml:"preset"`
	Display    DisplayConfig    `yaml:"display"`
	Simulation SimulationConfig `yaml:"simulation"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Forces     ForcesConfig     `yaml:"forces"`
	Spatial    SpatialConfig    `yaml:"spatial"`
	Field      FieldConfig      `yaml:"field"`
	Render     RenderConfig     `yaml:"render"`
	Input      InputConfig      `yaml:"input"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// DisplayConfig holds the logical frame size and host-window scaling.
type DisplayConfig struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	WindowScale int `yaml:"window_scale"` // Host pixels per gadget pixel (window backend)
	TargetFPS   int `yaml:"target_fps"`
}

// SimulationConfig holds tick cadence parameters.
type SimulationConfig struct {
	DT            float64 `yaml:"dt"`             // Fixed physics step in seconds
	FrameInterval float64 `yaml:"frame_interval"` // Seconds between renders
	MaxCatchup    int     `yaml:"max_catchup"`    // Max physics ticks per update call
	Seed          int64   `yaml:"seed"`           // 0 = time-based
}

// ParticlesConfig holds population and spawn parameters.
type ParticlesConfig struct {
	Count          int     `yaml:"count"`
	Capacity       int     `yaml:"capacity"`
	MinRadius      float64 `yaml:"min_radius"`
	MaxRadius      float64 `yaml:"max_radius"`
	SpawnMinRadius float64 `yaml:"spawn_min_radius"`
	SpawnMaxRadius float64 `yaml:"spawn_max_radius"`
	SpawnRegion    Region  `yaml:"spawn_region"`
	InitSpeedMin   float64 `yaml:"init_speed_min"` // Velocity component floor (sign kept)
	InitSpeedMax   float64 `yaml:"init_speed_max"`
	InitTempOffset float64 `yaml:"init_temp_offset"` // Spawn temp relative to ambient

	RadiusMode        string  `yaml:"radius_mode"` // thermal | drift
	DriftMin          float64 `yaml:"drift_min"`
	DriftMax          float64 `yaml:"drift_max"`
	RadiusThermalRate float64 `yaml:"radius_thermal_rate"`
	RadiusThermalGain float64 `yaml:"radius_thermal_gain"`
	RadiusMinScale    float64 `yaml:"radius_min_scale"`
}

// Region is an axis-aligned rectangle in frame pixels.
type Region struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

// ForcesConfig holds force constants and boundary response.
type ForcesConfig struct {
	Gravity             float64 `yaml:"gravity"`
	Buoyancy            float64 `yaml:"buoyancy"`
	FieldLift           float64 `yaml:"field_lift"` // Force per degree of local field excess over ambient
	Cohesion            float64 `yaml:"cohesion"`
	RestDistanceFactor  float64 `yaml:"rest_distance_factor"`
	Viscosity           float64 `yaml:"viscosity"`
	InfluenceMultiplier float64 `yaml:"influence_multiplier"`
	SideForce           float64 `yaml:"side_force"`
	SideFrequency       float64 `yaml:"side_frequency"` // Radians per simulated second
	Restitution         float64 `yaml:"restitution"`
	FloorRestitution    float64 `yaml:"floor_restitution"`
	FloorHeat           float64 `yaml:"floor_heat"`
	TempRelax           float64 `yaml:"temp_relax"`
	Epsilon             float64 `yaml:"epsilon"`
}

// SpatialConfig holds uniform grid parameters.
type SpatialConfig struct {
	CellSize     float64 `yaml:"cell_size"`
	MaxPerCell   int     `yaml:"max_per_cell"`
	MaxNeighbors int     `yaml:"max_neighbors"`
	Margin       float64 `yaml:"margin"` // Added to squared query distance
}

// FieldConfig holds thermal field parameters.
type FieldConfig struct {
	Enabled            bool    `yaml:"enabled"`
	Width              int     `yaml:"width"`
	Height             int     `yaml:"height"`
	Sampling           string  `yaml:"sampling"` // nearest | bilinear
	Ambient            float64 `yaml:"ambient"`
	Source             float64 `yaml:"source"`
	BandValue          float64 `yaml:"band_value"`
	SourceRows         int     `yaml:"source_rows"`
	BandRows           int     `yaml:"band_rows"`
	SourceRate         float64 `yaml:"source_rate"`
	BandRate           float64 `yaml:"band_rate"`
	AmbientRate        float64 `yaml:"ambient_rate"`
	Diffusion          float64 `yaml:"diffusion"`
	Exchange           float64 `yaml:"exchange"`
	ExchangeFieldShare float64 `yaml:"exchange_field_share"`
	PerturbChance      float64 `yaml:"perturb_chance"`
	PerturbMin         float64 `yaml:"perturb_min"`
	PerturbMax         float64 `yaml:"perturb_max"`
	PerturbRows        int     `yaml:"perturb_rows"`
}

// RenderConfig holds field renderer parameters.
type RenderConfig struct {
	Strategy     string  `yaml:"strategy"` // threshold | contour
	Threshold    float64 `yaml:"threshold"`
	GlowFraction float64 `yaml:"glow_fraction"`
	Scale        float64 `yaml:"scale"`
	Epsilon      float64 `yaml:"epsilon"`
	Cutoff       float64 `yaml:"cutoff"` // Influence cutoff in radii (0 = unbounded)
	Stride       int     `yaml:"stride"`
	Border       bool    `yaml:"border"`
	Trails       bool    `yaml:"trails"`
}

// InputConfig holds reset trigger parameters.
type InputConfig struct {
	TapTime    float64 `yaml:"tap_time"`    // Debounce time in seconds
	ResetEvery float64 `yaml:"reset_every"` // Auto reseed interval in seconds (0 = off)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32 // Simulation.DT as float32
	Width32      float32 // Display.Width as float32
	Height32     float32 // Display.Height as float32
	FieldLo      float32 // Lowest value a field cell may take
	FieldHi      float32 // Highest value a field cell may take
	TicksPerDraw int     // Frame interval expressed in physics ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// InitPreset is like Init but layers a named preset between the defaults
// and the file at path.
func InitPreset(preset, path string) error {
	cfg, err := LoadPreset(preset, path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	return LoadPreset("", path)
}

// LoadPreset layers embedded defaults, the named preset and the file at path,
// in that order. Empty preset or path skips that layer.
func LoadPreset(preset, path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if preset != "" {
		data, err := presetFS.ReadFile(presetPath(preset))
		if err != nil {
			return nil, fmt.Errorf("unknown preset %q: %w", preset, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing preset %q: %w", preset, err)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Presets lists the embedded preset names.
func Presets() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		names = append(names, name[:len(name)-len(path.Ext(name))])
	}
	return names
}

func presetPath(name string) string {
	return path.Join("presets", name+".yaml")
}

// Validate checks values the simulation cannot clamp its way out of.
func (c *Config) Validate() error {
	switch {
	case c.Display.Width <= 0 || c.Display.Height <= 0:
		return fmt.Errorf("display: size must be positive, got %dx%d", c.Display.Width, c.Display.Height)
	case c.Simulation.DT <= 0:
		return fmt.Errorf("simulation.dt must be positive, got %v", c.Simulation.DT)
	case c.Particles.Count < 0:
		return fmt.Errorf("particles.count must not be negative, got %d", c.Particles.Count)
	case c.Particles.Capacity < c.Particles.Count:
		return fmt.Errorf("particles.capacity %d is below particles.count %d", c.Particles.Capacity, c.Particles.Count)
	case c.Particles.MinRadius <= 0 || c.Particles.MaxRadius < c.Particles.MinRadius:
		return fmt.Errorf("particles: invalid radius bounds [%v, %v]", c.Particles.MinRadius, c.Particles.MaxRadius)
	case c.Particles.RadiusMode != RadiusThermal && c.Particles.RadiusMode != RadiusDrift:
		return fmt.Errorf("particles.radius_mode: unknown mode %q", c.Particles.RadiusMode)
	case c.Spatial.CellSize <= 0:
		return fmt.Errorf("spatial.cell_size must be positive, got %v", c.Spatial.CellSize)
	case c.Spatial.MaxPerCell <= 0 || c.Spatial.MaxNeighbors <= 0:
		return fmt.Errorf("spatial: max_per_cell and max_neighbors must be positive")
	case c.Field.Width <= 0 || c.Field.Height <= 0:
		return fmt.Errorf("field: grid size must be positive, got %dx%d", c.Field.Width, c.Field.Height)
	case c.Field.Diffusion <= 0 || c.Field.Diffusion >= 1:
		return fmt.Errorf("field.diffusion must be in (0,1), got %v", c.Field.Diffusion)
	case c.Field.Sampling != SampleNearest && c.Field.Sampling != SampleBilinear:
		return fmt.Errorf("field.sampling: unknown mode %q", c.Field.Sampling)
	case c.Render.Strategy != StrategyThreshold && c.Render.Strategy != StrategyContour:
		return fmt.Errorf("render.strategy: unknown strategy %q", c.Render.Strategy)
	case c.Render.Stride <= 0:
		return fmt.Errorf("render.stride must be positive, got %d", c.Render.Stride)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Simulation.DT)
	c.Derived.Width32 = float32(c.Display.Width)
	c.Derived.Height32 = float32(c.Display.Height)

	lo, hi := c.Field.Ambient, c.Field.Ambient
	for _, v := range []float64{c.Field.Source, c.Field.BandValue} {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	c.Derived.FieldLo = float32(lo)
	c.Derived.FieldHi = float32(hi)

	ticks := int(c.Simulation.FrameInterval/c.Simulation.DT + 0.5)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.TicksPerDraw = ticks
}

// Clone returns a deep copy, so callers can tweak values without touching
// the global config.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Recompute refreshes derived values after fields were changed in code.
func (c *Config) Recompute() {
	c.computeDerived()
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
