package layout

// Config holds every tunable of the simulation. Zero fields are replaced by
// their defaults in [Config.WithDefaults].
type Config struct {
	// CenterForce pulls nodes toward the vertical axis, per unit of X/Z offset.
	CenterForce float64 `toml:"center_force" json:"center_force" bson:"center_force" validate:"gte=0"`
	// Repulsion is the pairwise push coefficient.
	Repulsion float64 `toml:"repulsion" json:"repulsion" bson:"repulsion" validate:"gte=0"`
	// Attraction scales every edge spring.
	Attraction float64 `toml:"attraction" json:"attraction" bson:"attraction" validate:"gte=0"`
	// GenerationSpacing is the world distance between generation layers.
	GenerationSpacing float64 `toml:"generation_spacing" json:"generation_spacing" bson:"generation_spacing" validate:"gt=0"`
	// Damping is reserved; integration does not read it.
	Damping float64 `toml:"damping" json:"damping" bson:"damping" validate:"gte=0,lte=1"`
	// Iterations is the number of simulation steps.
	Iterations int `toml:"iterations" json:"iterations" bson:"iterations" validate:"gte=0,lte=100000"`

	Theta              float64 `toml:"theta" json:"theta" bson:"theta" validate:"gte=0"`
	Softening          float64 `toml:"softening" json:"softening" bson:"softening" validate:"gt=0"`
	BarnesHutThreshold int     `toml:"barnes_hut_threshold" json:"barnes_hut_threshold" bson:"barnes_hut_threshold" validate:"gte=0"`
	LayerPull          float64 `toml:"layer_pull" json:"layer_pull" bson:"layer_pull" validate:"gte=0"`
	BoundsPadding      float64 `toml:"bounds_padding" json:"bounds_padding" bson:"bounds_padding" validate:"gte=0"`
	JitterXZ           float64 `toml:"jitter_xz" json:"jitter_xz" bson:"jitter_xz" validate:"gte=0"`
	JitterY            float64 `toml:"jitter_y" json:"jitter_y" bson:"jitter_y" validate:"gte=0"`
	// CoolingFloor is the temperature reached on the last step. The schedule
	// is 1 - (1-CoolingFloor)*step/Iterations.
	CoolingFloor float64 `toml:"cooling_floor" json:"cooling_floor" bson:"cooling_floor" validate:"gte=0,lte=1"`
}

// Default simulation parameters.
const (
	DefaultCenterForce        = 0.01
	DefaultRepulsion          = 1000
	DefaultAttraction         = 0.05
	DefaultGenerationSpacing  = 60
	DefaultDamping            = 0.9
	DefaultIterations         = 300
	DefaultTheta              = 0.7
	DefaultSoftening          = 0.1
	DefaultBarnesHutThreshold = 100
	DefaultLayerPull          = 0.1
	DefaultBoundsPadding      = 10
	DefaultJitterXZ           = 5
	DefaultJitterY            = 10
	DefaultCoolingFloor       = 0.2
)

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		CenterForce:        DefaultCenterForce,
		Repulsion:          DefaultRepulsion,
		Attraction:         DefaultAttraction,
		GenerationSpacing:  DefaultGenerationSpacing,
		Damping:            DefaultDamping,
		Iterations:         DefaultIterations,
		Theta:              DefaultTheta,
		Softening:          DefaultSoftening,
		BarnesHutThreshold: DefaultBarnesHutThreshold,
		LayerPull:          DefaultLayerPull,
		BoundsPadding:      DefaultBoundsPadding,
		JitterXZ:           DefaultJitterXZ,
		JitterY:            DefaultJitterY,
		CoolingFloor:       DefaultCoolingFloor,
	}
}

// WithDefaults returns a copy of c with every zero field set to its default.
// Explicit zero iterations therefore cannot be expressed through Config;
// callers wanting an unsimulated layout use [Solver.Place].
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	setDefault(&c.CenterForce, d.CenterForce)
	setDefault(&c.Repulsion, d.Repulsion)
	setDefault(&c.Attraction, d.Attraction)
	setDefault(&c.GenerationSpacing, d.GenerationSpacing)
	setDefault(&c.Damping, d.Damping)
	setDefault(&c.Iterations, d.Iterations)
	setDefault(&c.Theta, d.Theta)
	setDefault(&c.Softening, d.Softening)
	setDefault(&c.BarnesHutThreshold, d.BarnesHutThreshold)
	setDefault(&c.LayerPull, d.LayerPull)
	setDefault(&c.BoundsPadding, d.BoundsPadding)
	setDefault(&c.JitterXZ, d.JitterXZ)
	setDefault(&c.JitterY, d.JitterY)
	setDefault(&c.CoolingFloor, d.CoolingFloor)
	return c
}

func setDefault[T int | float64](field *T, def T) {
	if *field == 0 {
		*field = def
	}
}
