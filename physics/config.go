package physics

// Config holds the tunables of a physics world. Zero-valued FixedStep and
// MaxQueryResults fall back to defaults; Gravity is taken as given.
type Config struct {
	Gravity         float64 `yaml:"gravity"`
	Debug           bool    `yaml:"debug"`
	FixedStep       float64 `yaml:"fixed_step"`
	MaxQueryResults int     `yaml:"max_query_results"`
	StrictShapes    bool    `yaml:"strict_shapes"`
	CollisionEvents bool    `yaml:"collision_events"`
}

const (
	DefaultGravity         = 9.81
	DefaultFixedStep       = 1.0 / 60.0
	DefaultMaxQueryResults = 64
)

func DefaultConfig() Config {
	return Config{
		Gravity:         DefaultGravity,
		FixedStep:       DefaultFixedStep,
		MaxQueryResults: DefaultMaxQueryResults,
	}
}

func (c Config) normalized() Config {
	if c.FixedStep <= 0 {
		c.FixedStep = DefaultFixedStep
	}
	if c.MaxQueryResults <= 0 {
		c.MaxQueryResults = DefaultMaxQueryResults
	}
	return c
}
