package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Presets maps scenario names to constructors. Each call builds a fresh
// Config so runs never share bodies.
var Presets = map[string]func() *Config{
	"circular_binary":  CircularBinary,
	"eccentric_binary": EccentricBinary,
	"planet_moon":      PlanetMoon,
	"figure_eight":     FigureEight,
	"lagrange_l1":      LagrangeL1,
	"lagrange_l2_l3":   LagrangeL2L3,
	"lagrange_l4_l5":   LagrangeL4L5,
	"restricted_l4":    RestrictedL4,
	"sun_earth":        SunEarth,
}

// CircularBinary is two equal masses on a circular orbit with period π.
func CircularBinary() *Config {
	return &Config{
		Name:        "circular_binary",
		Description: "equal-mass circular binary, period pi",
		Integrator:  "euler",
		Frame:       "inertial",
		G:           physics.GDimensionless,
		Dt:          0.0001,
		Steps:       230000,
		Bodies: []BodyConfig{
			Body(2, [3]float64{0, 0, 0}, [3]float64{-1, 0, 0}),
			Body(2, [3]float64{0, 1, 0}, [3]float64{1, 0, 0}),
		},
	}
}

func EccentricBinary() *Config {
	return &Config{
		Name:        "eccentric_binary",
		Description: "equal-mass binary launched above circular speed",
		Integrator:  "euler",
		Frame:       "inertial",
		G:           physics.GDimensionless,
		Dt:          0.0001,
		Steps:       300000,
		Bodies: []BodyConfig{
			Body(2, [3]float64{0, 0, 0}, [3]float64{-1, 0, 0}),
			Body(2, [3]float64{0, 0.75, 0}, [3]float64{2, 0, 0}),
		},
	}
}

// PlanetMoon is a heavy primary with a light satellite at unit distance.
func PlanetMoon() *Config {
	return &Config{
		Name:        "planet_moon",
		Description: "light satellite around a heavy primary",
		Integrator:  "euler",
		Frame:       "inertial",
		G:           physics.GDimensionless,
		Dt:          0.0001,
		Steps:       54000,
		Bodies: []BodyConfig{
			Body(2, [3]float64{0, 0, 0}, [3]float64{-0.03, 0, 0}),
			Body(0.002, [3]float64{0, 1, 0}, [3]float64{1, 0, 0}),
		},
	}
}

// FigureEight is the Chenciner-Montgomery three-body choreography.
func FigureEight() *Config {
	return &Config{
		Name:        "figure_eight",
		Description: "three equal masses on the figure-eight choreography",
		Integrator:  "euler",
		Frame:       "inertial",
		G:           physics.GDimensionless,
		Dt:          0.0001,
		Steps:       50000,
		Bodies: []BodyConfig{
			Body(1, [3]float64{-0.97000436, 0.24308753, 0}, [3]float64{0.466203685, 0.43236573, 0}),
			Body(1, [3]float64{0, 0, 0}, [3]float64{-0.93240737, -0.86473146, 0}),
			Body(1, [3]float64{0.97000436, -0.24308753, 0}, [3]float64{0.466203685, 0.43236573, 0}),
		},
	}
}

func LagrangeL1() *Config {
	return &Config{
		Name:        "lagrange_l1",
		Description: "light body between two equal primaries, rotating frame",
		Integrator:  "leapfrog",
		Frame:       "rotating",
		G:           physics.GDimensionless,
		Dt:          0.0001,
		Steps:       50000,
		Bodies: []BodyConfig{
			Body(50, [3]float64{-1, 0, 0}, [3]float64{0, 3.8, 0}),
			Body(50, [3]float64{1, 0, 0}, [3]float64{0, -3.8, 0}),
			Body(2, [3]float64{0, 0, 0}, [3]float64{0, 0, 0}),
		},
	}
}

func LagrangeL2L3() *Config {
	return &Config{
		Name:        "lagrange_l2_l3",
		Description: "test mass just outside one primary, rotating frame",
		Integrator:  "leapfrog",
		Frame:       "rotating",
		G:           physics.GDimensionless,
		Dt:          0.0001,
		Steps:       50000,
		Bodies: []BodyConfig{
			Body(2, [3]float64{0, -0.5, 0}, [3]float64{-1, 0, 0}),
			Body(2, [3]float64{0, 0.5, 0}, [3]float64{1, 0, 0}),
			Body(0.01, [3]float64{0, -0.5992, 0}, [3]float64{1.1984, 0, 0}),
		},
	}
}

func LagrangeL4L5() *Config {
	return &Config{
		Name:                    "lagrange_l4_l5",
		Description:             "test mass near the leading triangular point, rotating frame",
		Integrator:              "leapfrog",
		Frame:                   "rotating",
		G:                       physics.GDimensionless,
		Dt:                      0.0001,
		Steps:                   50000,
		RotateInitialVelocities: true,
		Bodies: []BodyConfig{
			Body(25, [3]float64{0, 0, 0}, [3]float64{0, 0, 0}),
			Body(1, [3]float64{1, 0, 0}, [3]float64{0, 5.099, 0}),
			Body(0.01, [3]float64{-0.4615, 0.866, 0}, [3]float64{-4.33, -2.36, 0}),
		},
	}
}

// RestrictedL4 places a test mass exactly at L4 of a μ = 0.01 pair with unit
// separation and unit angular velocity. Velocities are given in the inertial
// frame and converted at load time.
func RestrictedL4() *Config {
	const mu = 0.01
	h := math.Sqrt(3) / 2
	return &Config{
		Name:                    "restricted_l4",
		Description:             "test mass at L4 of a mu=0.01 pair, rotating frame",
		Integrator:              "leapfrog",
		Frame:                   "rotating",
		G:                       physics.GDimensionless,
		Dt:                      0.0005,
		Steps:                   5000,
		RotateInitialVelocities: true,
		Bodies: []BodyConfig{
			Body(1-mu, [3]float64{-mu, 0, 0}, [3]float64{0, -mu, 0}),
			Body(mu, [3]float64{1 - mu, 0, 0}, [3]float64{0, 1 - mu, 0}),
			Body(1e-6, [3]float64{0.5 - mu, h, 0}, [3]float64{-h, 0.5 - mu, 0}),
		},
	}
}

// SunEarth uses SI units: one year in hourly steps.
func SunEarth() *Config {
	return &Config{
		Name:        "sun_earth",
		Description: "Sun and Earth in SI units, one year at one-hour steps",
		Integrator:  "euler",
		Frame:       "inertial",
		G:           physics.GSI,
		Dt:          3600,
		Steps:       8766,
		Bodies: []BodyConfig{
			Body(1.989e30, [3]float64{0, 0, 0}, [3]float64{0, 0, 0}),
			Body(5.972e24, [3]float64{1.496e11, 0, 0}, [3]float64{0, 29780, 0}),
		},
	}
}

func GetPreset(name string) (*Config, error) {
	ctor, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, dynamo.ErrUnknownPreset)
	}
	return ctor(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
