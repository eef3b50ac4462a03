package config

import (
	"sort"

	"github.com/san-kum/synodic/internal/analysis"
	"github.com/san-kum/synodic/internal/physics"
)

var Presets = map[string]*Config{
	"earth_mars": DefaultConfig(),
	"earth_mars_short": {
		Integrator: "yoshida4", Gravity: physics.GravitationalConstant, CentralMass: DefaultCentralMass,
		Dt: physics.SecondsPerDay, Years: 50,
		Bodies: []BodyConfig{
			{Name: "earth", Mass: 5.972e24, Radius: 1.5e11, Angle: 0},
			{Name: "mars", Mass: 6.39e23, Radius: 2.28e11, Angle: 51.7},
		},
		Detector: analysis.DefaultThresholds(),
	},
	"venus_earth": {
		Integrator: "yoshida4", Gravity: physics.GravitationalConstant, CentralMass: DefaultCentralMass,
		Dt: physics.SecondsPerDay, Years: 200,
		Bodies: []BodyConfig{
			{Name: "venus", Mass: 4.867e24, Radius: 1.082e11, Angle: 0},
			{Name: "earth", Mass: 5.972e24, Radius: 1.496e11, Angle: 30},
		},
		Detector: analysis.DefaultThresholds(),
	},
	"jupiter_saturn": {
		Integrator: "yoshida4", Gravity: physics.GravitationalConstant, CentralMass: DefaultCentralMass,
		Dt: 10 * physics.SecondsPerDay, Years: 3000, Reference: 1,
		Bodies: []BodyConfig{
			{Name: "jupiter", Mass: 1.898e27, Radius: 7.785e11, Angle: 0},
			{Name: "saturn", Mass: 5.683e26, Radius: 1.4335e12, Angle: 90},
		},
		Detector: analysis.DefaultThresholds(),
	},
	"massless_mars": {
		Integrator: "yoshida4", Gravity: physics.GravitationalConstant, CentralMass: DefaultCentralMass,
		Dt: physics.SecondsPerDay, Years: 100,
		Bodies: []BodyConfig{
			{Name: "earth", Mass: 5.972e24, Radius: 1.5e11, Angle: 0},
			{Name: "mars", Mass: 0, Radius: 2.28e11, Angle: 51.7},
		},
		Detector: analysis.DefaultThresholds(),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
