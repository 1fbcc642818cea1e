package config

import "sort"

var Presets = map[string]*Config{
	"classic": {
		Map: "logistic", Mode: "forward",
		View: ViewConfig{RMin: 2.8, RMax: 4.0, XMin: 0, XMax: 1, Width: DefaultWidth, Height: DefaultHeight},
		Sampling: SamplingConfig{
			BurnIn: 200, Samples: 100, MaxBranches: DefaultMaxBranches,
			EpsilonBase: DefaultEpsilonBase, Seeds: []float64{0.5},
		},
	},
	"cascade": {
		Map: "logistic", Mode: "forward",
		View: ViewConfig{RMin: 3.544, RMax: 4.0, XMin: 0, XMax: 1, Width: DefaultWidth, Height: DefaultHeight},
		Sampling: SamplingConfig{
			BurnIn: 1000, Samples: 256, MaxBranches: DefaultMaxBranches,
			EpsilonBase: DefaultEpsilonBase, Seeds: []float64{0.53},
		},
	},
	"onset": {
		Map: "logistic", Mode: "forward",
		View: ViewConfig{RMin: 3.4, RMax: 3.6, XMin: 0.3, XMax: 0.9, Width: DefaultWidth, Height: DefaultHeight},
		Sampling: SamplingConfig{
			BurnIn: 2000, Samples: 256, MaxBranches: DefaultMaxBranches,
			EpsilonBase: DefaultEpsilonBase, Seeds: []float64{0.5},
		},
	},
	"reverse": {
		Map: "logistic", Mode: "reverse",
		View: ViewConfig{RMin: 2.0, RMax: 4.0, XMin: 0, XMax: 1, Width: DefaultWidth, Height: DefaultHeight},
		Sampling: SamplingConfig{
			BurnIn: DefaultBurnIn, Samples: DefaultSamples, MaxBranches: 512,
			EpsilonBase: DefaultEpsilonBase, Seeds: []float64{0.5},
		},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
