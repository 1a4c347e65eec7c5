package config

// Presets are ready-made demo timelines.
var Presets = map[string]*Config{
	"calm": {
		Particles: 100000, Dt: DefaultDt, Duration: 30, Backend: "cpu",
		Timeline: []Cue{
			{At: 0, Cmd: "flow", Pattern: "breathSphere"},
			{At: 8, Cmd: "text", Text: "DRIFT", Animation: "riseUp"},
			{At: 16, Cmd: "flow", Pattern: "aurora"},
			{At: 24, Cmd: "text", Text: "STILL", Animation: "scatterIn"},
		},
	},
	"chorus": {
		Particles: 200000, Dt: DefaultDt, Duration: 40, Backend: "cpu",
		Timeline: []Cue{
			{At: 0, Cmd: "flow", Pattern: "galaxySpin"},
			{At: 6, Cmd: "text", Text: "LOUDER", Animation: "burst", Background: "noiseFlow"},
			{At: 14, Cmd: "layers", Layers: []CueLayer{
				{Pattern: "rings"}, {Pattern: "vortexDrain", Scale: 0.7},
			}},
			{At: 22, Cmd: "text", Text: "NOW", Animation: "shockwave", Group: 1},
			{At: 30, Cmd: "flow", Pattern: "ripples"},
		},
	},
	"finale": {
		Particles: 300000, Dt: DefaultDt, Duration: 30, Backend: "cpu",
		Timeline: []Cue{
			{At: 0, Cmd: "flow", Pattern: "noiseFlow"},
			{At: 5, Cmd: "sculpture", Text: "END", TextB: "FIN", Animation: "sphereContract"},
			{At: 18, Cmd: "text", Text: "GOODBYE", Animation: "typewriter", Dissolve: true},
		},
	},
}

func GetPreset(name string) *Config { return Presets[name] }

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
