package storage

import (
	"encoding/json"
	"os"
)

type ExportData struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Particles int                `json:"particles"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Backend   string             `json:"backend"`
	Frames    int                `json:"frames"`
	Times     []float64          `json:"times"`
	ConvA     []float64          `json:"conv_a"`
	ConvB     []float64          `json:"conv_b"`
	MeanSpeed []float64          `json:"mean_speed"`
	Kinetic   []float64          `json:"kinetic"`
	Spread    []float64          `json:"spread"`
	Metrics   map[string]float64 `json:"metrics"`
}

func buildExport(meta *RunMetadata, frames []Frame) ExportData {
	data := ExportData{
		ID:        meta.ID,
		Preset:    meta.Preset,
		Particles: meta.Particles,
		Dt:        meta.Dt,
		Duration:  meta.Duration,
		Backend:   meta.Backend,
		Frames:    len(frames),
		Times:     make([]float64, len(frames)),
		ConvA:     make([]float64, len(frames)),
		ConvB:     make([]float64, len(frames)),
		MeanSpeed: make([]float64, len(frames)),
		Kinetic:   make([]float64, len(frames)),
		Spread:    make([]float64, len(frames)),
		Metrics:   meta.Metrics,
	}
	for i, f := range frames {
		data.Times[i] = f.Time
		data.ConvA[i] = f.ConvergenceA
		data.ConvB[i] = f.ConvergenceB
		data.MeanSpeed[i] = f.MeanSpeed
		data.Kinetic[i] = f.Kinetic
		data.Spread[i] = f.Spread
	}
	return data
}

func ExportJSON(path string, meta *RunMetadata, frames []Frame) error {
	data := buildExport(meta, frames)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONStdout(meta *RunMetadata, frames []Frame) error {
	data := buildExport(meta, frames)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
