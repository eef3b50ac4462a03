package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/synodic/internal/analysis"
	"github.com/san-kum/synodic/internal/experiment"
)

type ExportData struct {
	Scenario     *experiment.Scenario          `json:"scenario"`
	Periods      experiment.Periods            `json:"periods"`
	Detection    *analysis.Detection           `json:"detection"`
	Metrics      map[string]map[string]float64 `json:"metrics"`
	Conjunctions []float64                     `json:"conjunctions"`
	Times        []float64                     `json:"times"`
	Adjusted     [2][]float64                  `json:"adjusted"`
	Angles       []float64                     `json:"angles"`
}

func newExportData(r *experiment.Report, stride int) ExportData {
	if stride < 1 {
		stride = 1
	}
	data := ExportData{
		Scenario:     r.Scenario,
		Periods:      r.Periods,
		Detection:    r.Detection,
		Metrics:      r.Metrics,
		Conjunctions: r.Conjunctions,
	}
	for i := 0; i < len(r.Times); i += stride {
		data.Times = append(data.Times, r.Times[i])
		data.Adjusted[0] = append(data.Adjusted[0], r.Series[0].Adjusted[i])
		data.Adjusted[1] = append(data.Adjusted[1], r.Series[1].Adjusted[i])
		data.Angles = append(data.Angles, r.Angles[i])
	}
	return data
}

// ExportJSON writes the report to w, keeping every stride-th sample of the
// series.
func ExportJSON(w io.Writer, r *experiment.Report, stride int) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(r, stride))
}

func ExportJSONFile(path string, r *experiment.Report, stride int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, r, stride)
}
