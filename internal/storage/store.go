package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/synodic/internal/analysis"
	"github.com/san-kum/synodic/internal/experiment"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	analysisFile   = "analysis.csv"
	extremaFile    = "extrema.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string                        `json:"id"`
	Name       string                        `json:"name"`
	Timestamp  time.Time                     `json:"timestamp"`
	Scenario   *experiment.Scenario          `json:"scenario"`
	Periods    experiment.Periods            `json:"periods"`
	Fits       [2]analysis.LineFit           `json:"fits"`
	Detection  *analysis.Detection           `json:"detection"`
	NoCycle    string                        `json:"no_cycle,omitempty"`
	Synodic    float64                       `json:"observed_synodic"`
	Metrics    map[string]map[string]float64 `json:"metrics"`
	Stride     int                           `json:"trajectory_stride"`
	BodyNames  [2]string                     `json:"body_names"`
	Integrator string                        `json:"integrator"`
}

type Options struct {
	// Stride keeps every Stride-th state in trajectory.csv. Analysis series
	// are always stored in full.
	Stride int
}

// Save writes a run directory for r. detectErr is the error returned with
// the report, if any; a "no cycle" outcome is recorded in the metadata.
func (s *Store) Save(name string, r *experiment.Report, detectErr error, opts Options) (string, error) {
	if opts.Stride < 1 {
		opts.Stride = 1
	}

	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Timestamp:  now,
		Scenario:   r.Scenario,
		Periods:    r.Periods,
		Fits:       [2]analysis.LineFit{r.Series[0].Fit, r.Series[1].Fit},
		Detection:  r.Detection,
		Synodic:    analysis.MeanInterval(r.Conjunctions),
		Metrics:    r.Metrics,
		Stride:     opts.Stride,
		BodyNames:  [2]string{r.Series[0].Name, r.Series[1].Name},
		Integrator: r.Scenario.Integrator,
	}
	if errors.Is(detectErr, analysis.ErrNoCycle) {
		meta.NoCycle = detectErr.Error()
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), r, opts.Stride); err != nil {
		return "", err
	}
	if err := writeAnalysis(filepath.Join(runDir, analysisFile), r); err != nil {
		return "", err
	}
	if r.Detection != nil {
		if err := writeExtrema(filepath.Join(runDir, extremaFile), r.Detection); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, header []string, rows func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := rows(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// writeTrajectory stores the coupled run followed by the positions of both
// single-body runs.
func writeTrajectory(path string, r *experiment.Report, stride int) error {
	header := []string{"step", "time", "x1", "y1", "vx1", "vy1", "x2", "y2", "vx2", "vy2", "sx1", "sy1", "sx2", "sy2"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		for i := 0; i < r.Coupled.Len(); i += stride {
			row := make([]string, 0, len(header))
			row = append(row, strconv.Itoa(i), formatFloat(r.Times[i]))
			for _, v := range r.Coupled.States[i] {
				row = append(row, formatFloat(v))
			}
			for _, single := range r.Singles {
				p := single.States[i].Position(0)
				row = append(row, formatFloat(p.X), formatFloat(p.Y))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeAnalysis(path string, r *experiment.Report) error {
	header := []string{"time", "deviation1", "adjusted1", "deviation2", "adjusted2", "angle", "separation"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		for i, t := range r.Times {
			row := []string{
				formatFloat(t),
				formatFloat(r.Series[0].Deviation[i]),
				formatFloat(r.Series[0].Adjusted[i]),
				formatFloat(r.Series[1].Deviation[i]),
				formatFloat(r.Series[1].Adjusted[i]),
				formatFloat(r.Angles[i]),
				formatFloat(r.Separation[i]),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// Extremum kinds in extrema.csv.
const (
	KindPeak   = "peak"
	KindValley = "valley"
)

// ExtremumRecord is one row of extrema.csv.
type ExtremumRecord struct {
	Kind        string
	Significant bool
	analysis.Extremum
}

func writeExtrema(path string, d *analysis.Detection) error {
	sets := []struct {
		kind        string
		significant bool
		set         []analysis.Extremum
	}{
		{KindPeak, false, d.Peaks},
		{KindValley, false, d.Valleys},
		{KindPeak, true, d.SignificantPeaks},
		{KindValley, true, d.SignificantValleys},
	}

	header := []string{"kind", "significant", "index", "time", "value", "angle"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		for _, s := range sets {
			for _, e := range s.set {
				row := []string{
					s.kind,
					strconv.FormatBool(s.significant),
					strconv.Itoa(e.Index),
					formatFloat(e.Time),
					formatFloat(e.Value),
					formatFloat(e.Angle),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Series is the content of analysis.csv.
type Series struct {
	Times      []float64
	Deviation  [2][]float64
	Adjusted   [2][]float64
	Angles     []float64
	Separation []float64
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, analysisFile))
	if err != nil {
		return nil, err
	}

	out := &Series{}
	for i, rec := range records {
		vals, err := parseFloats(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", analysisFile, i+2, err)
		}
		if len(vals) != 7 {
			return nil, fmt.Errorf("%s line %d: expected 7 columns, got %d", analysisFile, i+2, len(vals))
		}
		out.Times = append(out.Times, vals[0])
		out.Deviation[0] = append(out.Deviation[0], vals[1])
		out.Adjusted[0] = append(out.Adjusted[0], vals[2])
		out.Deviation[1] = append(out.Deviation[1], vals[3])
		out.Adjusted[1] = append(out.Adjusted[1], vals[4])
		out.Angles = append(out.Angles, vals[5])
		out.Separation = append(out.Separation, vals[6])
	}
	return out, nil
}

// LoadTrajectory returns the stored steps and the coupled states.
func (s *Store) LoadTrajectory(runID string) ([]int, [][]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, nil, err
	}

	steps := make([]int, 0, len(records))
	states := make([][]float64, 0, len(records))
	for i, rec := range records {
		if len(rec) < 10 {
			return nil, nil, fmt.Errorf("%s line %d: expected at least 10 columns, got %d", trajectoryFile, i+2, len(rec))
		}
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", trajectoryFile, i+2, err)
		}
		vals, err := parseFloats(rec[2:10])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", trajectoryFile, i+2, err)
		}
		steps = append(steps, step)
		states = append(states, vals)
	}
	return steps, states, nil
}

func (s *Store) LoadExtrema(runID string) ([]ExtremumRecord, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, extremaFile))
	if err != nil {
		return nil, err
	}

	out := make([]ExtremumRecord, 0, len(records))
	for i, rec := range records {
		if len(rec) != 6 {
			return nil, fmt.Errorf("%s line %d: expected 6 columns, got %d", extremaFile, i+2, len(rec))
		}
		sig, err := strconv.ParseBool(rec[1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", extremaFile, i+2, err)
		}
		idx, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", extremaFile, i+2, err)
		}
		vals, err := parseFloats(rec[3:])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", extremaFile, i+2, err)
		}
		out = append(out, ExtremumRecord{
			Kind:        rec[0],
			Significant: sig,
			Extremum:    analysis.Extremum{Index: idx, Time: vals[0], Value: vals[1], Angle: vals[2]},
		})
	}
	return out, nil
}

// readCSV returns every record after the header.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func parseFloats(fields []string) ([]float64, error) {
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
