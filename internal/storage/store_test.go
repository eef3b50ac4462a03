package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/synodic/internal/analysis"
	"github.com/san-kum/synodic/internal/config"
	"github.com/san-kum/synodic/internal/experiment"
)

func shortReport(t *testing.T, mutate func(*config.Config)) (*experiment.Report, error) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Years = 5
	if mutate != nil {
		mutate(cfg)
	}
	sc, err := experiment.NewScenario(cfg)
	if err != nil {
		t.Fatal(err)
	}
	r, err := experiment.New(sc, experiment.NewRegistry()).Run(context.Background())
	if err != nil && !errors.Is(err, analysis.ErrNoCycle) {
		t.Fatalf("run failed: %v", err)
	}
	return r, err
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	r, detectErr := shortReport(t, nil)
	runID, err := st.Save("earth_mars", r, detectErr, Options{Stride: 10})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "earth_mars" {
		t.Errorf("expected name 'earth_mars', got '%s'", meta.Name)
	}
	if meta.Scenario.Steps != r.Scenario.Steps {
		t.Errorf("expected %d steps, got %d", r.Scenario.Steps, meta.Scenario.Steps)
	}
	if meta.Detection.Cycle.CycleTime != r.Detection.Cycle.CycleTime {
		t.Errorf("expected cycle %v, got %v", r.Detection.Cycle.CycleTime, meta.Detection.Cycle.CycleTime)
	}
	if meta.BodyNames[1] != "mars" {
		t.Errorf("expected body 'mars', got '%s'", meta.BodyNames[1])
	}
	if meta.NoCycle != "" {
		t.Errorf("unexpected no-cycle note %q", meta.NoCycle)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(series.Times) != len(r.Times) {
		t.Fatalf("expected %d samples, got %d", len(r.Times), len(series.Times))
	}
	for i := range r.Times {
		if series.Adjusted[0][i] != r.Series[0].Adjusted[i] {
			t.Fatalf("adjusted[%d] = %v, stored %v", i, r.Series[0].Adjusted[i], series.Adjusted[0][i])
		}
	}

	steps, states, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if want := (r.Coupled.Len() + 9) / 10; len(steps) != want {
		t.Errorf("expected %d strided states, got %d", want, len(steps))
	}
	if steps[1] != 10 || len(states[1]) != 8 {
		t.Errorf("unexpected second row: step %d, %d values", steps[1], len(states[1]))
	}

	extrema, err := st.LoadExtrema(runID)
	if err != nil {
		t.Fatalf("load extrema failed: %v", err)
	}
	want := len(r.Detection.Peaks) + len(r.Detection.Valleys) +
		len(r.Detection.SignificantPeaks) + len(r.Detection.SignificantValleys)
	if len(extrema) != want {
		t.Errorf("expected %d extrema rows, got %d", want, len(extrema))
	}
}

func TestStoreRecordsNoCycle(t *testing.T) {
	st := New(t.TempDir())

	r, detectErr := shortReport(t, func(c *config.Config) { c.Bodies[1].Mass = 0 })
	if !errors.Is(detectErr, analysis.ErrNoCycle) {
		t.Fatalf("expected ErrNoCycle, got %v", detectErr)
	}

	runID, err := st.Save("massless", r, detectErr, Options{})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.NoCycle == "" {
		t.Error("expected the no-cycle outcome in metadata")
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	r, detectErr := shortReport(t, nil)
	if _, err := st.Save("a", r, detectErr, Options{Stride: 100}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save("b", r, detectErr, Options{Stride: 100}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Timestamp.After(runs[1].Timestamp) {
		t.Error("runs not sorted oldest first")
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	r, detectErr := shortReport(t, nil)
	runID, err := st.Save("test", r, detectErr, Options{Stride: 100})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, trajectoryFile, analysisFile, extremaFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExportJSON(t *testing.T) {
	r, _ := shortReport(t, nil)

	var buf bytes.Buffer
	if err := ExportJSON(&buf, r, 7); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if want := (len(r.Times) + 6) / 7; len(data.Times) != want {
		t.Errorf("expected %d samples, got %d", want, len(data.Times))
	}
	if len(data.Adjusted[1]) != len(data.Times) || len(data.Angles) != len(data.Times) {
		t.Error("series lengths differ")
	}
	if data.Scenario.Bodies[0].Name != "earth" {
		t.Errorf("expected earth, got %s", data.Scenario.Bodies[0].Name)
	}
}
