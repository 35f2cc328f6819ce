package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/hrsim/internal/sim"
	"github.com/san-kum/hrsim/internal/stimulus"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Channels:   []string{"x", "y"},
		Times:      []float64{0.001, 0.002, 0.003},
		Inputs:     []float64{0, 0.5, 0.5},
		Samples:    []float64{-0.9013, -3.1594, -0.9000000000000001, -3.15, 1.75, -2},
		Metrics:    map[string]float64{"spikes": 1},
		TicksTaken: 3,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Variant:       "hindmarsh_rose",
		PeriodSeconds: 0.001,
		Integrator:    "rk5",
		Config:        map[string]float64{"e": 3.25},
		Stimulus:      stimulus.Config{Kind: "constant", Amplitude: 0.5},
	}
	runID, err := st.Save(meta, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "hindmarsh_rose-") {
		t.Errorf("unexpected run id %q", runID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Variant != "hindmarsh_rose" || loaded.Ticks != 3 {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Metrics["spikes"] != 1 {
		t.Errorf("expected spikes 1, got %v", loaded.Metrics["spikes"])
	}
	if loaded.Stimulus.Amplitude != 0.5 || loaded.Config["e"] != 3.25 {
		t.Errorf("stimulus or config not persisted: %+v", loaded)
	}

	res, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	want := sampleResult()
	if res.TicksTaken != 3 || len(res.Channels) != 2 {
		t.Fatalf("unexpected shape: %d ticks, %v", res.TicksTaken, res.Channels)
	}
	for i := range want.Samples {
		if res.Samples[i] != want.Samples[i] {
			t.Errorf("sample %d: got %v, want %v", i, res.Samples[i], want.Samples[i])
		}
	}
	if res.Inputs[1] != 0.5 || res.Times[2] != 0.003 {
		t.Errorf("times or inputs not round-tripped: %v %v", res.Times, res.Inputs)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{Variant: "hindmarsh_rose_v2"}, sampleResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("run ids must be unique")
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runID, err := st.Save(RunMetadata{Variant: "hindmarsh_rose"}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "samples.csv"} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, runID, "samples.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if first := strings.SplitN(string(data), "\n", 2)[0]; first != "time,i_syn,x,y" {
		t.Errorf("unexpected header %q", first)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	for _, id := range []string{"hr-aaaa1", "hr-aaab2", "hr-b"} {
		if err := os.MkdirAll(filepath.Join(dir, id), 0755); err != nil {
			t.Fatal(err)
		}
	}

	if id, err := st.Resolve("hr-b"); err != nil || id != "hr-b" {
		t.Errorf("Resolve(hr-b) = %q, %v", id, err)
	}
	if id, err := st.Resolve("hr-aaaa"); err != nil || id != "hr-aaaa1" {
		t.Errorf("Resolve(hr-aaaa) = %q, %v", id, err)
	}
	if _, err := st.Resolve("hr-aa"); !errors.Is(err, ErrAmbiguousRun) {
		t.Errorf("expected ambiguity, got %v", err)
	}
	if _, err := st.Resolve("zz"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Variant: "hindmarsh_rose"}, sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Delete(runID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := st.Load(runID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestDeleteStaysInDataDir(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(root, "other")
	if err := os.MkdirAll(outside, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(outside, metadataFile), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	st := New(filepath.Join(root, "data"))
	for _, id := range []string{"../other", "..", ".", "a/b", `a\b`} {
		if err := st.Delete(id); !errors.Is(err, ErrRunNotFound) {
			t.Errorf("Delete(%q): expected not found, got %v", id, err)
		}
	}
	if _, err := os.Stat(outside); err != nil {
		t.Errorf("directory outside the store was touched: %v", err)
	}
}

func TestReadCSVErrors(t *testing.T) {
	for _, in := range []string{"", "t,x\n1,2\n", "time,i_syn,x\n0.1,0,abc\n"} {
		if _, err := ReadCSV(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := RunMetadata{ID: "hr-1", Variant: "hindmarsh_rose"}
	if err := ExportJSON(&buf, meta, sampleResult()); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "hr-1" || len(got.Times) != 3 {
		t.Errorf("unexpected export %+v", got)
	}
	if got.Outputs["y"][2] != -2 {
		t.Errorf("expected y[2] = -2, got %v", got.Outputs["y"])
	}
}
