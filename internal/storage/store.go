package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/hrsim/internal/logger"
	"github.com/san-kum/hrsim/internal/sim"
	"github.com/san-kum/hrsim/internal/stimulus"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var (
	ErrRunNotFound  = errors.New("storage: run not found")
	ErrAmbiguousRun = errors.New("storage: run id prefix is ambiguous")
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

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID            string             `json:"id"`
	Variant       string             `json:"variant"`
	Preset        string             `json:"preset,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
	PeriodSeconds float64            `json:"period_seconds"`
	Ticks         int                `json:"ticks"`
	Integrator    string             `json:"integrator"`
	Config        map[string]float64 `json:"config,omitempty"`
	Stimulus      stimulus.Config    `json:"stimulus"`
	Channels      []string           `json:"channels"`
	Metrics       map[string]float64 `json:"metrics"`
	Error         string             `json:"error,omitempty"`
}

// Save writes meta and result under a fresh run id and returns it. ID,
// Timestamp, Ticks and Channels are filled from the run.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.ID = newRunID(meta.Variant)
	meta.Timestamp = time.Now().UTC()
	meta.Ticks = result.TicksTaken
	meta.Channels = result.Channels
	if meta.Metrics == nil {
		meta.Metrics = result.Metrics
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSONFile(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	f, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	if err := WriteCSV(f, result); err != nil {
		f.Close()
		return "", fmt.Errorf("write samples: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	logger.RunEvent("saved", meta.ID, "ticks", meta.Ticks)
	return meta.ID, nil
}

func newRunID(variant string) string {
	if variant == "" {
		variant = "run"
	}
	return variant + "-" + uuid.NewString()
}

func writeJSONFile(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, newest first. Directories without valid
// metadata are skipped.
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
		meta, err := s.readMeta(entry.Name())
		if err != nil {
			logger.Debug("skipping run directory", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

// Resolve expands a unique id prefix to a full run id.
func (s *Store) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", ErrRunNotFound
	}
	if prefix == "." || strings.Contains(prefix, "..") || strings.ContainsAny(prefix, `/\`) {
		return "", fmt.Errorf("%w: invalid id %q", ErrRunNotFound, prefix)
	}
	if _, err := os.Stat(filepath.Join(s.baseDir, prefix, metadataFile)); err == nil {
		return prefix, nil
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	var match string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%w: %q", ErrAmbiguousRun, prefix)
		}
		match = entry.Name()
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrRunNotFound, prefix)
	}
	return match, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	id, err := s.Resolve(runID)
	if err != nil {
		return nil, err
	}
	return s.readMeta(id)
}

func (s *Store) readMeta(runID string) (*RunMetadata, error) {
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

// LoadSamples reads a run's samples back into a sim.Result.
func (s *Store) LoadSamples(runID string) (*sim.Result, error) {
	id, err := s.Resolve(runID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.baseDir, id, samplesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// SamplesPath returns the CSV path of a run.
func (s *Store) SamplesPath(runID string) (string, error) {
	id, err := s.Resolve(runID)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, id, samplesFile), nil
}

func (s *Store) Delete(runID string) error {
	id, err := s.Resolve(runID)
	if err != nil {
		return err
	}
	logger.RunEvent("deleted", id)
	return os.RemoveAll(filepath.Join(s.baseDir, id))
}

// WriteCSV writes one row per tick: time, injected current, then every
// output channel.
func WriteCSV(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time", "i_syn"}, result.Channels...)
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i := 0; i < result.TicksTaken; i++ {
		row[0] = formatFloat(result.Times[i])
		row[1] = formatFloat(result.Inputs[i])
		for c, v := range result.Row(i) {
			row[2+c] = formatFloat(v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the layout written by WriteCSV.
func ReadCSV(r io.Reader) (*sim.Result, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("samples: missing header")
		}
		return nil, err
	}
	if len(header) < 2 || header[0] != "time" || header[1] != "i_syn" {
		return nil, fmt.Errorf("samples: unexpected header %v", header)
	}

	result := &sim.Result{
		Channels: append([]string(nil), header[2:]...),
		Metrics:  map[string]float64{},
	}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		vals := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("samples line %d: %w", line, err)
			}
			vals[i] = v
		}
		result.Times = append(result.Times, vals[0])
		result.Inputs = append(result.Inputs, vals[1])
		result.Samples = append(result.Samples, vals[2:]...)
		result.TicksTaken++
	}
	return result, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
