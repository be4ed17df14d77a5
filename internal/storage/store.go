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
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/traysim/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

var csvHeader = []string{"time", "reference", "tray", "height", "velocity", "regime"}

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
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Timestamp  time.Time           `json:"timestamp"`
	Params     dynamo.Params       `json:"params"`
	Solver     dynamo.SolverConfig `json:"solver"`
	Dt         float64             `json:"dt"`
	Samples    int                 `json:"samples"`
	Collisions []int               `json:"collisions"`
	Final      dynamo.Regime       `json:"final"`
	AdheredAt  int                 `json:"adhered_at"`
	Metrics    map[string]float64  `json:"metrics"`
}

// NewMetadata describes result under a fresh run id.
func NewMetadata(name string, result *dynamo.Result) RunMetadata {
	return RunMetadata{
		ID:         uuid.NewString(),
		Name:       name,
		Timestamp:  time.Now().UTC(),
		Params:     result.Params,
		Solver:     result.Solver,
		Dt:         result.Dt,
		Samples:    result.Len(),
		Collisions: result.Collisions,
		Final:      result.Final,
		AdheredAt:  result.AdheredAt,
		Metrics:    result.Metrics,
	}
}

func (s *Store) Save(name string, result *dynamo.Result) (*RunMetadata, error) {
	meta := NewMetadata(name, result)
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return nil, err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return nil, err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return nil, fmt.Errorf("write trajectory: %w", err)
	}
	return &meta, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one row per grid index. Values are written with the
// shortest exact representation so a stored run reloads bit for bit.
func WriteCSV(w io.Writer, result *dynamo.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for i := 0; i < result.Len(); i++ {
		row := []string{
			formatFloat(result.Times[i]),
			formatFloat(result.Reference[i]),
			formatFloat(result.TrayHeight[i]),
			formatFloat(result.Height[i]),
			formatFloat(result.Velocity[i]),
			result.Regimes[i].String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadResult rebuilds the full result of a stored run.
func (s *Store) LoadResult(runID string) (*RunMetadata, *dynamo.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	result := &dynamo.Result{
		Params:     meta.Params,
		Solver:     meta.Solver,
		Dt:         meta.Dt,
		Reference:  make([]float64, 0, meta.Samples),
		TrayHeight: make([]float64, 0, meta.Samples),
		Times:      make([]float64, 0, meta.Samples),
		Height:     make([]float64, 0, meta.Samples),
		Velocity:   make([]float64, 0, meta.Samples),
		Regimes:    make([]dynamo.Regime, 0, meta.Samples),
		Collisions: meta.Collisions,
		Final:      meta.Final,
		AdheredAt:  meta.AdheredAt,
		Metrics:    meta.Metrics,
	}
	if err := ReadCSV(file, result); err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return meta, result, nil
}

// ReadCSV appends the rows written by WriteCSV to result.
func ReadCSV(r io.Reader, result *dynamo.Result) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.New("missing header")
	}

	for i, record := range records[1:] {
		var vals [5]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return fmt.Errorf("row %d, %s: %w", i, csvHeader[j], err)
			}
			vals[j] = v
		}
		reg, err := dynamo.ParseRegime(record[5])
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}

		result.Times = append(result.Times, vals[0])
		result.Reference = append(result.Reference, vals[1])
		result.TrayHeight = append(result.TrayHeight, vals[2])
		result.Height = append(result.Height, vals[3])
		result.Velocity = append(result.Velocity, vals[4])
		result.Regimes = append(result.Regimes, reg)
	}
	return nil
}
