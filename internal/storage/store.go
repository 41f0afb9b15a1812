// Package storage records finished runs as traces on disk. Traces are for
// inspection and plotting only; nothing reads them back into a world.
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

	"github.com/charmbracelet/log"
	"github.com/san-kum/spheres/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	logger  *log.Logger
}

func New(baseDir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{baseDir: baseDir, logger: logger}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Policy    string             `json:"policy"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	DrawRate  float64            `json:"draw_rate"`
	SimRate   float64            `json:"sim_rate"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Ticks     int                `json:"ticks"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes meta and the traces in result under a new run directory and
// returns the run ID.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, now.UnixNano())
	meta.Timestamp = now
	meta.Ticks = result.Ticks
	meta.Metrics = result.Metrics
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	energy := [][]string{{"time", "energy"}}
	for i := range result.Energy {
		energy = append(energy, []string{formatFloat(result.Times[i]), formatFloat(result.Energy[i])})
	}
	if err := writeCSV(filepath.Join(runDir, "energy.csv"), energy); err != nil {
		return "", err
	}

	poses := [][]string{{"time", "ball", "x", "y", "angle", "radius"}}
	for i, frame := range result.Poses {
		for b, p := range frame {
			poses = append(poses, []string{
				formatFloat(result.Times[i]),
				strconv.Itoa(b),
				formatFloat(p.Position.X),
				formatFloat(p.Position.Y),
				formatFloat(p.Angle),
				formatFloat(p.Radius),
			})
		}
	}
	if err := writeCSV(filepath.Join(runDir, "poses.csv"), poses); err != nil {
		return "", err
	}

	s.logger.Info("saved run", "id", meta.ID, "ticks", meta.Ticks)
	return meta.ID, nil
}

// List returns every stored run, newest first.
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
			s.logger.Debug("skipping run directory", "dir", entry.Name(), "err", err)
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
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

// LoadEnergy reads the kinetic energy trace of a run.
func (s *Store) LoadEnergy(runID string) ([]float64, []float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "energy.csv"))
	if err != nil {
		return nil, nil, err
	}

	times := make([]float64, 0, len(records))
	energy := make([]float64, 0, len(records))
	for _, record := range records {
		if len(record) < 2 {
			continue
		}
		t, err1 := strconv.ParseFloat(record[0], 64)
		e, err2 := strconv.ParseFloat(record[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		times = append(times, t)
		energy = append(energy, e)
	}

	return times, energy, nil
}

// Track is the path of one ball through a run.
type Track struct {
	Times []float64
	X     []float64
	Y     []float64
}

// LoadTrack reads the recorded path of one ball.
func (s *Store) LoadTrack(runID string, ball int) (*Track, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "poses.csv"))
	if err != nil {
		return nil, err
	}

	tr := &Track{}
	want := strconv.Itoa(ball)
	for _, record := range records {
		if len(record) < 4 || record[1] != want {
			continue
		}
		t, err1 := strconv.ParseFloat(record[0], 64)
		x, err2 := strconv.ParseFloat(record[2], 64)
		y, err3 := strconv.ParseFloat(record[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		tr.Times = append(tr.Times, t)
		tr.X = append(tr.X, x)
		tr.Y = append(tr.Y, y)
	}
	return tr, nil
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

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Sync()
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
		return nil, nil
	}
	return records[1:], nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
