package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/spheres/internal/sim"
	"github.com/san-kum/spheres/internal/snapshot"
)

type ExportData struct {
	Name     string             `json:"name"`
	Policy   string             `json:"policy"`
	DrawRate float64            `json:"draw_rate"`
	Ticks    int                `json:"ticks"`
	Times    []float64          `json:"times"`
	Energy   []float64          `json:"energy"`
	Poses    [][]snapshot.Pose  `json:"poses,omitempty"`
	Metrics  map[string]float64 `json:"metrics"`
}

func NewExportData(name, policy string, drawRate float64, result *sim.Result) ExportData {
	return ExportData{
		Name:     name,
		Policy:   policy,
		DrawRate: drawRate,
		Ticks:    result.Ticks,
		Times:    result.Times,
		Energy:   result.Energy,
		Poses:    result.Poses,
		Metrics:  result.Metrics,
	}
}

// WriteJSON encodes data as indented JSON to w.
func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}
