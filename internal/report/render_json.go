package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSONFile writes the run report to disk as indented JSON, the
// machine-readable companion to the text summary.
func WriteJSONFile(path string, r *RunReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write run report: %w", err)
	}
	return nil
}

// WriteJSON encodes the run report as indented JSON.
func WriteJSON(w io.Writer, r *RunReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode run report: %w", err)
	}
	return nil
}
