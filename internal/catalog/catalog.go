// Package catalog reads and writes the target-model reference file: the
// curated list of digital pianos worth monitoring, with their technical
// sub-scores. The file is CSV and is shared with (and editable by) the
// human curator, so loading is tolerant: malformed rows are skipped with a
// log line, never fatal.
package catalog

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/keymarket/pianoscout/internal/identity"
)

// header is the canonical column order of the catalog file.
var header = []string{
	"model", "mechanics", "sound_polyphony", "customization",
	"overall_score", "rationale", "prioritized",
}

// TargetModel is one curated catalog entry.
type TargetModel struct {
	Model          string  `json:"model"`
	Mechanics      int     `json:"mechanics"`
	SoundPolyphony int     `json:"sound_polyphony"`
	Customization  int     `json:"customization"`
	OverallScore   float64 `json:"overall_score"`
	Rationale      string  `json:"rationale"`
	Prioritized    bool    `json:"prioritized"`
}

// Key returns the normalized join key for this model. Two catalog rows
// normalizing to the same key are treated as one product by design.
func (m TargetModel) Key() string {
	return identity.NormalizeKey(m.Model)
}

// Load reads the catalog CSV. Rows with the wrong field count or an
// unparsable score are skipped; an unreadable file is an error.
func Load(path string) ([]TargetModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // validated per row below

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	var targetModels []TargetModel
	for i, rec := range records {
		if i == 0 && isHeader(rec) {
			continue
		}
		m, err := parseRow(rec)
		if err != nil {
			log.Printf("⚠️ Catalog: skipping row %d: %v", i+1, err)
			continue
		}
		targetModels = append(targetModels, m)
	}
	return targetModels, nil
}

// Save writes the catalog back, header first. The write goes through a
// temp file so a crash cannot leave a half-written catalog behind.
func Save(path string, targetModels []TargetModel) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create catalog temp file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write catalog header: %w", err)
	}
	for _, m := range targetModels {
		rec := []string{
			m.Model,
			strconv.Itoa(m.Mechanics),
			strconv.Itoa(m.SoundPolyphony),
			strconv.Itoa(m.Customization),
			strconv.FormatFloat(m.OverallScore, 'f', -1, 64),
			m.Rationale,
			strconv.FormatBool(m.Prioritized),
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("failed to write catalog row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush catalog: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "model")
}

func parseRow(rec []string) (TargetModel, error) {
	if len(rec) != len(header) {
		return TargetModel{}, fmt.Errorf("expected %d fields, got %d", len(header), len(rec))
	}

	model := strings.TrimSpace(rec[0])
	if model == "" {
		return TargetModel{}, fmt.Errorf("empty model name")
	}

	mechanics, err := strconv.Atoi(strings.TrimSpace(rec[1]))
	if err != nil {
		return TargetModel{}, fmt.Errorf("bad mechanics score %q", rec[1])
	}
	sound, err := strconv.Atoi(strings.TrimSpace(rec[2]))
	if err != nil {
		return TargetModel{}, fmt.Errorf("bad sound score %q", rec[2])
	}
	custom, err := strconv.Atoi(strings.TrimSpace(rec[3]))
	if err != nil {
		return TargetModel{}, fmt.Errorf("bad customization score %q", rec[3])
	}
	overall, err := strconv.ParseFloat(strings.TrimSpace(rec[4]), 64)
	if err != nil {
		return TargetModel{}, fmt.Errorf("bad overall score %q", rec[4])
	}

	return TargetModel{
		Model:          model,
		Mechanics:      mechanics,
		SoundPolyphony: sound,
		Customization:  custom,
		OverallScore:   overall,
		Rationale:      strings.TrimSpace(rec[5]),
		Prioritized:    parseBool(rec[6]),
	}, nil
}

// parseBool accepts the loose encodings found in hand-edited files.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "sim":
		return true
	}
	return false
}
