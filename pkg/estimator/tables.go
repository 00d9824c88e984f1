package estimator

import "fmt"

var (
	DefaultTableBitrates  = []float64{1, 2, 3, 4, 5}
	DefaultTableDurations = []float64{1, 7, 15, 30}
)

// StorageTable is a bitrate × duration grid of StorageExact results
type StorageTable struct {
	Bitrates  []float64   `json:"bitrates"`
	Durations []float64   `json:"durations"`
	Cells     [][]float64 `json:"cells"`
}

// QuickReference is the storage consumed by a 1 Mbps stream over common windows
type QuickReference struct {
	GBPerHour  float64 `json:"gb_per_hour"`
	GBPerDay   float64 `json:"gb_per_day"`
	GBPerMonth float64 `json:"gb_per_month"`
}

// FPSImpact compares one day of storage before and after a frame rate change
type FPSImpact struct {
	BaseBitrateMbps      float64 `json:"base_bitrate"`
	ReferenceFPS         float64 `json:"reference_fps"`
	TargetFPS            float64 `json:"target_fps"`
	EffectiveBitrateMbps float64 `json:"effective_bitrate"`
	BaseStorageGB        float64 `json:"base_storage_gb"`
	NewStorageGB         float64 `json:"new_storage_gb"`
	ChangePercent        float64 `json:"change_percent"`
}

// GenerateTable builds a storage table. Nil slices fall back to the defaults.
func GenerateTable(bitrates, durations []float64) StorageTable {
	if bitrates == nil {
		bitrates = DefaultTableBitrates
	}
	if durations == nil {
		durations = DefaultTableDurations
	}

	cells := make([][]float64, len(bitrates))
	for i, bitrate := range bitrates {
		cells[i] = make([]float64, len(durations))
		for j, days := range durations {
			cells[i][j] = StorageExact(bitrate, days)
		}
	}

	return StorageTable{
		Bitrates:  bitrates,
		Durations: durations,
		Cells:     cells,
	}
}

// Lookup returns the cell for a bitrate/duration pair present in the table
func (t StorageTable) Lookup(bitrate, days float64) (float64, error) {
	for i, b := range t.Bitrates {
		if b != bitrate {
			continue
		}
		for j, d := range t.Durations {
			if d == days {
				return t.Cells[i][j], nil
			}
		}
	}
	return 0, fmt.Errorf("no table cell for %g Mbps over %g days", bitrate, days)
}

// GetQuickReference returns the 1 Mbps reference values
func GetQuickReference() QuickReference {
	return QuickReference{
		GBPerHour:  StorageForHours(1, 1),
		GBPerDay:   StorageExact(1, 1),
		GBPerMonth: StorageExact(1, 30),
	}
}

// CalculateFPSImpact scales the base bitrate to targetFPS and compares one day of storage
func CalculateFPSImpact(baseBitrateMbps, targetFPS, referenceFPS float64) (*FPSImpact, error) {
	effective, err := FrameRateBitrate(baseBitrateMbps, targetFPS, referenceFPS)
	if err != nil {
		return nil, err
	}

	impact := &FPSImpact{
		BaseBitrateMbps:      baseBitrateMbps,
		ReferenceFPS:         referenceFPS,
		TargetFPS:            targetFPS,
		EffectiveBitrateMbps: effective,
		BaseStorageGB:        StorageExact(baseBitrateMbps, 1),
		NewStorageGB:         StorageExact(effective, 1),
	}
	if impact.BaseStorageGB != 0 {
		impact.ChangePercent = (impact.NewStorageGB - impact.BaseStorageGB) / impact.BaseStorageGB * 100
	}

	return impact, nil
}
