package estimator

import (
	"errors"
	"math"
)

const (
	SecondsPerDay = 86400 // 60 × 60 × 24
	HoursPerDay   = 24
	BitsPerByte   = 8
	MBPerGB       = 1024
	GBPerTB       = 1024

	// CompressionFactor scales theoretical storage down to what the
	// platform actually writes to disk (~35.6% of theoretical).
	CompressionFactor = 0.356

	// QuickGBPerMbpsDay is the rule-of-thumb coefficient for StorageQuick.
	QuickGBPerMbpsDay = 3.75

	DefaultReferenceFPS = 25
)

// ErrZeroReferenceFPS is returned when frame-rate scaling is asked to divide by a zero reference.
var ErrZeroReferenceFPS = errors.New("reference fps must not be zero")

// CameraProfile describes one camera stream
type CameraProfile struct {
	Name        string  `json:"name" yaml:"name"`
	BitrateMbps float64 `json:"bitrate" yaml:"bitrate"`
	FPS         float64 `json:"fps" yaml:"fps"`
	HoursPerDay float64 `json:"hours_per_day" yaml:"hours_per_day"`
}

// CameraEstimate is the per-camera line of a FleetReport
type CameraEstimate struct {
	Camera               CameraProfile `json:"camera"`
	EffectiveBitrateMbps float64       `json:"effective_bitrate"`
	StorageGB            float64       `json:"storage_gb"`
}

// FleetReport holds per-camera and total storage for a fleet over a retention window.
// Values are unrounded.
type FleetReport struct {
	Days           float64          `json:"days"`
	Cameras        []CameraEstimate `json:"cameras"`
	TotalStorageGB float64          `json:"total_storage_gb"`
	TotalStorageTB float64          `json:"total_storage_tb"`
}

// StorageExact calculates storage in GB using the corrected exact formula
func StorageExact(bitrateMbps, days float64) float64 {
	theoretical := bitrateMbps * SecondsPerDay * days / (BitsPerByte * MBPerGB)
	return theoretical * CompressionFactor
}

// StorageQuick calculates storage in GB using the quick shortcut.
// It is an approximation of StorageExact and the two are not expected to agree exactly.
func StorageQuick(bitrateMbps, days float64) float64 {
	return bitrateMbps * QuickGBPerMbpsDay * days
}

// StorageForHours calculates storage in GB for a duration given in hours
func StorageForHours(bitrateMbps, hours float64) float64 {
	return StorageExact(bitrateMbps, hours/HoursPerDay)
}

// FrameRateBitrate scales a bitrate measured at referenceFPS linearly to targetFPS.
// Callers wanting the platform default pass DefaultReferenceFPS.
func FrameRateBitrate(baseBitrateMbps, targetFPS, referenceFPS float64) (float64, error) {
	if referenceFPS == 0 {
		return math.NaN(), ErrZeroReferenceFPS
	}
	return baseBitrateMbps * (targetFPS / referenceFPS), nil
}

// DutyCycleBitrate derates a bitrate by the fraction of the day the camera records
func DutyCycleBitrate(bitrateMbps, hoursPerDay float64) float64 {
	return bitrateMbps * (hoursPerDay / HoursPerDay)
}

// AggregateFleet estimates storage for every camera over days and sums the total
func AggregateFleet(cameras []CameraProfile, days float64) FleetReport {
	report := FleetReport{
		Days:    days,
		Cameras: make([]CameraEstimate, 0, len(cameras)),
	}

	for _, cam := range cameras {
		effective := DutyCycleBitrate(cam.BitrateMbps, cam.HoursPerDay)
		storage := StorageExact(effective, days)

		report.Cameras = append(report.Cameras, CameraEstimate{
			Camera:               cam,
			EffectiveBitrateMbps: effective,
			StorageGB:            storage,
		})
		report.TotalStorageGB += storage
	}

	report.TotalStorageTB = StorageTB(report.TotalStorageGB)
	return report
}

// StorageTB converts GB to TB
func StorageTB(gb float64) float64 {
	return gb / GBPerTB
}

// Round2 rounds to 2 decimal places for display.
// Chained calculations must keep the unrounded value.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
