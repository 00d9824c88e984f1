package fleet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jungletek/vms-storage-calc/pkg/estimator"
	"github.com/jungletek/vms-storage-calc/pkg/fsutil"
	"github.com/jungletek/vms-storage-calc/pkg/logger"
)

const (
	DefaultHoursPerDay = 24
	MaxHoursPerDay     = 24
)

// ProfileError reports an invalid camera entry
type ProfileError struct {
	Index   int
	Field   string
	Value   interface{}
	Message string
}

func (e ProfileError) Error() string {
	return fmt.Sprintf("camera %d: %s (field: %s, value: %v)", e.Index, e.Message, e.Field, e.Value)
}

// File is the on-disk fleet description
type File struct {
	Days    float64       `json:"days" yaml:"days"`
	Cameras []CameraEntry `json:"cameras" yaml:"cameras"`
}

// CameraEntry is a camera as written in a fleet file; omitted fields take defaults
type CameraEntry struct {
	Name        string   `json:"name" yaml:"name"`
	Bitrate     float64  `json:"bitrate" yaml:"bitrate"`
	FPS         *float64 `json:"fps" yaml:"fps"`
	HoursPerDay *float64 `json:"hours_per_day" yaml:"hours_per_day"`
}

// Fleet is a validated camera list plus the retention window from the file, if any
type Fleet struct {
	Days    float64
	Cameras []estimator.CameraProfile
}

// Load reads a fleet from a YAML or JSON file
func Load(path string) (*Fleet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fleet file: %w", err)
	}

	var file File
	if fsutil.HasExt(path, ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&file)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse fleet file %s: %w", path, err)
	}

	fleet, err := FromFile(&file)
	if err != nil {
		return nil, err
	}

	logger.GetLogger().WithField("file", path).WithField("cameras", len(fleet.Cameras)).Debug("Fleet loaded")
	return fleet, nil
}

// FromFile applies defaults and validates every entry
func FromFile(file *File) (*Fleet, error) {
	if file.Days < 0 || math.IsNaN(file.Days) || math.IsInf(file.Days, 0) {
		return nil, ProfileError{Index: 0, Field: "days", Value: file.Days, Message: "days must be a finite non-negative number"}
	}

	cameras := make([]estimator.CameraProfile, 0, len(file.Cameras))
	for i, entry := range file.Cameras {
		cam := entry.Profile(i + 1)
		if err := Validate(i+1, cam); err != nil {
			return nil, err
		}
		cameras = append(cameras, cam)
	}

	return &Fleet{Days: file.Days, Cameras: cameras}, nil
}

// Profile converts the entry, filling defaults. index is 1-based.
func (e CameraEntry) Profile(index int) estimator.CameraProfile {
	cam := estimator.CameraProfile{
		Name:        e.Name,
		BitrateMbps: e.Bitrate,
		FPS:         estimator.DefaultReferenceFPS,
		HoursPerDay: DefaultHoursPerDay,
	}
	if cam.Name == "" {
		cam.Name = fmt.Sprintf("Camera %d", index)
	}
	if e.FPS != nil {
		cam.FPS = *e.FPS
	}
	if e.HoursPerDay != nil {
		cam.HoursPerDay = *e.HoursPerDay
	}
	return cam
}

// Validate checks a camera profile's ranges. index is 1-based and only used for reporting.
func Validate(index int, cam estimator.CameraProfile) error {
	if !(cam.BitrateMbps > 0) || math.IsInf(cam.BitrateMbps, 0) {
		return ProfileError{Index: index, Field: "bitrate", Value: cam.BitrateMbps, Message: "bitrate must be a positive number"}
	}
	if !(cam.FPS > 0) || math.IsInf(cam.FPS, 0) {
		return ProfileError{Index: index, Field: "fps", Value: cam.FPS, Message: "fps must be a positive number"}
	}
	if !(cam.HoursPerDay >= 0 && cam.HoursPerDay <= MaxHoursPerDay) {
		return ProfileError{Index: index, Field: "hours_per_day", Value: cam.HoursPerDay, Message: "hours per day must be between 0 and 24"}
	}
	return nil
}

// Sample returns the example fleet used by the walkthrough
func Sample() []estimator.CameraProfile {
	return []estimator.CameraProfile{
		{Name: "Entrance Camera", BitrateMbps: 4.0, FPS: 25.0, HoursPerDay: 24.0},
		{Name: "Parking Lot Camera", BitrateMbps: 2.0, FPS: 30.0, HoursPerDay: 12.0},
		{Name: "Office Camera", BitrateMbps: 6.0, FPS: 25.0, HoursPerDay: 8.0},
		{Name: "Warehouse Camera", BitrateMbps: 8.0, FPS: 25.0, HoursPerDay: 24.0},
	}
}

// Generated builds n identical cameras named Cam1..CamN
func Generated(n int, bitrateMbps, fps, hoursPerDay float64) ([]estimator.CameraProfile, error) {
	if n <= 0 {
		return nil, ProfileError{Index: 0, Field: "count", Value: n, Message: "number of cameras must be positive"}
	}

	cameras := make([]estimator.CameraProfile, n)
	for i := range cameras {
		cameras[i] = estimator.CameraProfile{
			Name:        fmt.Sprintf("Cam%d", i+1),
			BitrateMbps: bitrateMbps,
			FPS:         fps,
			HoursPerDay: hoursPerDay,
		}
		if err := Validate(i+1, cameras[i]); err != nil {
			return nil, err
		}
	}
	return cameras, nil
}
