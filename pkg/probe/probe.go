package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/grafov/m3u8"

	"github.com/jungletek/vms-storage-calc/pkg/estimator"
	"github.com/jungletek/vms-storage-calc/pkg/fsutil"
	"github.com/jungletek/vms-storage-calc/pkg/logger"
)

const (
	RequestTimeout = 30 * time.Second
	bitsPerMegabit = 1_000_000
)

var (
	ErrNotMaster  = errors.New("not a master playlist")
	ErrNoVariants = errors.New("master playlist has no variants")
)

// ProbeError represents a failure to fetch a playlist
type ProbeError struct {
	Source  string
	Status  int
	Message string
}

func (e ProbeError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("probe error: %s: %s (HTTP %d)", e.Source, e.Message, e.Status)
	}
	return fmt.Sprintf("probe error: %s: %s", e.Source, e.Message)
}

// StreamInfo describes the variant chosen from a playlist
type StreamInfo struct {
	Source              string  `json:"source"`
	URI                 string  `json:"uri"`
	BandwidthBps        uint32  `json:"bandwidth_bps"`
	AverageBandwidthBps uint32  `json:"average_bandwidth_bps,omitempty"`
	Resolution          string  `json:"resolution,omitempty"`
	FPS                 float64 `json:"fps"`
	BitrateMbps         float64 `json:"bitrate_mbps"`
}

// Profile turns the stream into a camera profile recording around the clock
func (s *StreamInfo) Profile(name string) estimator.CameraProfile {
	if name == "" {
		name = s.Source
	}
	return estimator.CameraProfile{
		Name:        name,
		BitrateMbps: s.BitrateMbps,
		FPS:         s.FPS,
		HoursPerDay: estimator.HoursPerDay,
	}
}

// Prober reads HLS master playlists from files or HTTP
type Prober struct {
	client *http.Client
}

// NewProber creates a new Prober. A nil client uses one with RequestTimeout.
func NewProber(client *http.Client) *Prober {
	if client == nil {
		client = &http.Client{Timeout: RequestTimeout}
	}
	return &Prober{client: client}
}

// Probe reads source and picks a variant. wantHeight 0 selects the highest bandwidth.
func (p *Prober) Probe(ctx context.Context, source string, wantHeight int) (*StreamInfo, error) {
	body, err := p.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	master, err := decodeMaster(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	variant, err := ChooseVariant(master.Variants, wantHeight)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	info := streamInfo(source, variant)
	logger.GetLogger().WithField("source", source).WithField("bitrate_mbps", info.BitrateMbps).Debug("Stream probed")
	return info, nil
}

// ExpandSources replaces .txt arguments with the sources listed in them, dropping duplicates
func ExpandSources(args []string) ([]string, error) {
	var sources []string
	seen := map[string]bool{}

	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			sources = append(sources, s)
		}
	}

	for _, arg := range args {
		if !fsutil.HasExt(arg, ".txt") {
			add(arg)
			continue
		}
		lines, err := fsutil.ReadTxtFile(arg)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			add(line)
		}
	}
	return sources, nil
}

// ChooseVariant sorts variants by bandwidth and returns the one matching wantHeight,
// falling back to the highest bandwidth when wantHeight is 0.
func ChooseVariant(variants []*m3u8.Variant, wantHeight int) (*m3u8.Variant, error) {
	var candidates []*m3u8.Variant
	for _, v := range variants {
		if v != nil && !v.Iframe {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoVariants
	}

	sort.SliceStable(candidates, func(x, y int) bool {
		return candidates[x].Bandwidth > candidates[y].Bandwidth
	})

	if wantHeight == 0 {
		return candidates[0], nil
	}

	suffix := fmt.Sprintf("x%d", wantHeight)
	for _, v := range candidates {
		if strings.HasSuffix(v.Resolution, suffix) {
			return v, nil
		}
	}
	return nil, fmt.Errorf("no variant with resolution height %d", wantHeight)
}

func (p *Prober) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, ProbeError{Source: source, Message: err.Error()}
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, ProbeError{Source: source, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, ProbeError{Source: source, Status: resp.StatusCode, Message: resp.Status}
	}
	return resp.Body, nil
}

func decodeMaster(r io.Reader) (*m3u8.MasterPlaylist, error) {
	playlist, _, err := m3u8.DecodeFrom(r, true)
	if err != nil {
		return nil, err
	}

	master, ok := playlist.(*m3u8.MasterPlaylist)
	if !ok {
		return nil, ErrNotMaster
	}
	return master, nil
}

func streamInfo(source string, v *m3u8.Variant) *StreamInfo {
	info := &StreamInfo{
		Source:              source,
		URI:                 v.URI,
		BandwidthBps:        v.Bandwidth,
		AverageBandwidthBps: v.AverageBandwidth,
		Resolution:          v.Resolution,
		FPS:                 v.FrameRate,
	}

	// Storage tracks the average rate; BANDWIDTH is the peak
	bps := v.Bandwidth
	if v.AverageBandwidth > 0 {
		bps = v.AverageBandwidth
	}
	info.BitrateMbps = float64(bps) / bitsPerMegabit

	if info.FPS <= 0 {
		info.FPS = estimator.DefaultReferenceFPS
	}
	return info
}
