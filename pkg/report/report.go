package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/jungletek/vms-storage-calc/pkg/estimator"
	"github.com/jungletek/vms-storage-calc/pkg/probe"
)

const (
	numberFormat = "#,###.##"
	bytesPerGB   = 1 << 30
	maxSizeGB    = math.MaxUint64 / bytesPerGB
)

// Estimate is a single bitrate/duration calculation
type Estimate struct {
	BitrateMbps float64  `json:"bitrate_mbps"`
	Duration    float64  `json:"duration"`
	Unit        string   `json:"unit"`
	ExactGB     float64  `json:"storage_gb"`
	QuickGB     *float64 `json:"storage_quick_gb,omitempty"`
}

// Renderer prints calculation results as text tables or JSON
type Renderer struct {
	w    io.Writer
	json bool
}

// NewRenderer creates a new Renderer
func NewRenderer(w io.Writer, asJSON bool) *Renderer {
	return &Renderer{w: w, json: asJSON}
}

// Number formats v with two decimals and thousands separators
func Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return humanize.FormatFloat(numberFormat, estimator.Round2(v))
}

// Size formats a GB value as a binary byte size, e.g. "394 GiB".
// Values that do not fit a byte count fall back to Number in GB.
func Size(gb float64) string {
	if gb == 0 {
		return "0 B"
	}
	if !(gb > 0) || gb >= maxSizeGB {
		return Number(gb) + " GB"
	}
	return humanize.IBytes(uint64(gb * bytesPerGB))
}

// Estimate renders a single calculation
func (r *Renderer) Estimate(e Estimate) error {
	if r.json {
		return r.encode(e)
	}

	rows := [][]string{
		{"Bitrate", Number(e.BitrateMbps) + " Mbps"},
		{"Duration", Number(e.Duration) + " " + e.Unit},
	}
	if e.QuickGB != nil {
		rows = append(rows,
			[]string{"Storage (exact)", Number(e.ExactGB) + " GB"},
			[]string{"Storage (quick)", Number(*e.QuickGB) + " GB"},
		)
	} else {
		rows = append(rows, []string{"Storage", Number(e.ExactGB) + " GB"})
	}
	rows = append(rows, []string{"Size", Size(e.ExactGB)})

	r.keyValue("STORAGE CALCULATION RESULTS", rows)
	return nil
}

// FPSImpact renders a frame rate comparison
func (r *Renderer) FPSImpact(impact *estimator.FPSImpact) error {
	if r.json {
		return r.encode(impact)
	}

	r.keyValue("FPS IMPACT CALCULATION", [][]string{
		{"Base bitrate", fmt.Sprintf("%s Mbps at %s FPS", Number(impact.BaseBitrateMbps), Number(impact.ReferenceFPS))},
		{"New FPS", Number(impact.TargetFPS)},
		{"Effective bitrate", Number(impact.EffectiveBitrateMbps) + " Mbps"},
		{"Storage 1 day (original)", Number(impact.BaseStorageGB) + " GB"},
		{"Storage 1 day (new)", Number(impact.NewStorageGB) + " GB"},
		{"Change", fmt.Sprintf("%.1f%%", impact.ChangePercent)},
	})
	return nil
}

// StorageTable renders a bitrate × duration grid
func (r *Renderer) StorageTable(table estimator.StorageTable) error {
	if r.json {
		return r.encode(table)
	}

	header := []string{"Bitrate"}
	for _, days := range table.Durations {
		header = append(header, fmt.Sprintf("%g Days (GB)", days))
	}

	tw := r.newTable(header)
	for i, bitrate := range table.Bitrates {
		row := []string{fmt.Sprintf("%g Mbps", bitrate)}
		for _, gb := range table.Cells[i] {
			row = append(row, Number(gb))
		}
		tw.Append(row)
	}

	fmt.Fprintln(r.w, "STORAGE ESTIMATION TABLE")
	tw.Render()
	return nil
}

// QuickReference renders the 1 Mbps reference values
func (r *Renderer) QuickReference(ref estimator.QuickReference) error {
	if r.json {
		return r.encode(ref)
	}

	r.keyValue("QUICK REFERENCE VALUES", [][]string{
		{"1 Mbps per hour", Number(ref.GBPerHour) + " GB"},
		{"1 Mbps per day", Number(ref.GBPerDay) + " GB"},
		{"1 Mbps per month (30 days)", fmt.Sprintf("%.0f GB", ref.GBPerMonth)},
	})
	fmt.Fprintf(r.w, "Note: values include the compression correction (%.1f%% of theoretical)\n",
		estimator.CompressionFactor*100)
	return nil
}

// Fleet renders a multi-camera report
func (r *Renderer) Fleet(report estimator.FleetReport) error {
	if r.json {
		return r.encode(report)
	}

	tw := r.newTable([]string{"Camera", "Bitrate", "FPS", "Hours/Day", "Eff. Bitrate", "Storage (GB)"})
	for _, c := range report.Cameras {
		tw.Append([]string{
			c.Camera.Name,
			Number(c.Camera.BitrateMbps),
			Number(c.Camera.FPS),
			Number(c.Camera.HoursPerDay),
			Number(c.EffectiveBitrateMbps),
			Number(c.StorageGB),
		})
	}
	tw.SetFooter([]string{"Total", "", "", "", Number(report.TotalStorageTB) + " TB", Number(report.TotalStorageGB)})

	fmt.Fprintf(r.w, "MULTIPLE CAMERAS STORAGE CALCULATION (%s days)\n", Number(report.Days))
	tw.Render()
	fmt.Fprintf(r.w, "Total size: %s\n", Size(report.TotalStorageGB))
	return nil
}

// Streams renders probed playlists
func (r *Renderer) Streams(streams []*probe.StreamInfo, days float64) error {
	if r.json {
		return r.encode(streams)
	}

	tw := r.newTable([]string{"Source", "Resolution", "FPS", "Bitrate (Mbps)", fmt.Sprintf("%g Days (GB)", days)})
	for _, s := range streams {
		tw.Append([]string{
			s.Source,
			s.Resolution,
			Number(s.FPS),
			Number(s.BitrateMbps),
			Number(estimator.StorageExact(s.BitrateMbps, days)),
		})
	}
	tw.Render()
	return nil
}

func (r *Renderer) newTable(header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(r.w)
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	return tw
}

func (r *Renderer) keyValue(title string, rows [][]string) {
	fmt.Fprintln(r.w, title)

	tw := tablewriter.NewWriter(r.w)
	tw.SetBorder(false)
	tw.SetColumnSeparator(":")
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.AppendBulk(rows)
	tw.Render()
}

func (r *Renderer) encode(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", strings.Repeat(" ", 2))
	return enc.Encode(v)
}
