package config

// Args represents command line arguments
type Args struct {
	Exact     *ExactCmd     `arg:"subcommand:exact" help:"storage for a bitrate over a number of days"`
	Hours     *HoursCmd     `arg:"subcommand:hours" help:"storage for a bitrate over a number of hours"`
	FPS       *FPSCmd       `arg:"subcommand:fps" help:"bitrate and storage impact of a frame rate change"`
	Table     *TableCmd     `arg:"subcommand:table" help:"storage estimation table"`
	Reference *ReferenceCmd `arg:"subcommand:reference" help:"quick reference values for 1 Mbps"`
	Fleet     *FleetCmd     `arg:"subcommand:fleet" help:"storage for multiple cameras"`
	Probe     *ProbeCmd     `arg:"subcommand:probe" help:"read stream bitrates from HLS master playlists"`
	Menu      *MenuCmd      `arg:"subcommand:menu" help:"interactive calculator"`

	ConfigPath   string   `arg:"-c,--config,env:STORAGECALC_CONFIG" help:"path to config.json"`
	JSON         bool     `arg:"--json" help:"print results as JSON"`
	LogLevel     string   `arg:"--log-level,env:STORAGECALC_LOG_LEVEL" help:"log level (debug, info, warn, error)"`
	OutPath      string   `arg:"-o,--output,env:STORAGECALC_OUTPUT" help:"write results to this file instead of stdout"`
	ReferenceFPS *float64 `arg:"--reference-fps,env:STORAGECALC_REFERENCE_FPS" help:"frame rate bitrates are quoted at (default 25)"`
}

// Description is shown at the top of --help
func (Args) Description() string {
	return "Video archive storage calculator for camera fleets.\n" +
		"Storage (GB) = Bitrate × 86400 × Days / (8 × 1024) × 0.356"
}

// Version is shown by --version
func (Args) Version() string {
	return Version
}

// ExactCmd calculates storage over days with both formulas
type ExactCmd struct {
	Bitrate float64 `arg:"positional,required" help:"bitrate in Mbps"`
	Days    float64 `arg:"positional,required" help:"duration in days"`
}

// HoursCmd calculates storage over hours
type HoursCmd struct {
	Bitrate float64 `arg:"positional,required" help:"bitrate in Mbps"`
	Hours   float64 `arg:"positional,required" help:"duration in hours"`
}

// FPSCmd calculates the effect of a frame rate change
type FPSCmd struct {
	Bitrate   float64  `arg:"positional,required" help:"base bitrate in Mbps"`
	TargetFPS float64  `arg:"positional,required" help:"new frame rate"`
	Reference *float64 `arg:"-r,--reference" help:"frame rate the base bitrate was measured at"`
}

// TableCmd prints a bitrate × duration table
type TableCmd struct {
	Bitrates  []float64 `arg:"-b,--bitrates" help:"bitrates in Mbps (default 1 2 3 4 5)"`
	Durations []float64 `arg:"-d,--days" help:"durations in days (default 1 7 15 30)"`
}

// ReferenceCmd prints quick reference values
type ReferenceCmd struct{}

// FleetCmd aggregates storage for several cameras
type FleetCmd struct {
	File    string   `arg:"positional" help:"fleet file (.yaml, .yml or .json)"`
	Days    *float64 `arg:"-d,--days" help:"retention window in days"`
	Sample  bool     `arg:"--sample" help:"use the built-in example fleet; cannot be combined with a file or --count"`
	Count   int      `arg:"-n,--count" help:"generate this many identical cameras; cannot be combined with a file or --sample"`
	Bitrate float64  `arg:"--bitrate" help:"bitrate for generated cameras"`
	FPS     float64  `arg:"--fps" default:"25" help:"frame rate for generated cameras"`
	Hours   float64  `arg:"--hours" default:"24" help:"recording hours per day for generated cameras"`
}

// ProbeCmd reads bitrates from HLS playlists
type ProbeCmd struct {
	Sources []string `arg:"positional,required" help:"playlist URLs or files; .txt files list one source per line"`
	Days    *float64 `arg:"-d,--days" help:"retention window in days"`
	Height  int      `arg:"--height" help:"pick the variant with this resolution height instead of the highest bandwidth"`
	Fleet   bool     `arg:"--fleet" help:"aggregate the probed streams as one fleet"`
}

// MenuCmd starts the interactive menu
type MenuCmd struct{}
