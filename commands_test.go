package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jungletek/vms-storage-calc/pkg/config"
	"github.com/jungletek/vms-storage-calc/pkg/estimator"
	"github.com/jungletek/vms-storage-calc/pkg/fleet"
)

// TestSuite for subcommand dispatch
type CommandsTestSuite struct {
	suite.Suite
	tempDir string
	oldWd   string
	out     bytes.Buffer
}

// SetupTest runs each test from an empty temporary directory
func (suite *CommandsTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "commands_test_*")
	require.NoError(suite.T(), err)
	suite.tempDir = tempDir

	suite.oldWd, err = os.Getwd()
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), os.Chdir(tempDir))
	suite.out.Reset()
}

// TearDownTest restores the working directory
func (suite *CommandsTestSuite) TearDownTest() {
	os.Chdir(suite.oldWd)
	os.RemoveAll(suite.tempDir)
}

func (suite *CommandsTestSuite) exec(stdin string, argv ...string) error {
	cfg, err := config.ParseCfg(argv)
	require.NoError(suite.T(), err)
	return run(context.Background(), cfg, strings.NewReader(stdin), &suite.out)
}

// TestExact tests the exact subcommand
func (suite *CommandsTestSuite) TestExact() {
	require.NoError(suite.T(), suite.exec("", "exact", "4", "7"))

	assert.Contains(suite.T(), suite.out.String(), "105.13 GB")
	assert.Contains(suite.T(), suite.out.String(), "105.00 GB")
}

// TestHours_JSON tests JSON output for the hours subcommand
func (suite *CommandsTestSuite) TestHours_JSON() {
	require.NoError(suite.T(), suite.exec("", "--json", "hours", "2", "12"))

	var decoded map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(suite.out.Bytes(), &decoded))
	assert.InDelta(suite.T(), estimator.StorageExact(2, 0.5), decoded["storage_gb"], 1e-12)
}

// TestFPS_ConfiguredReference tests that the global reference FPS is the default
func (suite *CommandsTestSuite) TestFPS_ConfiguredReference() {
	require.NoError(suite.T(), suite.exec("", "--json", "--reference-fps", "30", "fps", "6", "15"))

	var impact estimator.FPSImpact
	require.NoError(suite.T(), json.Unmarshal(suite.out.Bytes(), &impact))
	assert.Equal(suite.T(), 30.0, impact.ReferenceFPS)
	assert.InDelta(suite.T(), 3.0, impact.EffectiveBitrateMbps, 1e-9)
}

// TestFPS_ZeroReference tests that the arithmetic fault reaches the caller
func (suite *CommandsTestSuite) TestFPS_ZeroReference() {
	err := suite.exec("", "fps", "-r", "0", "4", "30")

	assert.ErrorIs(suite.T(), err, estimator.ErrZeroReferenceFPS)
}

// TestEstimates_OutOfRange tests that non-positive and non-finite arguments are rejected
func (suite *CommandsTestSuite) TestEstimates_OutOfRange() {
	cases := [][]string{
		{"exact", "NaN", "7"},
		{"exact", "4", "--", "-7"},
		{"exact", "4", "0"},
		{"hours", "4", "+Inf"},
		{"hours", "--", "-2", "12"},
		{"fps", "4", "30", "--reference", "NaN"},
		{"fps", "4", "30", "--reference=-25"},
		{"fps", "4", "Inf"},
		{"table", "-b", "NaN"},
		{"table", "-d", "0"},
	}
	for _, argv := range cases {
		suite.out.Reset()
		err := suite.exec("", argv...)

		var cfgErr config.ConfigError
		assert.ErrorAs(suite.T(), err, &cfgErr, "args %v", argv)
		assert.Empty(suite.T(), suite.out.String(), "args %v", argv)
	}
}

// TestTable_CustomAxes tests table flags
func (suite *CommandsTestSuite) TestTable_CustomAxes() {
	require.NoError(suite.T(), suite.exec("", "--json", "table", "-b", "8", "-d", "60"))

	var table estimator.StorageTable
	require.NoError(suite.T(), json.Unmarshal(suite.out.Bytes(), &table))
	assert.Equal(suite.T(), []float64{8}, table.Bitrates)
	assert.InDelta(suite.T(), estimator.StorageExact(8, 60), table.Cells[0][0], 1e-9)
}

// TestFleet_Sample tests the built-in fleet
func (suite *CommandsTestSuite) TestFleet_Sample() {
	require.NoError(suite.T(), suite.exec("", "--json", "fleet", "--sample", "-d", "7"))

	var rep estimator.FleetReport
	require.NoError(suite.T(), json.Unmarshal(suite.out.Bytes(), &rep))
	assert.Equal(suite.T(), estimator.AggregateFleet(fleet.Sample(), 7), rep)
}

// TestFleet_FileDays tests that the file's days apply unless overridden
func (suite *CommandsTestSuite) TestFleet_FileDays() {
	path := filepath.Join(suite.tempDir, "site.yaml")
	require.NoError(suite.T(), os.WriteFile(path, []byte("days: 14\ncameras:\n  - bitrate: 4\n"), 0644))

	require.NoError(suite.T(), suite.exec("", "--json", "fleet", path))
	var rep estimator.FleetReport
	require.NoError(suite.T(), json.Unmarshal(suite.out.Bytes(), &rep))
	assert.Equal(suite.T(), 14.0, rep.Days)

	suite.out.Reset()
	require.NoError(suite.T(), suite.exec("", "--json", "fleet", path, "-d", "3"))
	require.NoError(suite.T(), json.Unmarshal(suite.out.Bytes(), &rep))
	assert.Equal(suite.T(), 3.0, rep.Days)
}

// TestFleet_Generated tests --count with the configured default days
func (suite *CommandsTestSuite) TestFleet_Generated() {
	require.NoError(suite.T(), suite.exec("", "--json", "fleet", "-n", "3", "--bitrate", "2", "--hours", "12"))

	var rep estimator.FleetReport
	require.NoError(suite.T(), json.Unmarshal(suite.out.Bytes(), &rep))
	assert.Len(suite.T(), rep.Cameras, 3)
	assert.Equal(suite.T(), float64(config.DefaultDays), rep.Days)
	assert.InDelta(suite.T(), 3*estimator.StorageExact(1, 30), rep.TotalStorageGB, 1e-9)
}

// TestFleet_NoSource tests the missing input error
func (suite *CommandsTestSuite) TestFleet_NoSource() {
	err := suite.exec("", "fleet")

	assert.Error(suite.T(), err)
}

// TestFleet_NonPositiveDays tests the retention window check
func (suite *CommandsTestSuite) TestFleet_NonPositiveDays() {
	err := suite.exec("", "fleet", "--sample", "-d", "0")

	assert.Error(suite.T(), err)
}

// TestFleet_InfiniteDays tests that an infinite retention window is rejected
func (suite *CommandsTestSuite) TestFleet_InfiniteDays() {
	err := suite.exec("", "fleet", "--sample", "--days", "+Inf")

	var cfgErr config.ConfigError
	require.ErrorAs(suite.T(), err, &cfgErr)
	assert.Equal(suite.T(), "days", cfgErr.Field)
	assert.Empty(suite.T(), suite.out.String())
}

// TestFleet_ConflictingSources tests that only one fleet source is accepted
func (suite *CommandsTestSuite) TestFleet_ConflictingSources() {
	path := filepath.Join(suite.tempDir, "site.yaml")
	require.NoError(suite.T(), os.WriteFile(path, []byte("cameras:\n  - bitrate: 4\n"), 0644))

	for _, argv := range [][]string{
		{"fleet", path, "--sample"},
		{"fleet", path, "-n", "3", "--bitrate", "2"},
		{"fleet", "--sample", "-n", "3", "--bitrate", "2"},
	} {
		err := suite.exec("", argv...)
		assert.ErrorContains(suite.T(), err, "only one of", "args %v", argv)
	}
}

// TestProbe_InvalidDays tests the probe retention window check
func (suite *CommandsTestSuite) TestProbe_InvalidDays() {
	playlist := "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=2000000,RESOLUTION=1280x720\n720p.m3u8\n"
	path := filepath.Join(suite.tempDir, "cam.m3u8")
	require.NoError(suite.T(), os.WriteFile(path, []byte(playlist), 0644))

	for _, days := range []string{"0", "NaN", "+Inf"} {
		err := suite.exec("", "probe", "-d", days, path)

		var cfgErr config.ConfigError
		assert.ErrorAs(suite.T(), err, &cfgErr, "days %s", days)
	}
	assert.Empty(suite.T(), suite.out.String())
}

// TestProbe_LocalFleet tests probing a playlist file into a fleet
func (suite *CommandsTestSuite) TestProbe_LocalFleet() {
	playlist := "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=2000000,RESOLUTION=1280x720\n720p.m3u8\n"
	path := filepath.Join(suite.tempDir, "cam.m3u8")
	require.NoError(suite.T(), os.WriteFile(path, []byte(playlist), 0644))

	require.NoError(suite.T(), suite.exec("", "--json", "probe", "--fleet", "-d", "7", path))

	var rep estimator.FleetReport
	require.NoError(suite.T(), json.Unmarshal(suite.out.Bytes(), &rep))
	require.Len(suite.T(), rep.Cameras, 1)
	assert.InDelta(suite.T(), estimator.StorageExact(2, 7), rep.TotalStorageGB, 1e-9)
}

// TestOutputFile tests writing results to --output
func (suite *CommandsTestSuite) TestOutputFile() {
	path := filepath.Join(suite.tempDir, "reports", "ref.txt")

	require.NoError(suite.T(), suite.exec("", "-o", path, "reference"))

	assert.Empty(suite.T(), suite.out.String())
	data, err := os.ReadFile(path)
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), string(data), "QUICK REFERENCE VALUES")
}

// TestMenu tests that the menu reads from stdin
func (suite *CommandsTestSuite) TestMenu() {
	require.NoError(suite.T(), suite.exec("4\n6\n", "menu"))

	assert.Contains(suite.T(), suite.out.String(), "[EXIT] Goodbye!")
}

// TestWalkthrough tests the default output
func (suite *CommandsTestSuite) TestWalkthrough() {
	require.NoError(suite.T(), suite.exec(""))

	out := suite.out.String()
	assert.Contains(suite.T(), out, "Example 1: Basic Storage Calculation")
	assert.Contains(suite.T(), out, "Warehouse Camera")
	assert.Contains(suite.T(), out, "menu")
}

// TestCommandName tests log context names
func (suite *CommandsTestSuite) TestCommandName() {
	assert.Equal(suite.T(), "walkthrough", commandName(nil))
	assert.Equal(suite.T(), "fleet", commandName(&config.FleetCmd{}))
	assert.Equal(suite.T(), "reference", commandName(&config.ReferenceCmd{}))
}

// TestShowBanner tests banner suppression
func (suite *CommandsTestSuite) TestShowBanner() {
	cfg, err := config.ParseCfg(nil)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), showBanner(cfg))

	cfg, err = config.ParseCfg([]string{"--json"})
	require.NoError(suite.T(), err)
	assert.False(suite.T(), showBanner(cfg))

	cfg, err = config.ParseCfg([]string{"exact", "1", "1"})
	require.NoError(suite.T(), err)
	assert.False(suite.T(), showBanner(cfg))
}

// TestBanner tests that the banner carries its own line endings
func (suite *CommandsTestSuite) TestBanner() {
	assert.True(suite.T(), strings.HasSuffix(banner, "|___/\n"))
	assert.False(suite.T(), strings.HasSuffix(banner, "\n\n"))
}

// Run the test suite
func TestCommandsTestSuite(t *testing.T) {
	suite.Run(t, new(CommandsTestSuite))
}
