package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpgo/wealth-simulator/internal/config"
	"github.com/rpgo/wealth-simulator/internal/output"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writeExample writes the example scenario into a temp dir and returns its path.
func writeExample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	_, err := execute(t, "example", path)
	require.NoError(t, err)
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "wealthsim version "+version+" (commit: "+commit+")\n", out)
}

func TestExampleThenValidate(t *testing.T) {
	path := writeExample(t)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, path+" is valid")
	assert.Contains(t, out, "guardrail strategy")
	assert.Contains(t, out, "economic model: volatile")
}

func TestValidateRejectsBadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("years_total: 0\n"), 0644))

	_, err := execute(t, "validate", path)
	var verr *config.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRunConsole(t *testing.T) {
	path := writeExample(t)

	out, err := execute(t, "run", path, "-n", "20", "--seed", "3", "-f", "summary", "--log-level", "error")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "WEALTH SIMULATION SUMMARY"), out)
	assert.Contains(t, out, "Simulations: 20 (seed 3)")
}

func TestRunWritesFiles(t *testing.T) {
	path := writeExample(t)
	dir := filepath.Join(t.TempDir(), "reports")

	out, err := execute(t, "run", path, "-n", "10", "--seed", "3", "-f", "csv", "-o", dir, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Report written: ")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "wealth_csv_"))
}

func TestRunUnknownFormat(t *testing.T) {
	path := writeExample(t)

	_, err := execute(t, "run", path, "-n", "5", "--seed", "3", "-f", "xml", "-o", t.TempDir(), "--log-level", "error")
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
}

func TestModelsCmd(t *testing.T) {
	out, err := execute(t, "models")
	require.NoError(t, err)
	assert.Contains(t, out, "volatile")
	assert.Contains(t, out, "lost-decade")
}

func TestCalibrateSample(t *testing.T) {
	plan := writeExample(t)
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	target := filepath.Join(dir, "calibrated.yaml")

	out, err := execute(t, "calibrate", "--sample", "--years", "20", "--write-data", dataDir, "--apply", plan, "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, "equity     2005-2024")
	assert.Contains(t, out, "latest year 2024: equity ")
	assert.Contains(t, out, "Calibrated scenario written to "+target)

	params, err := config.NewInputParser().LoadFromFile(target)
	require.NoError(t, err)
	assert.Empty(t, params.EconomicModel)

	// The written series load back through the file path.
	out, err = execute(t, "calibrate", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "inflation  2005-2024  n=20")
}

func TestCalibrateNeedsData(t *testing.T) {
	_, err := execute(t, "calibrate")
	assert.ErrorContains(t, err, "no data directory")

	_, err = execute(t, "calibrate", "--sample", "--apply", "plan.yaml")
	assert.ErrorContains(t, err, "--apply needs --out")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger("debug", &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	logger.Infof("simulating %d trajectories", 3)
	assert.Equal(t, "level=info msg=\"simulating 3 trajectories\"\n", buf.String())

	_, err = newLogger("loud", &buf)
	assert.Error(t, err)
}
