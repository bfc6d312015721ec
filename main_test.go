package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("ENV", "local")
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.RunContext(context.Background(), append([]string{"era5cli"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestYearRange(t *testing.T) {
	years, err := yearRange(2008, 2010)
	require.NoError(t, err)
	assert.Equal(t, []int{2008, 2009, 2010}, years)

	years, err = yearRange(2008, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{2008}, years)

	_, err = yearRange(2010, 2008)
	assert.Error(t, err)
}

func TestParseLevels(t *testing.T) {
	levels, err := parseLevels([]string{"surface"})
	require.NoError(t, err)
	assert.Nil(t, levels)

	levels, err = parseLevels([]string{"500", " 850", "1000"})
	require.NoError(t, err)
	assert.Equal(t, []int{500, 850, 1000}, levels)

	_, err = parseLevels([]string{"500", "surface"})
	assert.Error(t, err)
}

func TestInfo(t *testing.T) {
	out, _, err := runApp(t, "info", "levels")
	require.NoError(t, err)
	lines := strings.Fields(out)
	assert.Equal(t, "1", lines[0])
	assert.Equal(t, "1000", lines[len(lines)-1])

	out, _, err = runApp(t, "info", "3Dvars")
	require.NoError(t, err)
	assert.Contains(t, out, "temperature\n")

	out, _, err = runApp(t, "info", "2Dvars")
	require.NoError(t, err)
	assert.Contains(t, out, "total_precipitation\n")

	_, _, err = runApp(t, "info", "everything")
	assert.Error(t, err)
}

func TestHourlyDryRun(t *testing.T) {
	_, logs, err := runApp(t, "hourly",
		"--variables", "total_precipitation",
		"--startyear", "2008", "--endyear", "2009",
		"--ensemble", "--statistics",
		"--format", "grib",
		"--split=false",
		"--dryrun")
	require.NoError(t, err)
	assert.Contains(t, logs, "reanalysis-era5-single-levels")
	assert.Contains(t, logs, "era5_total_precipitation_2008-2009_hourly_ensemble_statistics.grb")
}

func TestMonthlyDryRunPressureLevels(t *testing.T) {
	_, logs, err := runApp(t, "monthly",
		"--variables", "temperature",
		"--startyear", "2008",
		"--levels", "500", "--levels", "850",
		"--synoptic",
		"--dryrun")
	require.NoError(t, err)
	assert.Contains(t, logs, "reanalysis-era5-pressure-levels-monthly-means")
	assert.Contains(t, logs, "era5_temperature_2008_monthly_synoptic.nc")
}

func TestFetchRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown variable", []string{"hourly", "--variables", "unknown", "--startyear", "2008", "--dryrun"}},
		{"statistics without ensemble", []string{"hourly", "--variables", "total_precipitation", "--startyear", "2008", "--statistics", "--dryrun"}},
		{"endyear before startyear", []string{"hourly", "--variables", "total_precipitation", "--startyear", "2008", "--endyear", "2000", "--dryrun"}},
		{"monthly unavailable", []string{"monthly", "--variables", "wave_spectral_skewness", "--startyear", "2008", "--dryrun"}},
		{"bad level", []string{"monthly", "--variables", "temperature", "--startyear", "2008", "--levels", "9", "--dryrun"}},
		{"missing variables", []string{"hourly", "--startyear", "2008", "--dryrun"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runApp(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestFetchWithoutCredentials(t *testing.T) {
	t.Setenv("CDSAPI_URL", "")
	t.Setenv("CDSAPI_KEY", "")
	t.Setenv("CDSAPI_RC", filepath.Join(t.TempDir(), "missing"))

	_, _, err := runApp(t, "hourly", "--variables", "total_precipitation", "--startyear", "2008")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing CDS credentials")
}

func TestInspectRequiresFiles(t *testing.T) {
	_, _, err := runApp(t, "inspect")
	assert.Error(t, err)

	_, _, err = runApp(t, "inspect", filepath.Join(t.TempDir(), "missing.nc"))
	assert.Error(t, err)
}
