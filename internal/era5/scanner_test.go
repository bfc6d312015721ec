package era5

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNetCDF(t *testing.T, vars map[string]api.Variable, order []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "era5.nc")
	cw, err := cdf.OpenWriter(path)
	require.NoError(t, err)
	for _, name := range order {
		require.NoError(t, cw.AddVar(name, vars[name]))
	}
	require.NoError(t, cw.Close())
	return path
}

func TestInspect(t *testing.T) {
	// 1979-01-01 00:00 and 01:00 as hours since 1900.
	hours := []int32{692496, 692497}
	vars := map[string]api.Variable{
		"longitude": {Values: []float32{0, 0.25, 0.5}, Dimensions: []string{"longitude"}},
		"latitude":  {Values: []float32{90, 89.75}, Dimensions: []string{"latitude"}},
		"time":      {Values: hours, Dimensions: []string{"time"}},
		"tp": {
			Values: [][][]int16{
				{{1, 2, 3}, {4, 5, 6}},
				{{7, 8, 9}, {10, 11, 12}},
			},
			Dimensions: []string{"time", "latitude", "longitude"},
		},
	}
	path := writeNetCDF(t, vars, []string{"longitude", "latitude", "time", "tp"})

	s, err := Inspect(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"tp"}, s.Variables)
	assert.Equal(t, 2, s.LaCnt)
	assert.Equal(t, 3, s.LoCnt)
	assert.Equal(t, 2, s.TsCnt)
	assert.Equal(t, int64(283996800000), s.FirstTs)
	assert.Equal(t, int64(283996800000+3600*1000), s.LastTs)
	assert.Contains(t, s.LogAttrs(), "metrics")
}

func TestInspectMissingFile(t *testing.T) {
	_, err := Inspect(filepath.Join(t.TempDir(), "missing.nc"))
	assert.Error(t, err)
}

func TestInspectNotNetCDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.nc")
	require.NoError(t, os.WriteFile(path, []byte("not a netcdf file"), 0o644))
	_, err := Inspect(path)
	assert.Error(t, err)
}

type netcdfWriter struct {
	vars  map[string]api.Variable
	order []string
}

func (w *netcdfWriter) Retrieve(_ context.Context, _ string, _ Request, target string) error {
	cw, err := cdf.OpenWriter(target)
	if err != nil {
		return err
	}
	for _, name := range w.order {
		if err := cw.AddVar(name, w.vars[name]); err != nil {
			return err
		}
	}
	return cw.Close()
}

func TestFetchVerify(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "era5")
	withData := &netcdfWriter{
		vars: map[string]api.Variable{
			"time": {Values: []int32{692496}, Dimensions: []string{"time"}},
			"tp":   {Values: []int16{1}, Dimensions: []string{"time"}},
		},
		order: []string{"time", "tp"},
	}
	f := newFetch(t, withData, func(p *Params) {
		p.OutputPrefix = prefix
		p.Verify = true
	})
	require.NoError(t, f.Fetch(context.Background(), false))
	assert.FileExists(t, prefix+"_total_precipitation_2008_hourly_ensemble.nc")

	axisOnly := &netcdfWriter{
		vars:  map[string]api.Variable{"time": {Values: []int32{692496}, Dimensions: []string{"time"}}},
		order: []string{"time"},
	}
	f = newFetch(t, axisOnly, func(p *Params) {
		p.OutputPrefix = prefix
		p.Verify = true
	})
	err := f.Fetch(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data variables")
}
