package era5

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// TZ=UTC date --date="1900-01-01 00:00:00" +%s
const unixSecs1900 = -2208988800

var coordinates = map[string]bool{
	"latitude":  true,
	"longitude": true,
	"time":      true,
	"level":     true,
	"number":    true,
	"expver":    true,
}

// FileSummary describes a downloaded ERA5 NetCDF file.
type FileSummary struct {
	Variables []string
	LaCnt     int
	LoCnt     int
	TsCnt     int
	// First and last timestamps in Unix milliseconds. Zero if the file has no time axis.
	FirstTs int64
	LastTs  int64
}

// Inspect opens the NetCDF file at filePath and summarizes its contents.
func Inspect(filePath string) (*FileSummary, error) {
	nc, err := netcdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer nc.Close()

	s := &FileSummary{}
	for _, name := range nc.ListVariables() {
		if !coordinates[name] {
			s.Variables = append(s.Variables, name)
		}
	}
	s.LaCnt = axisLen(nc, "latitude")
	s.LoCnt = axisLen(nc, "longitude")

	hours, err := timeValues(nc)
	if err != nil {
		return nil, err
	}
	s.TsCnt = len(hours)
	if len(hours) > 0 {
		s.FirstTs = hoursToUnixMillis(hours[0])
		s.LastTs = hoursToUnixMillis(hours[len(hours)-1])
	}
	return s, nil
}

func axisLen(nc api.Group, name string) int {
	vg, err := nc.GetVarGetter(name)
	if err != nil {
		return 0
	}
	return int(vg.Len())
}

// timeValues returns the time axis as hours since 1900-01-01.
func timeValues(nc api.Group) ([]int64, error) {
	vg, err := nc.GetVarGetter("time")
	if err != nil {
		return nil, nil
	}
	v, err := vg.Values()
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case []int32:
		out := make([]int64, len(t))
		for i, h := range t {
			out[i] = int64(h)
		}
		return out, nil
	case []int64:
		return t, nil
	case []float64:
		out := make([]int64, len(t))
		for i, h := range t {
			out[i] = int64(h)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported time axis type %T", v)
	}
}

func hoursToUnixMillis(h int64) int64 {
	return (h*3600 + unixSecs1900) * 1000
}

// LogAttrs returns the summary as key/value pairs suitable for logging.
func (s *FileSummary) LogAttrs() []any {
	return []any{
		"metrics", s.Variables,
		"tsCnt", s.TsCnt,
		"laCnt", s.LaCnt,
		"loCnt", s.LoCnt,
		"firstTs", s.FirstTs,
		"lastTs", s.LastTs,
	}
}
