package era5

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Period is the temporal resolution of the requested data.
type Period string

const (
	Hourly  Period = "hourly"
	Monthly Period = "monthly"
)

// Output formats accepted by the archive.
const (
	FormatNetCDF = "netcdf"
	FormatGRIB   = "grib"
)

var extensions = map[string]string{
	FormatNetCDF: "nc",
	FormatGRIB:   "grb",
}

// Request is the request body submitted to the archive for one dataset.
type Request map[string]any

// Retriever submits a request for a dataset and stores the result at target.
type Retriever interface {
	Retrieve(ctx context.Context, dataset string, req Request, target string) error
}

// Params holds the raw, user supplied values of a download request.
type Params struct {
	Years          []int
	Months         []int
	Days           []int
	Hours          []int
	Variables      []string
	OutputFormat   string
	OutputPrefix   string
	Period         Period
	Ensemble       bool
	Statistics     bool
	Synoptic       bool
	PressureLevels []int
	Split          bool
	Threads        int
	Verify         bool
}

// Fetch is a validated download request. Months, days and hours are held in the
// string form the archive expects.
type Fetch struct {
	Years          []int
	Months         []string
	Days           []string
	Hours          []string
	Variables      []string
	OutputFormat   string
	OutputPrefix   string
	Period         Period
	Ensemble       bool
	Statistics     bool
	Synoptic       bool
	PressureLevels []int
	Split          bool
	Threads        int
	Verify         bool

	logger    *slog.Logger
	retriever Retriever
}

// New normalizes p into a download request. Variables and pressure levels are
// checked against the archive vocabularies when requests are built.
func New(logger *slog.Logger, retriever Retriever, p Params) (*Fetch, error) {
	if len(p.Years) == 0 {
		return nil, invalidArgumentf("at least one year is required")
	}
	if len(p.Variables) == 0 {
		return nil, invalidArgumentf("at least one variable is required")
	}
	if p.Period != Hourly && p.Period != Monthly {
		return nil, invalidArgumentf("unknown period %q", p.Period)
	}
	months, err := normalize(p.Months, 1, 12, "month", "%02d")
	if err != nil {
		return nil, err
	}
	days, err := normalize(p.Days, 1, 31, "day", "%02d")
	if err != nil {
		return nil, err
	}
	hours, err := normalize(p.Hours, 0, 23, "hour", "%02d:00")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	prefix := p.OutputPrefix
	if prefix == "" {
		prefix = "era5"
	}
	threads := p.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return &Fetch{
		Years:          uniqueSorted(p.Years),
		Months:         months,
		Days:           days,
		Hours:          hours,
		Variables:      unique(p.Variables),
		OutputFormat:   p.OutputFormat,
		OutputPrefix:   prefix,
		Period:         p.Period,
		Ensemble:       p.Ensemble,
		Statistics:     p.Statistics,
		Synoptic:       p.Synoptic,
		PressureLevels: levelsOrNil(p.PressureLevels),
		Split:          p.Split,
		Threads:        threads,
		Verify:         p.Verify,
		logger:         logger,
		retriever:      retriever,
	}, nil
}

func normalize(values []int, lo, hi int, what, format string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v < lo || v > hi {
			return nil, invalidArgumentf("%s %d outside %d-%d", what, v, lo, hi)
		}
		out = append(out, fmt.Sprintf(format, v))
	}
	return out, nil
}

// unique drops repeated values, keeping the first occurrence of each.
func unique[T comparable](values []T) []T {
	seen := make(map[T]struct{}, len(values))
	out := make([]T, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// levelsOrNil returns nil for single-level data.
func levelsOrNil(levels []int) []int {
	if len(levels) == 0 {
		return nil
	}
	return levels
}

func uniqueSorted(years []int) []int {
	out := unique(years)
	sort.Ints(out)
	return out
}

// Extension returns the file extension of the configured output format.
func (f *Fetch) Extension() (string, error) {
	ext, ok := extensions[f.OutputFormat]
	if !ok {
		return "", invalidArgumentf("unknown output format %q", f.OutputFormat)
	}
	return ext, nil
}

// ProductType returns the archive product type. The monthly period takes precedence
// over ensemble membership.
func (f *Fetch) ProductType() string {
	if f.Period == Monthly {
		if f.Synoptic || f.Statistics {
			return "monthly_averaged_reanalysis_by_hour_of_day"
		}
		return "monthly_averaged_reanalysis"
	}
	if f.Ensemble {
		return "ensemble_members"
	}
	return "reanalysis"
}

// OutputFilename returns the name of the file a request for variable over years is
// stored in, e.g. era5_total_precipitation_2008-2009_hourly_ensemble.nc.
func (f *Fetch) OutputFilename(variable string, years []int) (string, error) {
	ext, err := f.Extension()
	if err != nil {
		return "", err
	}
	if len(years) == 0 {
		return "", invalidArgumentf("no years given for %s", variable)
	}
	span := strconv.Itoa(years[0])
	if len(years) > 1 {
		span = fmt.Sprintf("%d-%d", years[0], years[len(years)-1])
	}
	parts := []string{f.OutputPrefix, variable, span, string(f.Period)}
	if f.Ensemble {
		parts = append(parts, "ensemble")
	}
	if f.Statistics {
		parts = append(parts, "statistics")
	}
	if f.Synoptic {
		parts = append(parts, "synoptic")
	}
	return strings.Join(parts, "_") + "." + ext, nil
}

// BuildRequest returns the dataset name and request body for variable over years.
func (f *Fetch) BuildRequest(variable string, years []int) (string, Request, error) {
	levels := len(f.PressureLevels) > 0
	if !IsVariable(variable, levels) {
		if levels {
			return "", nil, invalidArgumentf("invalid pressure level variable %q", variable)
		}
		return "", nil, invalidArgumentf("invalid single level variable %q", variable)
	}
	for _, l := range f.PressureLevels {
		if !IsPressureLevel(l) {
			return "", nil, invalidArgumentf("invalid pressure level %d", l)
		}
	}
	if f.Period == Monthly && !MonthlyAvailable(variable) {
		return "", nil, invalidArgumentf("variable %q is not available for monthly data", variable)
	}

	name := "reanalysis-era5-single-levels"
	if levels {
		name = "reanalysis-era5-pressure-levels"
	}
	req := Request{
		"variable":     variable,
		"year":         years,
		"month":        f.Months,
		"time":         f.Hours,
		"product_type": f.ProductType(),
		"format":       f.OutputFormat,
	}
	if f.Period == Monthly {
		name += "-monthly-means"
		if !f.Synoptic {
			req["time"] = "00:00"
		}
	} else {
		req["day"] = f.Days
	}
	if levels {
		req["pressure_level"] = f.PressureLevels
	}
	return name, req, nil
}

type job struct {
	dataset string
	req     Request
	target  string
}

func (f *Fetch) jobs() ([]job, error) {
	var yearSets [][]int
	if f.Split {
		for _, y := range f.Years {
			yearSets = append(yearSets, []int{y})
		}
	} else {
		yearSets = [][]int{f.Years}
	}

	var jobs []job
	for _, v := range f.Variables {
		for _, years := range yearSets {
			name, req, err := f.BuildRequest(v, years)
			if err != nil {
				return nil, err
			}
			target, err := f.OutputFilename(v, years)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job{dataset: name, req: req, target: target})
		}
	}
	return jobs, nil
}

// Fetch builds every request and hands them to the retriever, at most Threads at a
// time. Nothing is retrieved if any request fails validation. With dryrun the requests
// are logged instead.
func (f *Fetch) Fetch(ctx context.Context, dryrun bool) error {
	jobs, err := f.jobs()
	if err != nil {
		return err
	}
	if dryrun {
		for _, j := range jobs {
			f.logger.Info("dry run", "dataset", j.dataset, "request", j.req, "target", j.target)
		}
		return nil
	}
	if f.retriever == nil {
		return fmt.Errorf("no retriever configured")
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(f.Threads, 1))
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			f.logger.Info("Retrieving", "dataset", j.dataset, "target", j.target)
			if err := f.retriever.Retrieve(gCtx, j.dataset, j.req, j.target); err != nil {
				return fmt.Errorf("retrieving %s: %w", j.target, err)
			}
			if f.Verify && f.OutputFormat == FormatNetCDF {
				return f.verify(j.target)
			}
			return nil
		})
	}
	return g.Wait()
}

func (f *Fetch) verify(path string) error {
	summary, err := Inspect(path)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", path, err)
	}
	if len(summary.Variables) == 0 {
		return fmt.Errorf("verifying %s: no data variables", path)
	}
	f.logger.Info("Verified", append([]any{"file", path}, summary.LogAttrs()...)...)
	return nil
}
