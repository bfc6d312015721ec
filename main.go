package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/rtm0/era5cli/internal/cds"
	"github.com/rtm0/era5cli/internal/config"
	"github.com/rtm0/era5cli/internal/era5"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "era5cli:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "era5cli",
		Usage:     "Download ERA5 reanalysis data from the Copernicus Climate Data Store",
		UsageText: "era5cli command [command options]",
		Commands: []*cli.Command{
			{
				Name:   "hourly",
				Usage:  "Request hourly data",
				Flags:  fetchFlags(era5.Hourly),
				Action: runFetch(era5.Hourly),
			},
			{
				Name:   "monthly",
				Usage:  "Request monthly averaged data",
				Flags:  fetchFlags(era5.Monthly),
				Action: runFetch(era5.Monthly),
			},
			{
				Name:      "info",
				Usage:     "List the accepted pressure levels or variables",
				ArgsUsage: "levels|2Dvars|3Dvars|monthly-unavailable",
				Action:    runInfo,
			},
			{
				Name:      "inspect",
				Usage:     "Summarize downloaded NetCDF files",
				ArgsUsage: "FILE...",
				Action:    runInspect,
			},
		},
	}
}

func fetchFlags(period era5.Period) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "variables",
			Usage:    "Variables to download",
			Required: true,
		},
		&cli.IntFlag{
			Name:     "startyear",
			Usage:    "First year of the request",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "endyear",
			Usage: "Last year of the request (defaults to startyear)",
		},
		&cli.IntSliceFlag{
			Name:  "months",
			Value: cli.NewIntSlice(seq(1, 12)...),
			Usage: "Months to download",
		},
		&cli.IntSliceFlag{
			Name:  "hours",
			Value: cli.NewIntSlice(seq(0, 23)...),
			Usage: "Hours to download (monthly: only with --synoptic)",
		},
		&cli.StringSliceFlag{
			Name:  "levels",
			Value: cli.NewStringSlice("surface"),
			Usage: `Pressure levels in hPa, or "surface" for single-level data`,
		},
		&cli.StringFlag{
			Name:  "outputprefix",
			Value: "era5",
			Usage: "Prefix of the output filenames",
		},
		&cli.StringFlag{
			Name:  "format",
			Value: era5.FormatNetCDF,
			Usage: "Output format: netcdf or grib",
		},
		&cli.BoolFlag{
			Name:  "split",
			Value: true,
			Usage: "Write one file per year instead of one for the whole range",
		},
		&cli.IntFlag{
			Name:    "threads",
			Usage:   "Number of simultaneous requests (default: number of CPUs)",
			EnvVars: []string{"ERA5_THREADS"},
		},
		&cli.BoolFlag{
			Name:  "ensemble",
			Usage: "Download the ensemble members instead of the HRES reanalysis",
		},
		&cli.BoolFlag{
			Name:  "dryrun",
			Usage: "Print the requests without submitting them",
		},
		&cli.BoolFlag{
			Name:  "verify",
			Usage: "Check each downloaded NetCDF file holds data variables",
		},
	}
	if period == era5.Hourly {
		flags = append(flags,
			&cli.IntSliceFlag{
				Name:  "days",
				Value: cli.NewIntSlice(seq(1, 31)...),
				Usage: "Days to download",
			},
			&cli.BoolFlag{
				Name:  "statistics",
				Usage: "Download ensemble statistics (requires --ensemble)",
			},
		)
	} else {
		flags = append(flags, &cli.BoolFlag{
			Name:  "synoptic",
			Usage: "Download monthly averages by hour of day",
		})
	}
	return flags
}

func runFetch(period era5.Period) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		cfg := config.LoadFromEnv()
		logger := cfg.Logger(cCtx.App.ErrWriter)

		p, err := paramsFromFlags(cCtx, period)
		if err != nil {
			return err
		}
		dryrun := cCtx.Bool("dryrun")

		var retriever era5.Retriever
		if !dryrun {
			rc, err := cds.Credentials(cfg.CDSURL, cfg.CDSKey, cfg.CDSRCFile)
			if err != nil {
				return err
			}
			client, err := cds.NewClient(logger, cds.Options{
				URL:          rc.URL,
				Key:          rc.Key,
				MaxConns:     p.Threads,
				Timeout:      cfg.HTTPTimeout,
				PollInterval: cfg.PollInterval,
				MaxRetries:   cfg.MaxRetries,
				RetrySleep:   cfg.RetrySleep,
				TLS:          rc.TLSConfig(),
			})
			if err != nil {
				return err
			}
			retriever = client
		}

		f, err := era5.New(logger, retriever, p)
		if err != nil {
			return err
		}
		return f.Fetch(cCtx.Context, dryrun)
	}
}

func paramsFromFlags(cCtx *cli.Context, period era5.Period) (era5.Params, error) {
	years, err := yearRange(cCtx.Int("startyear"), cCtx.Int("endyear"))
	if err != nil {
		return era5.Params{}, err
	}
	levels, err := parseLevels(cCtx.StringSlice("levels"))
	if err != nil {
		return era5.Params{}, err
	}
	statistics := cCtx.Bool("statistics")
	if statistics && !cCtx.Bool("ensemble") {
		return era5.Params{}, fmt.Errorf("--statistics requires --ensemble")
	}
	threads := cCtx.Int("threads")
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return era5.Params{
		Years:          years,
		Months:         cCtx.IntSlice("months"),
		Days:           cCtx.IntSlice("days"),
		Hours:          cCtx.IntSlice("hours"),
		Variables:      cCtx.StringSlice("variables"),
		OutputFormat:   cCtx.String("format"),
		OutputPrefix:   cCtx.String("outputprefix"),
		Period:         period,
		Ensemble:       cCtx.Bool("ensemble"),
		Statistics:     statistics,
		Synoptic:       cCtx.Bool("synoptic"),
		PressureLevels: levels,
		Split:          cCtx.Bool("split"),
		Threads:        threads,
		Verify:         cCtx.Bool("verify"),
	}, nil
}

func yearRange(start, end int) ([]int, error) {
	if end == 0 {
		end = start
	}
	if end < start {
		return nil, fmt.Errorf("endyear %d is before startyear %d", end, start)
	}
	return seq(start, end), nil
}

// parseLevels returns nil for single-level data.
func parseLevels(values []string) ([]int, error) {
	if len(values) == 0 || (len(values) == 1 && values[0] == "surface") {
		return nil, nil
	}
	levels := make([]int, 0, len(values))
	for _, v := range values {
		l, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid pressure level %q", v)
		}
		levels = append(levels, l)
	}
	return levels, nil
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func runInfo(cCtx *cli.Context) error {
	var lines []string
	switch name := cCtx.Args().First(); name {
	case "levels":
		for _, l := range era5.PressureLevels {
			lines = append(lines, strconv.Itoa(l))
		}
	case "2Dvars":
		lines = era5.Sorted(era5.SingleLevelVariables)
	case "3Dvars":
		lines = era5.Sorted(era5.PressureLevelVariables)
	case "monthly-unavailable":
		lines = era5.Sorted(era5.MonthlyUnavailableVariables)
	default:
		return fmt.Errorf("unknown info topic %q, expected levels, 2Dvars, 3Dvars or monthly-unavailable", name)
	}
	_, err := fmt.Fprintln(cCtx.App.Writer, strings.Join(lines, "\n"))
	return err
}

func runInspect(cCtx *cli.Context) error {
	if cCtx.NArg() == 0 {
		return fmt.Errorf("no files given")
	}
	for _, path := range cCtx.Args().Slice() {
		s, err := era5.Inspect(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprintf(cCtx.App.Writer, "%s: variables=%s time=%d latitude=%d longitude=%d\n",
			path, strings.Join(s.Variables, ","), s.TsCnt, s.LaCnt, s.LoCnt)
	}
	return nil
}
