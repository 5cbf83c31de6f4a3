// Command chartrender renders bar, line and radar charts from JSON requests
// or .xlsx worksheets into PNG or JPEG images.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	gochart "github.com/VantageDataChat/GoChart"
)

type options struct {
	input      string
	xlsx       string
	sheet      string
	output     string
	format     string
	quality    int
	fontDirs   []string
	axisFont   string
	headerFont string
	assetDir   string
	colours    []string
	multiplier int
	flatten    bool
	verbose    bool
}

func main() {
	var o options
	rootCmd := &cobra.Command{
		Use:     "chartrender",
		Short:   "Render charts to images",
		Version: gochart.Version,
		Long: `chartrender renders bar, line and radar charts.
The chart is read as a JSON request (--input, default stdin) or from an
.xlsx worksheet (--xlsx) and written as PNG or JPEG (--output, default stdout).`,
		SilenceUsage: true,
	}
	addFlags(rootCmd.PersistentFlags(), &o)

	for _, kind := range []gochart.ChartKind{gochart.ChartBar, gochart.ChartLine, gochart.ChartRadar} {
		rootCmd.AddCommand(&cobra.Command{
			Use:   kind.String(),
			Short: fmt.Sprintf("Render a %s chart", kind),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, kind, &o)
			},
		})
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "fonts",
		Short: "List the fonts available to --axis-font and --header-font",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			names := gochart.NewFontCache(o.fontDirs...).SetLogger(logger).Names()
			slices.Sort(names)
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	if err := rootCmd.Execute(); err != nil {
		var verr *gochart.ValidationError
		if errors.As(err, &verr) {
			os.Exit(int(verr.Code()))
		}
		os.Exit(1)
	}
}

func addFlags(fs *pflag.FlagSet, o *options) {
	fs.StringVarP(&o.input, "input", "i", "-", "JSON request file (- for stdin)")
	fs.StringVar(&o.xlsx, "xlsx", "", "Read series from this .xlsx workbook instead of JSON")
	fs.StringVar(&o.sheet, "sheet", "", "Worksheet to read with --xlsx (default: first sheet)")
	fs.StringVarP(&o.output, "output", "o", "-", "Output image file (- for stdout)")
	fs.StringVar(&o.format, "format", "", "Output format: png or jpeg (default: from --output extension)")
	fs.IntVar(&o.quality, "quality", 90, "JPEG quality (1-100)")
	fs.StringSliceVar(&o.fontDirs, "font-dir", nil, "Directories to search for .ttf/.otf fonts")
	fs.StringVar(&o.axisFont, "axis-font", gochart.DefaultAxisFont, "Font for tick labels, names and legends")
	fs.StringVar(&o.headerFont, "header-font", gochart.DefaultHeaderFont, "Font for the x and y headers")
	fs.StringVar(&o.assetDir, "asset-dir", "", "Directory of icon images referenced by requests")
	fs.StringSliceVar(&o.colours, "colours", nil, "Layer palette as hex colors (overrides the request)")
	fs.IntVar(&o.multiplier, "multiplier", 0, "Supersampling factor 1-5 (overrides the request)")
	fs.BoolVar(&o.flatten, "flatten", false, "Composite the chart onto an opaque background")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Log debug output to stderr")
}

func run(cmd *cobra.Command, kind gochart.ChartKind, o *options) error {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	opts, err := loadAssets(o, logger)
	if err != nil {
		return err
	}

	req, err := readRequest(cmd, kind, o)
	if err != nil {
		logger.Error("invalid request", "error", err)
		return err
	}
	if cmd.Flags().Changed("multiplier") {
		req.Config.Multiplier = o.multiplier
	}
	if cmd.Flags().Changed("flatten") {
		req.Config.Flatten = o.flatten
	}
	if len(o.colours) > 0 {
		req.Config.Palette = req.Config.Palette[:0]
		for _, s := range o.colours {
			c, err := gochart.ParseColor(s)
			if err != nil {
				return err
			}
			req.Config.Palette = append(req.Config.Palette, c)
		}
	}

	format := o.format
	if format == "" && o.output != "-" {
		format = filepath.Ext(o.output)
	}
	if opts.Format, err = gochart.ParseImageFormat(format); err != nil {
		return err
	}
	opts.JPEGQuality = o.quality

	img, err := req.Render(opts)
	if err != nil {
		logger.Error("render failed", "chart", kind.String(), "error", err)
		return err
	}

	if o.output == "-" {
		return gochart.EncodeImage(cmd.OutOrStdout(), img, opts.Format, opts.JPEGQuality)
	}
	if err := gochart.SaveImage(img, o.output, opts); err != nil {
		return err
	}
	b := img.Bounds()
	logger.Info("chart written", "path", o.output, "width", b.Dx(), "height", b.Dy())
	return nil
}

// loadAssets loads every font and image up front so a missing asset fails
// the command before any request is read.
func loadAssets(o *options, logger *slog.Logger) (*gochart.RenderOptions, error) {
	opts := gochart.DefaultRenderOptions()
	opts.Logger = logger
	opts.FontCache = gochart.NewFontCache(o.fontDirs...).SetLogger(logger)
	opts.AxisFont = o.axisFont
	opts.HeaderFont = o.headerFont
	for _, name := range []string{o.axisFont, o.headerFont} {
		if !opts.FontCache.Has(name) {
			return nil, fmt.Errorf("font %q not found in %v", name, o.fontDirs)
		}
	}

	if o.assetDir != "" {
		opts.Images = gochart.NewImageStore(o.assetDir)
		if err := opts.Images.Preload(); err != nil {
			return nil, fmt.Errorf("load assets: %w", err)
		}
		logger.Debug("assets loaded", "dir", o.assetDir, "images", opts.Images.Len())
	}
	return opts, nil
}

func readRequest(cmd *cobra.Command, kind gochart.ChartKind, o *options) (*gochart.ChartRequest, error) {
	if o.xlsx != "" {
		data, err := gochart.LoadSeriesXLSX(o.xlsx, o.sheet)
		if err != nil {
			return nil, err
		}
		req := &gochart.ChartRequest{Kind: kind, Series: data.Series, Config: gochart.DefaultChartConfig()}
		if kind == gochart.ChartRadar {
			req.Config.Legends = data.Legends
		}
		return req, nil
	}

	var r io.Reader = cmd.InOrStdin()
	if o.input != "-" {
		body, err := os.ReadFile(o.input)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		r = bytes.NewReader(body)
	}
	return gochart.DecodeRequest(kind, r)
}
