// Command otfinfo prints spectral properties of a Gaussian optical transfer
// function and how well regularized spectral division undoes its blur.
//
// Usage:
//
//	otfinfo [flags]
//
// A sparse point-source volume is blurred with the OTF, deconvolved again
// with InvDivide and compared with the original.
//
// Examples:
//
//	otfinfo
//	otfinfo -size 64 -policy wiener -eps 1e-3
//	otfinfo -config otfinfo.yaml -precision float32
//	otfinfo -write-config otfinfo.yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"text/tabwriter"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-vecmath/cpu"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-deconv/dsp/psf"
	"github.com/cwbudde/algo-deconv/dsp/transform"
	"github.com/cwbudde/algo-deconv/dsp/volume"
	"github.com/cwbudde/algo-deconv/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("otfinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file (missing file means defaults)")
	writeConfig := fs.String("write-config", "", "write the effective configuration to this file and exit")
	size := fs.Int("size", 0, "override the volume with an n*n*n cube")
	precision := fs.String("precision", "", "float64 or float32")
	provider := fs.String("provider", "", "algofft or gonum")
	policy := fs.String("policy", "", "regularization policy: threshold or wiener")
	eps := fs.Float64("eps", 0, "regularization constant")
	verbose := fs.Bool("v", false, "log plan lifecycle and CPU features")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: otfinfo [flags]\n\n")
		fmt.Fprintf(stderr, "Prints OTF statistics and the error of a blur/deblur round trip.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			logger.Error("loading configuration", "path", *configPath, "err", err)
			return 1
		}
		cfg = loaded
	}

	// Flags given on the command line win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "size":
			cfg.Volume.Geometry = transform.Geometry{N1: *size, N2: *size, N3: *size}
		case "precision":
			cfg.Transform.Precision = *precision
		case "provider":
			cfg.Transform.Provider = *provider
		case "policy":
			cfg.Regularization.Policy = *policy
		case "eps":
			cfg.Regularization.Epsilon = *eps
		}
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		return 1
	}

	if *writeConfig != "" {
		if err := config.SaveConfig(cfg, *writeConfig); err != nil {
			logger.Error("writing configuration", "path", *writeConfig, "err", err)
			return 1
		}
		logger.Info("wrote configuration", "path", *writeConfig)
		return 0
	}

	f := cpu.DetectFeatures()
	logger.Debug("cpu features", "arch", f.Architecture, "avx2", f.HasAVX2, "avx512", f.HasAVX512, "neon", f.HasNEON)

	var (
		rep report
		err error
	)
	if cfg.Single() {
		rep, err = analyze[float32, complex64](cfg, transform.AlgoFFT[complex64]{}, logger)
	} else {
		rep, err = analyze[float64, complex128](cfg, cfg.Planner(), logger)
	}
	if err != nil {
		logger.Error("analysis failed", "err", err)
		return 1
	}

	if err := printReport(stdout, cfg, rep); err != nil {
		fmt.Fprintf(stderr, "error: failed to write report: %v\n", err)
		return 1
	}
	return 0
}

type report struct {
	otfMin, otfMax, otfMean float64
	belowEps               int
	bins                   int

	blurred volume.Stats

	maxErr, rmsErr, relErr float64
}

// analyze runs the blur and deblur round trip in precision F.
func analyze[F algofft.Float, C algofft.Complex](cfg *config.Config, planner transform.Planner[C], logger *slog.Logger) (report, error) {
	var rep report

	reg, err := cfg.Regularizer()
	if err != nil {
		return rep, err
	}

	cache := transform.NewCache(planner, transform.WithLogger(logger))
	defer cache.Purge()

	s, err := volume.NewSettingsT(cache, cfg.Volume.Geometry, cfg.Volume.Voxel)
	if err != nil {
		return rep, err
	}
	defer s.Release()

	p, err := psf.GaussianT[F, C](cfg.PSF.Geometry, cfg.PSF.Voxel, cfg.PSF.Sigma)
	if err != nil {
		return rep, err
	}
	defer p.Release()

	otf, err := p.OTF(s)
	if err != nil {
		return rep, fmt.Errorf("computing OTF: %w", err)
	}
	mag, err := otf.Magnitude()
	if err != nil {
		return rep, err
	}
	m := widen(mag)
	rep.bins = len(m)
	rep.otfMin = floats.Min(m)
	rep.otfMax = floats.Max(m)
	rep.otfMean = stat.Mean(m, nil)
	for _, x := range m {
		if x < reg.Epsilon {
			rep.belowEps++
		}
	}

	object := pointSources(cfg.Volume.Geometry)
	truth, err := volume.NewImageT[F, C](s, narrow[F](object))
	if err != nil {
		return rep, err
	}
	defer truth.Release()

	img, err := volume.NewImageT[F, C](s, narrow[F](object))
	if err != nil {
		return rep, err
	}
	defer img.Release()

	if err := img.Convolve(otf); err != nil {
		return rep, fmt.Errorf("blurring: %w", err)
	}
	if rep.blurred, err = img.Stats(); err != nil {
		return rep, err
	}

	if err := img.Forward(); err != nil {
		return rep, err
	}
	if err := img.InvDivide(otf, reg); err != nil {
		return rep, fmt.Errorf("deconvolving: %w", err)
	}
	if err := img.Inverse(); err != nil {
		return rep, err
	}

	restored, err := img.Data()
	if err != nil {
		return rep, err
	}
	diff := widen(restored)
	floats.Sub(diff, object)
	rep.maxErr = vecmath.MaxAbs(diff)

	sq, err := img.Nrm2(truth)
	if err != nil {
		return rep, err
	}
	rep.rmsErr = math.Sqrt(sq / float64(len(object)))
	rep.relErr = math.Sqrt(sq) / floats.Norm(object, 2)

	logger.Debug("round trip finished", "geometry", s.Geometry().String(), "maxErr", rep.maxErr)
	return rep, nil
}

// pointSources places a bright source at the centre and dimmer ones at
// quarter offsets along each axis.
func pointSources(g transform.Geometry) []float64 {
	out := make([]float64, g.Len())
	c1, c2, c3 := g.N1/2, g.N2/2, g.N3/2
	out[g.Index(c1, c2, c3)] = 100
	out[g.Index(c1/2, c2, c3)] += 50
	out[g.Index(c1, c2/2, c3)] += 50
	out[g.Index(c1, c2, c3/2)] += 50
	return out
}

func widen[F algofft.Float](x []F) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}

func narrow[F algofft.Float](x []float64) []F {
	out := make([]F, len(x))
	for i, v := range x {
		out[i] = F(v)
	}
	return out
}

func printReport(w io.Writer, cfg *config.Config, rep report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		name  string
		value string
	}{
		{"Volume", fmt.Sprintf("%s @ %s", cfg.Volume.Geometry, cfg.Volume.Voxel)},
		{"PSF", fmt.Sprintf("%s @ %s sigma (%g, %g, %g)", cfg.PSF.Geometry, cfg.PSF.Voxel,
			cfg.PSF.Sigma.S1, cfg.PSF.Sigma.S2, cfg.PSF.Sigma.S3)},
		{"Transform", fmt.Sprintf("%s / %s", cfg.Transform.Precision, cfg.Transform.Provider)},
		{"Regularization", fmt.Sprintf("%s eps=%g", cfg.Regularization.Policy, cfg.Regularization.Epsilon)},
		{"OTF |H| min", fmt.Sprintf("%.6g", rep.otfMin)},
		{"OTF |H| max", fmt.Sprintf("%.6g", rep.otfMax)},
		{"OTF |H| mean", fmt.Sprintf("%.6g", rep.otfMean)},
		{"Bins below eps", fmt.Sprintf("%d / %d", rep.belowEps, rep.bins)},
		{"Blurred min/max", fmt.Sprintf("%.6g / %.6g", rep.blurred.Min, rep.blurred.Max)},
		{"Blurred sum", fmt.Sprintf("%.6g", rep.blurred.Sum)},
		{"Max abs error", fmt.Sprintf("%.6g", rep.maxErr)},
		{"RMS error", fmt.Sprintf("%.6g", rep.rmsErr)},
		{"Relative error", fmt.Sprintf("%.6g", rep.relErr)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", r.name, r.value); err != nil {
			return err
		}
	}
	return tw.Flush()
}
