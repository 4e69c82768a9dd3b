// Command analysis repeatedly generates PFDH keys and signatures and writes
// coefficient, norm and attempt statistics as JSON plus a go-echarts HTML
// page of histograms.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"lattice-schemes/internal/monitor"
	"lattice-schemes/internal/prof"
	"lattice-schemes/psf"
	"lattice-schemes/signature/pfdh"
	"lattice-schemes/zq"
)

// attemptLog records the attempt count of every Sign and forwards to next.
type attemptLog struct {
	mu       sync.Mutex
	attempts []float64
	next     pfdh.Metrics
}

func (a *attemptLog) ObserveSign(attempts int, err error) {
	if err == nil {
		a.mu.Lock()
		a.attempts = append(a.attempts, float64(attempts))
		a.mu.Unlock()
	}
	a.next.ObserveSign(attempts, err)
}

func (a *attemptLog) ObserveVerify(valid bool) { a.next.ObserveVerify(valid) }

type bounded interface{ Bound() float64 }

type samples struct {
	public []float64
	coeffs []float64
	norms  []float64
	ratios []float64
}

type runConfig struct {
	q     int64
	runs  int
	signs int
	bound float64
	track *prof.Tracker
}

// collect runs cfg.runs key pairs with cfg.signs signatures each. publicCoeffs
// lists the public key coefficients in [0,q).
func collect[PF, TD any](s *pfdh.PFDH[PF, TD, zq.IntVec, zq.Vector], publicCoeffs func(PF) []int64, cfg runConfig) (samples, error) {
	var out samples
	for i := 0; i < cfg.runs; i++ {
		start := time.Now()
		pk, sk, err := s.KeyGen()
		cfg.track.Track(start, "keygen")
		if err != nil {
			return out, fmt.Errorf("keygen: %w", err)
		}
		for _, c := range publicCoeffs(pk) {
			out.public = append(out.public, float64(zq.Center(c, cfg.q)))
		}
		for j := 0; j < cfg.signs; j++ {
			msg := fmt.Sprintf("analysis-%d-%d", i, j)
			start = time.Now()
			sig, err := s.Sign(msg, sk, pk)
			cfg.track.Track(start, "sign")
			if err != nil {
				return out, fmt.Errorf("sign: %w", err)
			}
			start = time.Now()
			ok := s.Verify(msg, sig, pk)
			cfg.track.Track(start, "verify")
			if !ok {
				return out, fmt.Errorf("run %d: signature %d rejected", i, j)
			}
			for _, c := range sig.Preimage {
				out.coeffs = append(out.coeffs, float64(c))
			}
			norm := sig.Preimage.Norm()
			out.norms = append(out.norms, norm)
			out.ratios = append(out.ratios, norm/cfg.bound)
		}
		glog.V(1).Infof("run %d/%d done", i+1, cfg.runs)
	}
	return out, nil
}

func toBarItems(vals []int) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func newHistogramChart(title string, values []float64, stats summaryStats) *charts.Bar {
	nbins := freedmanDiaconisBins(values, 20, 400)
	edges, counts := computeHistogram(values, nbins)
	xLabels := make([]string, nbins)
	for i := range xLabels {
		xLabels[i] = fmt.Sprintf("%.2f", 0.5*(edges[i]+edges[i+1]))
	}
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("n=%d, mean=%.3f, std=%.3f, median=%.3f, IQR=%.3f", stats.Count, stats.Mean, stats.Std, stats.Median, stats.IQR)
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xLabels).
		AddSeries("count", toBarItems(counts)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

type report struct {
	Family     string                  `json:"family"`
	N          int                     `json:"N"`
	Q          int64                   `json:"Q"`
	Width      float64                 `json:"width"`
	Bound      float64                 `json:"bound"`
	Stats      map[string]summaryStats `json:"stats"`
	TimingsUS  map[string]float64      `json:"mean_timings_us"`
	SignOK     float64                 `json:"sign_ok"`
	VerifyOK   float64                 `json:"verify_valid"`
	MaxAttempt int                     `json:"max_attempts"`
}

func main() {
	family := flag.String("family", "gpv", "PSF family: gpv|ring")
	n := flag.Int("n", 4, "dimension (gpv) or ring degree (ring)")
	q := flag.Int64("q", 113, "modulus")
	width := flag.Float64("s", 17, "Gaussian parameter")
	saltBits := flag.Int("salt", 128, "salt length in bits")
	runs := flag.Int("runs", 20, "number of key pairs")
	signs := flag.Int("signs", 10, "signatures per key pair")
	outDir := flag.String("out", "Measure_Reports", "output directory for reports")
	flag.Parse()
	defer glog.Flush()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		glog.Exitf("mkdir: %v", err)
	}

	mon := monitor.New(*family)
	attempts := &attemptLog{next: mon}
	track := &prof.Tracker{}
	cfg := runConfig{q: *q, runs: *runs, signs: *signs, track: track}

	var (
		smp        samples
		err        error
		maxAttempt int
	)
	switch *family {
	case "gpv":
		s, serr := pfdh.SetupGPV(*n, *q, *width, *saltBits, pfdh.WithMetrics(attempts))
		if serr != nil {
			glog.Exitf("setup: %v", serr)
		}
		cfg.bound = s.PSF().(bounded).Bound()
		maxAttempt = s.MaxAttempts()
		smp, err = collect(s, func(pk *psf.GPVPublicKey) []int64 { return pk.A.Data }, cfg)
	case "ring":
		s, serr := pfdh.SetupRingGPV(*n, *q, *width, *saltBits, pfdh.WithMetrics(attempts))
		if serr != nil {
			glog.Exitf("setup: %v", serr)
		}
		cfg.bound = s.PSF().(bounded).Bound()
		maxAttempt = s.MaxAttempts()
		smp, err = collect(s, func(pk *psf.RingPublicKey) []int64 {
			var out []int64
			for _, a := range pk.A {
				out = append(out, a...)
			}
			return out
		}, cfg)
	default:
		glog.Exitf("unknown family %q (want gpv or ring)", *family)
	}
	if err != nil {
		glog.Exitf("analysis: %v", err)
	}

	rep := report{
		Family: *family, N: *n, Q: *q, Width: *width, Bound: cfg.bound,
		Stats: map[string]summaryStats{
			"public_centered": computeStats(smp.public),
			"preimage_coeffs": computeStats(smp.coeffs),
			"preimage_norm":   computeStats(smp.norms),
			"norm_over_bound": computeStats(smp.ratios),
			"attempts":        computeStats(attempts.attempts),
		},
		TimingsUS:  make(map[string]float64),
		SignOK:     testutil.ToFloat64(mon.Signs(monitor.ResultOK)),
		VerifyOK:   testutil.ToFloat64(mon.Verifies(monitor.ResultValid)),
		MaxAttempt: maxAttempt,
	}
	for _, sum := range prof.Summarize(track.SnapshotAndReset()) {
		rep.TimingsUS[sum.Label] = float64(sum.Mean()) / float64(time.Microsecond)
	}

	ts := time.Now().Format("20060102_150405")
	jsonPath := filepath.Join(*outDir, fmt.Sprintf("pfdh_stats_%s_%s.json", *family, ts))
	if err := saveJSON(jsonPath, rep); err != nil {
		glog.Warningf("save stats: %v", err)
	}

	page := components.NewPage()
	add := func(name string, vals []float64) {
		if len(vals) == 0 {
			return
		}
		page.AddCharts(newHistogramChart(name, vals, computeStats(vals)))
	}
	add("public key (centered)", smp.public)
	add("preimage coefficients", smp.coeffs)
	add("preimage norm", smp.norms)
	add("norm / bound", smp.ratios)
	add("sign attempts", attempts.attempts)

	htmlPath := filepath.Join(*outDir, fmt.Sprintf("pfdh_histograms_%s_%s.html", *family, ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		glog.Exitf("create html: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		glog.Exitf("render html: %v", err)
	}
	fmt.Println("Histogram page:", htmlPath)
	fmt.Println("Stats JSON:", jsonPath)
}
