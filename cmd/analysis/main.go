// Command analysis generates key pairs, signs messages with them and writes
// coefficient, attempt and norm statistics as JSON plus an HTML page of
// histograms.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/montanaflynn/stats"

	ntru "ntrusign/ntru"
	ntruio "ntrusign/ntru/io"
	"ntrusign/ntru/keys"
	"ntrusign/prof"
)

type summaryStats struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
	IQR      float64 `json:"iqr"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis_excess"`
}

// ------------------------------ stats utilities ------------------------------

func computeStats(x []float64) summaryStats {
	n := len(x)
	if n == 0 {
		return summaryStats{}
	}
	data := stats.Float64Data(x)
	out := summaryStats{Count: n}
	out.Mean, _ = data.Mean()
	out.Min, _ = data.Min()
	out.Max, _ = data.Max()
	out.Median, _ = data.Median()
	if n > 1 {
		out.Std, _ = data.StandardDeviationSample()
	}
	if q, err := stats.Quartile(data); err == nil {
		out.Q1, out.Q3 = q.Q1, q.Q3
		out.IQR = q.Q3 - q.Q1
	}
	var m2, m3, m4 float64
	for _, v := range x {
		d := v - out.Mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	if m2 > 0 {
		m2n := m2 / float64(n)
		out.Skewness = m3 / float64(n) / math.Pow(m2n, 1.5)
		out.Kurtosis = m4/float64(n)/m2n/m2n - 3.0
	}
	return out
}

func freedmanDiaconisBins(x []float64, st summaryStats) int {
	n := len(x)
	if n < 2 {
		return 1
	}
	if st.IQR == 0 {
		// Discrete data such as ternary coefficients: one bin per value.
		k := int(st.Max-st.Min) + 1
		if k > 200 {
			k = 200
		}
		return k
	}
	bw := 2 * st.IQR * math.Pow(float64(n), -1.0/3.0)
	k := int(math.Ceil((st.Max - st.Min) / bw))
	if k < 10 {
		k = 10
	}
	if k > 2000 {
		k = 2000
	}
	return k
}

func computeHistogram(values []float64, nbins int, minv, maxv float64) (edges []float64, counts []int) {
	if len(values) == 0 {
		return []float64{0, 1}, []int{0}
	}
	if nbins < 1 {
		nbins = 1
	}
	width := (maxv - minv) / float64(nbins)
	if width <= 0 {
		width = 1
	}
	edges = make([]float64, nbins+1)
	for i := 0; i <= nbins; i++ {
		edges[i] = minv + float64(i)*width
	}
	counts = make([]int, nbins)
	for _, v := range values {
		idx := int(math.Floor((v - minv) / width))
		if idx < 0 {
			idx = 0
		}
		if idx >= nbins {
			idx = nbins - 1
		}
		counts[idx]++
	}
	return
}

func appendCentered(vals []float64, p ntru.Poly, q int64) []float64 {
	for _, v := range ntru.CenterModQ(p, q) {
		vals = append(vals, float64(v))
	}
	return vals
}

// ------------------------- plotting: go-echarts HTML -------------------------

func toBarItems(vals []int) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func newHistogramChart(title string, values []float64, st summaryStats) *charts.Bar {
	nbins := freedmanDiaconisBins(values, st)
	edges, counts := computeHistogram(values, nbins, st.Min, st.Max)
	xLabels := make([]string, nbins)
	for i := 0; i < nbins; i++ {
		center := 0.5 * (edges[i] + edges[i+1])
		xLabels[i] = fmt.Sprintf("%.2f", center)
	}
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("n=%d, mean=%.3f, std=%.3f, median=%.3f, IQR=%.3f", st.Count, st.Mean, st.Std, st.Median, st.IQR)
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

// ------------------------------ JSON and I/O ------------------------------

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ------------------------------- main routine -------------------------------

func main() {
	runs := flag.Int("runs", 20, "number of keygen runs")
	signs := flag.Int("signs", 10, "signatures per key pair")
	paramsPath := flag.String("params", "", "parameter file (default set when empty)")
	seed := flag.Int64("seed", 0, "deterministic seed; 0 uses the OS source")
	outDir := flag.String("out", "Measure_Reports", "output directory for reports")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	par, err := ntruio.LoadParamsOrDefault(*paramsPath)
	if err != nil {
		log.Fatalf("load params: %v", err)
	}
	var rng ntru.RandomSource
	if *seed != 0 {
		rng = ntru.NewRNG(*seed)
	} else if rng, err = ntru.NewSystemRNG(); err != nil {
		log.Fatalf("rng: %v", err)
	}

	var allF, allG, allH, allX1, allX2 []float64
	var attempts, babai, accept, norms, l2 []float64
	failures := 0

	for i := 0; i < *runs; i++ {
		log.Printf("[analysis] run %d/%d", i+1, *runs)
		start := time.Now()
		kp, err := ntru.GenerateKeyPair(par, rng)
		prof.Track(start, "keygen")
		if err != nil {
			log.Printf("warn: keygen failed: %v", err)
			continue
		}
		allF = appendCentered(allF, kp.Private.F, par.Q)
		allG = appendCentered(allG, kp.Private.G, par.Q)
		allH = appendCentered(allH, kp.Public.H, par.Q)

		for j := 0; j < *signs; j++ {
			msg := []byte(fmt.Sprintf("analysis-%d-%d", i, j))
			start := time.Now()
			sig, st, err := ntru.SignWithOpts(par, kp.Private, kp.Public, msg, rng, ntru.SignOpts{})
			prof.Track(start, "sign")
			attempts = append(attempts, float64(st.Attempts))
			babai = append(babai, float64(st.BabaiRejects))
			accept = append(accept, float64(st.AcceptRejects))
			norms = append(norms, float64(st.NormRejects))
			if err != nil {
				failures++
				continue
			}
			start = time.Now()
			ok := ntru.Verify(par, kp.Public, msg, sig)
			prof.Track(start, "verify")
			if !ok {
				log.Fatalf("signature %d/%d does not verify", i, j)
			}
			allX1 = appendCentered(allX1, sig.X1, par.Q)
			allX2 = appendCentered(allX2, sig.X2, par.Q)
			l2 = append(l2, keys.L2Norm(par, sig))
		}
	}

	outStats := map[string]summaryStats{
		"F":               computeStats(allF),
		"G":               computeStats(allG),
		"h":               computeStats(allH),
		"x1":              computeStats(allX1),
		"x2":              computeStats(allX2),
		"attempts":        computeStats(attempts),
		"babai_rejects":   computeStats(babai),
		"accept_rejects":  computeStats(accept),
		"norm_rejects":    computeStats(norms),
		"signature_l2":    computeStats(l2),
		"signature_bound": {Count: 1, Mean: par.SignatureBound(), Min: par.SignatureBound(), Max: par.SignatureBound(), Median: par.SignatureBound()},
	}

	ts := time.Now().Format("20060102_150405")
	jsonPath := filepath.Join(*outDir, fmt.Sprintf("sign_stats_%s.json", ts))
	if err := saveJSON(jsonPath, outStats); err != nil {
		log.Printf("warn: save stats: %v", err)
	}

	page := components.NewPage()
	add := func(name string, vals []float64) {
		if len(vals) == 0 {
			return
		}
		page.AddCharts(newHistogramChart(name, vals, computeStats(vals)))
	}
	add("F (private)", allF)
	add("G (private)", allG)
	add("h (public)", allH)
	add("x1 (signature)", allX1)
	add("x2 (signature)", allX2)
	add("attempts per signature", attempts)
	add("signature l2 norm", l2)

	htmlPath := filepath.Join(*outDir, fmt.Sprintf("sign_histograms_%s.html", ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render html: %v", err)
	}

	for _, s := range prof.Summarize(prof.SnapshotAndReset()) {
		fmt.Printf("%-8s n=%-5d mean=%-12s median=%-12s max=%s\n", s.Label, s.Count, s.Mean, s.Median, s.Max)
	}
	if failures > 0 {
		fmt.Printf("sign failures: %d (MAX_SIGN_ATTEMPTS=%d)\n", failures, par.MaxSignAttempts)
	}
	fmt.Println("Histogram page:", htmlPath)
	fmt.Println("Stats JSON:", jsonPath)
}
