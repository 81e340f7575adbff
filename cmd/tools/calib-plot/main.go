// Command calib-plot renders a registration-quality scatter plot for a pair
// of calibration point sets.
//
// It fits the requested transform from the source points to the target
// points, applies it, and plots the mapped source points over the target
// points so misregistration is visible at a glance. The RMS residual is
// printed to stdout.
//
// Usage:
//
//	go run ./cmd/tools/calib-plot [flags]
//
// Flags:
//
//	-source     JSON file with source calibration points (required)
//	-target     JSON file with target calibration points (required)
//	-out        Output PNG path (default: calibration.png)
//	-kind       Transform family, affine or similarity (default: affine)
//	-precision  Decimal rounding of the fitted matrix (default: 3)
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/dvp-tools/lmdkit/internal/geometry"
)

type pointsFile struct {
	Points [][]float64 `json:"points"`
}

func main() {
	sourcePath := flag.String("source", "", "JSON file with source calibration points")
	targetPath := flag.String("target", "", "JSON file with target calibration points")
	outPath := flag.String("out", "calibration.png", "Output PNG path")
	kindName := flag.String("kind", "affine", "Transform family: affine or similarity")
	precision := flag.Int("precision", 3, "Decimal rounding of the fitted matrix")
	flag.Parse()

	if *sourcePath == "" || *targetPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	source, err := loadPoints(*sourcePath)
	if err != nil {
		log.Fatalf("calib-plot: %v", err)
	}
	target, err := loadPoints(*targetPath)
	if err != nil {
		log.Fatalf("calib-plot: %v", err)
	}

	var kind geometry.Kind
	switch *kindName {
	case "affine":
		kind = geometry.KindAffine
	case "similarity":
		kind = geometry.KindSimilarity
	default:
		log.Fatalf("calib-plot: unknown transform kind %q", *kindName)
	}

	m, err := geometry.Estimate(source, target, kind, *precision)
	if err != nil {
		log.Fatalf("calib-plot: fitting transform: %v", err)
	}
	rms, err := geometry.Residual(m, source, target)
	if err != nil {
		log.Fatalf("calib-plot: %v", err)
	}
	mapped := m.ApplyPointSet(source)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Calibration fit (%s, RMS %.4g)", *kindName, rms)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	targetPts := make(plotter.XYs, len(target))
	for i, pt := range target {
		targetPts[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	mappedPts := make(plotter.XYs, len(mapped))
	for i, pt := range mapped {
		mappedPts[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}

	targetScatter, err := plotter.NewScatter(targetPts)
	if err != nil {
		log.Fatalf("calib-plot: %v", err)
	}
	targetScatter.Radius = vg.Points(4)

	mappedScatter, err := plotter.NewScatter(mappedPts)
	if err != nil {
		log.Fatalf("calib-plot: %v", err)
	}
	mappedScatter.Radius = vg.Points(2)

	p.Add(targetScatter, mappedScatter)
	p.Legend.Add("target", targetScatter)
	p.Legend.Add("mapped source", mappedScatter)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, *outPath); err != nil {
		log.Fatalf("calib-plot: saving plot: %v", err)
	}
	fmt.Printf("fit %s transform, RMS residual %.6g, plot written to %s\n", *kindName, rms, *outPath)
}

func loadPoints(path string) (geometry.PointSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf pointsFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return geometry.PointSetFromRows(pf.Points)
}
