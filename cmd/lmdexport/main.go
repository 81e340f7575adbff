// lmdexport maps a laser-microdissection shape file into image-pixel
// coordinates and writes it back out, recording the run in the slide
// catalog. The image calibration points come from a small JSON sidecar
// produced during slide scanning.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dvp-tools/lmdkit/internal/catalog"
	"github.com/dvp-tools/lmdkit/internal/config"
	"github.com/dvp-tools/lmdkit/internal/fsutil"
	"github.com/dvp-tools/lmdkit/internal/geometry"
	"github.com/dvp-tools/lmdkit/internal/lmd"
	"github.com/dvp-tools/lmdkit/internal/version"
)

var (
	inPath     = flag.String("in", "", "Input shape exchange file (required)")
	outPath    = flag.String("out", "", "Output shape exchange file (required)")
	calibPath  = flag.String("calibration", "", "JSON file with image calibration points (required)")
	configPath = flag.String("config", "", "Pipeline config file (JSON)")
	slideName  = flag.String("slide", "", "Slide name recorded in the catalog (defaults to the input filename)")
	imageType  = flag.String("image-type", "czi", "Slide image type recorded in the catalog")
	overwrite  = flag.Bool("overwrite", false, "Replace the output file if it exists")
	noCatalog  = flag.Bool("no-catalog", false, "Skip recording the export in the catalog")
	showVer    = flag.Bool("version", false, "Print the build version and exit")
)

// calibrationFile is the sidecar schema: one row of [x, y] per
// calibration cross, in the same order the crosses were set on the
// instrument.
type calibrationFile struct {
	Points [][]float64 `json:"points"`
}

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println("lmdexport", version.String())
		return
	}
	if err := run(); err != nil {
		log.Fatalf("lmdexport: %v", err)
	}
}

func run() error {
	if *inPath == "" || *outPath == "" || *calibPath == "" {
		flag.Usage()
		return fmt.Errorf("-in, -out and -calibration are required")
	}

	cfg := config.EmptyPipelineConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadPipelineConfig(*configPath)
		if err != nil {
			return err
		}
	}

	kind, err := parseKind(cfg.GetTransformKind())
	if err != nil {
		return err
	}

	imageCalibration, err := loadCalibration(*calibPath)
	if err != nil {
		return err
	}

	fsys := fsutil.OSFileSystem{}
	opts := lmd.ImportOptions{
		SwitchOrientation: cfg.GetSwitchOrientation(),
		Kind:              kind,
		Precision:         cfg.GetPrecision(),
	}

	doc, err := lmd.ReadDocument(fsys, *inPath)
	if err != nil {
		return err
	}
	col, err := lmd.Import(fsys, *inPath, imageCalibration, opts)
	if err != nil {
		return err
	}

	replace := *overwrite || cfg.GetOverwrite()
	if err := lmd.Export(fsys, *outPath, col, imageCalibration, replace); err != nil {
		return err
	}
	fmt.Printf("wrote %d shapes to %s\n", col.Len(), *outPath)

	if *noCatalog {
		return nil
	}
	return record(cfg, doc.Calibration, imageCalibration, kind, col.Len())
}

// record registers the slide and stores the export run, including the
// fitted transform, in the catalog.
func record(cfg *config.PipelineConfig, fileCalibration, imageCalibration geometry.PointSet, kind geometry.Kind, shapeCount int) error {
	m, err := geometry.Estimate(fileCalibration, imageCalibration, kind, cfg.GetPrecision())
	if err != nil {
		return err
	}

	cat, err := catalog.Open(cfg.GetCatalogPath())
	if err != nil {
		return err
	}
	defer cat.Close()

	name := *slideName
	if name == "" {
		name = *inPath
	}
	slide, err := cat.RegisterSlide(name, *imageType, nil)
	if err != nil {
		return err
	}
	export, err := cat.RecordExport(slide.ID, *outPath, shapeCount, cfg.GetPrecision(), m)
	if err != nil {
		return err
	}
	fmt.Printf("recorded export %s for slide %s\n", export.ID, slide.ID)
	return nil
}

func loadCalibration(path string) (geometry.PointSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading calibration file: %w", err)
	}
	var cf calibrationFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing calibration file %s: %w", path, err)
	}
	return geometry.PointSetFromRows(cf.Points)
}

func parseKind(name string) (geometry.Kind, error) {
	switch name {
	case "affine":
		return geometry.KindAffine, nil
	case "similarity":
		return geometry.KindSimilarity, nil
	}
	return 0, fmt.Errorf("unknown transform kind %q", name)
}
