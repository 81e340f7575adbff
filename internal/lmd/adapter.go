package lmd

import (
	"fmt"

	"github.com/dvp-tools/lmdkit/internal/fsutil"
	"github.com/dvp-tools/lmdkit/internal/geometry"
	"github.com/dvp-tools/lmdkit/internal/monitoring"
	"github.com/dvp-tools/lmdkit/internal/shapes"
)

// ImportOptions controls the read pipeline.
type ImportOptions struct {
	// SwitchOrientation mirrors the result at the main diagonal after the
	// calibration transform. The instrument works in (x, y) while image
	// rasters index (row=y, col=x); the default pipeline enables this.
	//
	// The switch is a second, independent transform stage. It is not
	// folded into the calibration matrix: composition order matters when
	// the calibration points are not axis-aligned.
	SwitchOrientation bool

	// Kind selects the transform family fitted to the calibration points.
	Kind geometry.Kind

	// Precision is the decimal rounding of the estimated matrix.
	Precision int
}

// DefaultImportOptions mirrors the instrument-facing defaults: orientation
// switch on, affine fit, three-digit matrix rounding.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		SwitchOrientation: true,
		Kind:              geometry.KindAffine,
		Precision:         shapes.DefaultPrecision,
	}
}

// ReadDocument parses the file at path without any coordinate conversion.
func ReadDocument(fsys fsutil.FileSystem, path string) (*Document, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Import reads an exchange file and maps its shapes into image-pixel
// coordinates using the file's own calibration points as the source set and
// imageCalibration as the target set.
//
// The file must contain at least three calibration points, and
// imageCalibration must match their count exactly; both conditions are
// checked before any numeric work.
func Import(fsys fsutil.FileSystem, path string, imageCalibration geometry.PointSet, opts ImportOptions) (shapes.Collection, error) {
	doc, err := ReadDocument(fsys, path)
	if err != nil {
		return shapes.Collection{}, err
	}

	if len(doc.Calibration) < geometry.MinCalibrationPoints {
		return shapes.Collection{}, fmt.Errorf("%w: file has %d", ErrInsufficientCalibration, len(doc.Calibration))
	}
	if len(doc.Calibration) != len(imageCalibration) {
		return shapes.Collection{}, fmt.Errorf("%w: file has %d, image has %d",
			ErrCalibrationMismatch, len(doc.Calibration), len(imageCalibration))
	}

	col, err := shapes.Transform(doc.Collection, doc.Calibration, imageCalibration, opts.Kind, opts.Precision)
	if err != nil {
		return shapes.Collection{}, fmt.Errorf("transforming %s: %w", path, err)
	}

	if opts.SwitchOrientation {
		col = shapes.Apply(col, geometry.AxisSwap())
	}

	monitoring.Logf("lmd: imported %d shapes from %s (%d calibration points)",
		col.Len(), path, len(doc.Calibration))
	return col, nil
}

// Export writes a collection and its calibration points as an exchange file.
// At least three calibration points are required. An existing destination is
// only replaced when overwrite is set; otherwise ErrPathExists is returned
// and the file is left untouched.
//
// The write is not atomic: a crash mid-write can leave a partial file.
func Export(fsys fsutil.FileSystem, path string, col shapes.Collection, calibration geometry.PointSet, overwrite bool) error {
	if len(calibration) < geometry.MinCalibrationPoints {
		return fmt.Errorf("%w: got %d", ErrInsufficientCalibration, len(calibration))
	}
	if err := col.Validate(); err != nil {
		return err
	}
	if fsys.Exists(path) && !overwrite {
		return fmt.Errorf("%w: %s", ErrPathExists, path)
	}

	doc := &Document{
		GlobalCoordinates: 1,
		Calibration:       calibration,
		Collection:        col,
	}
	if err := fsys.WriteFile(path, Encode(doc), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	monitoring.Logf("lmd: exported %d shapes to %s", col.Len(), path)
	return nil
}
