// Command well-report renders an HTML bar chart of shapes per collection
// well for a shape exchange file. Handy for spotting unbalanced well
// assignments before a dissection run.
//
// Usage:
//
//	go run ./cmd/tools/well-report [flags]
//
// Flags:
//
//	-in   Shape exchange file (required)
//	-out  Output HTML path (default: wells.html)
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/dvp-tools/lmdkit/internal/fsutil"
	"github.com/dvp-tools/lmdkit/internal/lmd"
)

func main() {
	inPath := flag.String("in", "", "Shape exchange file")
	outPath := flag.String("out", "wells.html", "Output HTML path")
	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	doc, err := lmd.ReadDocument(fsutil.OSFileSystem{}, *inPath)
	if err != nil {
		log.Fatalf("well-report: %v", err)
	}

	counts := map[string]int{}
	for _, s := range doc.Collection.Shapes {
		well := s.Well
		if well == "" {
			well = "(unassigned)"
		}
		counts[well]++
	}

	wells := make([]string, 0, len(counts))
	for well := range counts {
		wells = append(wells, well)
	}
	sort.Strings(wells)

	y := make([]opts.BarData, len(wells))
	for i, well := range wells {
		y[i] = opts.BarData{Value: counts[well]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{Title: "Shapes per well", Subtitle: *inPath}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(wells).
		AddSeries("shapes", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		log.Fatalf("well-report: rendering chart: %v", err)
	}
	if err := os.WriteFile(*outPath, buf.Bytes(), 0644); err != nil {
		log.Fatalf("well-report: %v", err)
	}
	fmt.Printf("wrote well report for %d shapes (%d wells) to %s\n",
		doc.Collection.Len(), len(wells), *outPath)
}
