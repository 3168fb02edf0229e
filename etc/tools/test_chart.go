package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"csvviz/internal/features/charts"
	"csvviz/internal/features/dataset"
	storage "csvviz/internal/infra/fs"
)

// go run etc/tools/test_chart.go
// writes etc/charts/sample.csv and one chart per kind next to it
func main() {
	fmt.Println("Generating test charts...")

	chartsDir := filepath.Join("etc", "charts")
	if err := os.MkdirAll(chartsDir, 0755); err != nil {
		fmt.Printf("Error creating charts directory: %v\n", err)
		os.Exit(1)
	}

	var sb strings.Builder
	sb.WriteString("step,sine,cosine,trend,noise\n")
	for i := 0; i < 60; i++ {
		x := float64(i) / 6
		fmt.Fprintf(&sb, "%d,%.4f,%.4f,%.2f,%.3f\n", i, math.Sin(x), math.Cos(x), float64(i)*0.05-1, math.Sin(float64(i*i))/2)
	}

	samplePath := filepath.Join(chartsDir, "sample.csv")
	if err := os.WriteFile(samplePath, []byte(sb.String()), 0644); err != nil {
		fmt.Printf("Error writing sample data: %v\n", err)
		os.Exit(1)
	}

	table, err := dataset.Load(samplePath)
	if err != nil {
		fmt.Printf("Error loading sample data: %v\n", err)
		os.Exit(1)
	}

	for _, kind := range charts.Kinds {
		fig, err := charts.Build(kind, table, charts.DefaultOptions())
		if err != nil {
			fmt.Printf("Error generating %s chart: %v\n", kind, err)
			os.Exit(1)
		}
		if fig == nil {
			fmt.Printf("No %s chart for this data\n", kind)
			continue
		}

		data, err := fig.PNG()
		if err != nil {
			fmt.Printf("Error encoding %s chart: %v\n", kind, err)
			os.Exit(1)
		}

		chartPath := storage.ChartPath(samplePath, string(kind))
		if err := storage.SaveChart(chartPath, data); err != nil {
			fmt.Printf("Error saving %s chart: %v\n", kind, err)
			os.Exit(1)
		}
		fmt.Printf("Chart generated successfully: %s\n", chartPath)
	}

	fmt.Println("Open the files to see the result!")
}
