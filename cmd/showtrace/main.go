package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ayusman/parikrama/internal/trace"
)

func main() {
	plotPath := flag.String("plot", "", "write a top-down trajectory plot to this PNG path")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: showtrace [flags] path_to_trajectory")
		os.Exit(1)
	}

	poses, err := trace.Load(args[0])
	if err != nil {
		log.Fatalf("Failed to load trajectory: %v", err)
	}
	if len(poses) == 0 {
		log.Fatalf("No poses found in %s", args[0])
	}

	stats := trace.Summarize(poses)
	fmt.Printf("Trajectory:  %s\n", args[0])
	fmt.Printf("Frames:      %d\n", stats.Frames)
	fmt.Printf("Duration:    %.3f s\n", stats.Duration)
	fmt.Printf("Path length: %.3f m\n", stats.PathLength)
	fmt.Printf("Mean speed:  %.3f m/s\n", stats.MeanSpeed)
	fmt.Printf("Max speed:   %.3f m/s\n", stats.MaxSpeed)

	if *plotPath != "" {
		if err := trace.PlotTopDown(poses, *plotPath); err != nil {
			log.Fatalf("Failed to plot trajectory: %v", err)
		}
		fmt.Printf("Plot saved:  %s\n", *plotPath)
	}
}
