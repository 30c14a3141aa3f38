package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"wfdash/cmd/mockgen/engine"
)

func main() {
	outDir := flag.String("out", "./.cache/mock", "Output directory for the generated CSV files")
	sites := flag.Int("sites", 8, "Number of sites to generate")
	turbines := flag.Int("turbines", 12, "Turbines per site")
	cases := flag.Int("cases", 500, "Number of cases to generate")
	orphans := flag.Int("orphans", 5, "Number of actions referencing a missing case")
	days := flag.Int("days", 180, "Days of history to spread cases over")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed (fix it for reproducible output)")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Sites:           *sites,
		TurbinesPerSite: *turbines,
		Cases:           *cases,
		Orphans:         *orphans,
		HistoryDays:     *days,
		Seed:            *seed,
		Now:             time.Now(),
	}

	fmt.Printf("Generating %d cases over %d sites (seed %d) to %s...\n", cfg.Cases, cfg.Sites, cfg.Seed, *outDir)

	ds := engine.Generate(cfg)
	files, err := engine.Save(*outDir, ds)
	if err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d cases, %d actions, %d sites:\n  %s\n  %s\n  %s\n",
		len(ds.Cases), len(ds.Actions), len(ds.Sites), files.Cases, files.Actions, files.Sites)
}
