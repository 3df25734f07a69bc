// Command analyze validates board configuration files and prints quick,
// human-readable heuristics about them: purchasable space counts, colour group
// totals, how many rent collections pay back each price, and spaces nobody can
// afford at the start. It exits non-zero when any file fails validation.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/gouripri/Digiware-Monopoly/game/engine"
	"github.com/urfave/cli/v3"
)

// GroupSummary aggregates one colour group
type GroupSummary struct {
	Name       string
	Spaces     []string
	TotalPrice int
	TotalRent  int
}

// Payback is the number of rent collections that recover a space's price
type Payback struct {
	Name   string
	Price  int
	Rent   int
	Visits float64
}

// Report is the outcome of analyzing a single file
type Report struct {
	File        string
	Name        string
	Valid       bool
	Errors      []string
	Warnings    []string
	Purchasable int
	TotalPrice  int
	Kinds       map[engine.Kind]int
	Groups      []GroupSummary
	Payback     []Payback
}

func main() {
	app := &cli.Command{
		Name:      "analyze",
		Usage:     "Validate and summarize board configurations",
		ArgsUsage: "[config.json ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory scanned when no files are given",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				var err error
				files, err = filepath.Glob(filepath.Join(cmd.String("config-dir"), "*.json"))
				if err != nil {
					return err
				}
			}
			if len(files) == 0 {
				return fmt.Errorf("no configuration files found")
			}
			return run(os.Stdout, files)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// run analyzes every file and fails if any is invalid
func run(w io.Writer, files []string) error {
	invalid := 0
	for _, file := range files {
		report := analyzeFile(file)
		printReport(w, report)
		if !report.Valid {
			invalid++
		}
	}

	fmt.Fprintf(w, "\n%d/%d configurations valid\n", len(files)-invalid, len(files))
	if invalid > 0 {
		return fmt.Errorf("%d invalid configuration(s)", invalid)
	}
	return nil
}

func analyzeFile(path string) Report {
	report := Report{File: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return report
	}

	var config engine.BoardConfig
	if err := json.Unmarshal(data, &config); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return report
	}

	analyzed := analyze(&config)
	analyzed.File = report.File
	return analyzed
}

// analyze validates config and computes its summary. Statistics are only
// gathered for valid boards.
func analyze(config *engine.BoardConfig) Report {
	report := Report{Name: config.Name}

	if err := engine.ValidateBoardConfig(config); err != nil {
		report.Errors = append(report.Errors, err.Error())
		return report
	}
	board, err := engine.BuildBoard(config)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
		return report
	}
	report.Valid = true

	report.Purchasable = engine.CountPurchasable(board)
	report.Kinds = make(map[engine.Kind]int, len(engine.Kinds))
	for _, kind := range engine.Kinds {
		if n := engine.CountKind(board, kind); n > 0 {
			report.Kinds[kind] = n
		}
	}

	groups := map[string]*GroupSummary{}
	for _, space := range board.Properties() {
		if !space.Kind.Purchasable() {
			continue
		}
		report.TotalPrice += space.Price

		if space.BaseRent == 0 {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s charges no rent", space.Name))
		} else {
			report.Payback = append(report.Payback, Payback{
				Name:   space.Name,
				Price:  space.Price,
				Rent:   space.BaseRent,
				Visits: float64(space.Price) / float64(space.BaseRent),
			})
		}
		if space.Price > config.StartingMoney {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s costs $%d, more than the $%d starting money", space.Name, space.Price, config.StartingMoney))
		}

		if space.ColorGroup == "" {
			continue
		}
		g, ok := groups[space.ColorGroup]
		if !ok {
			g = &GroupSummary{Name: space.ColorGroup}
			groups[space.ColorGroup] = g
		}
		g.Spaces = append(g.Spaces, space.Name)
		g.TotalPrice += space.Price
		g.TotalRent += space.BaseRent
	}

	if report.Purchasable == 0 {
		report.Warnings = append(report.Warnings, "board has no purchasable spaces")
	}

	for _, g := range groups {
		report.Groups = append(report.Groups, *g)
	}
	sort.Slice(report.Groups, func(i, j int) bool { return report.Groups[i].Name < report.Groups[j].Name })
	sort.SliceStable(report.Payback, func(i, j int) bool { return report.Payback[i].Visits < report.Payback[j].Visits })

	return report
}

func printReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", r.File)
	if !r.Valid {
		fmt.Fprintf(w, "❌ INVALID\n")
		for _, e := range r.Errors {
			fmt.Fprintf(w, "   - %s\n", e)
		}
		return
	}

	fmt.Fprintf(w, "Name: %s\n", r.Name)
	fmt.Fprintf(w, "Purchasable spaces: %d (total price $%d)\n", r.Purchasable, r.TotalPrice)
	for _, kind := range engine.Kinds {
		if n := r.Kinds[kind]; n > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", kind, n)
		}
	}

	for _, g := range r.Groups {
		fmt.Fprintf(w, "Group %-12s %d spaces, $%d to own, $%d rent\n", g.Name, len(g.Spaces), g.TotalPrice, g.TotalRent)
	}

	if len(r.Payback) > 0 {
		best, worst := r.Payback[0], r.Payback[len(r.Payback)-1]
		fmt.Fprintf(w, "Fastest payback: %s after %.1f rent collections\n", best.Name, best.Visits)
		fmt.Fprintf(w, "Slowest payback: %s after %.1f rent collections\n", worst.Name, worst.Visits)
	}

	if len(r.Warnings) == 0 {
		fmt.Fprintf(w, "✅ No warnings\n")
		return
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "⚠️  %s\n", warning)
	}
}
