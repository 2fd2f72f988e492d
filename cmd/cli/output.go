package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"kuralhub/internal/grpcserver"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResults(w io.Writer, resp *grpcserver.FilterResponse, full bool) {
	if len(resp.Groups) == 0 {
		fmt.Fprintln(w, "முடிவுகள் இல்லை (No results found)")
		return
	}
	fmt.Fprintf(w, "%d குறள்கள், %d அதிகாரங்கள்\n", resp.Kurals, resp.Chapters)
	for _, g := range resp.Groups {
		fmt.Fprintf(w, "\n== %s (%d குறள்கள்) ==\n", g.Chapter, len(g.Kurals))
		for _, k := range g.Kurals {
			fmt.Fprintf(w, "குறள் %s\n", k.Number)
			fmt.Fprintf(w, "  %s\n", k.Text)
			if !full {
				continue
			}
			if k.GlossTa != "" {
				fmt.Fprintf(w, "  விளக்கம்: %s\n", k.GlossTa)
			}
			if k.MeaningEn != "" {
				fmt.Fprintf(w, "  Meaning: %s\n", k.MeaningEn)
			}
			if k.TextEn != "" {
				fmt.Fprintf(w, "  Translation: %s\n", k.TextEn)
			}
		}
	}
}

func printOptions(w io.Writer, resp *grpcserver.OptionsResponse) {
	if resp.Options == nil {
		for _, v := range resp.Values {
			fmt.Fprintln(w, v)
		}
		return
	}
	printLevel(w, "division", resp.Options.Divisions)
	printLevel(w, "section", resp.Options.Sections)
	printLevel(w, "chapter", resp.Options.Chapters)
}

func printLevel(w io.Writer, name string, values []string) {
	fmt.Fprintf(w, "%s (%d):\n", name, len(values))
	for _, v := range values {
		fmt.Fprintf(w, "  %s\n", v)
	}
}

func printStats(w io.Writer, resp *grpcserver.StatsResponse) {
	fmt.Fprintf(w, "status:   %s\n", resp.Status)
	fmt.Fprintf(w, "source:   %s\n", resp.Source)
	if resp.Status != "ready" {
		return
	}
	fmt.Fprintf(w, "kurals:   %d\n", resp.TotalKurals)
	fmt.Fprintf(w, "chapters: %d\n", resp.TotalChapters)
	fmt.Fprintf(w, "loaded:   %s\n", resp.LoadedAt.Local().Format(time.RFC3339))
}
