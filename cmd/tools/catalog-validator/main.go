// cmd/tools/catalog-validator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"nexthire-workers/internal/ats/catalog"
)

// Reports what catalog normalization will do to a YAML skill file: entries
// that change case or whitespace, and entries dropped as duplicates.
func main() {
	path := flag.String("path", "", "Path to a YAML skill catalog (empty inspects the built-in catalog)")
	verbose := flag.Bool("verbose", false, "Print every catalog entry")
	flag.Parse()

	var raw []string
	if *path == "" {
		fmt.Println("Inspecting built-in skill catalog")
		raw = catalog.Default().Entries()
	} else {
		v := viper.New()
		v.SetConfigFile(*path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read %s: %v\n", *path, err)
			os.Exit(1)
		}
		raw = v.GetStringSlice("skills")
		if len(raw) == 0 {
			fmt.Fprintf(os.Stderr, "Error: %s has no skills\n", *path)
			os.Exit(1)
		}
		fmt.Printf("Inspecting skill catalog from %s\n", *path)
	}

	warnings := 0
	seen := make(map[string]int)
	for i, entry := range raw {
		normalized := strings.ToLower(strings.TrimSpace(entry))
		if normalized == "" {
			fmt.Printf("  warning: entry %d is empty and will be dropped\n", i+1)
			warnings++
			continue
		}
		if normalized != entry {
			fmt.Printf("  warning: %q will be normalized to %q\n", entry, normalized)
			warnings++
		}
		if first, dup := seen[normalized]; dup {
			fmt.Printf("  warning: %q duplicates entry %d and will be dropped\n", entry, first)
			warnings++
			continue
		}
		seen[normalized] = i + 1
	}

	cat := catalog.New(raw)
	if *verbose {
		for _, entry := range cat.Entries() {
			fmt.Printf("  %s\n", entry)
		}
	}

	fmt.Printf("Raw entries: %d, catalog entries: %d\n", len(raw), cat.Len())
	if warnings > 0 {
		fmt.Printf("Found %d warning(s)\n", warnings)
		os.Exit(1)
	}
	fmt.Println("Catalog is clean")
}
