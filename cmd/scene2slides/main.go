package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	slidescene "github.com/VantageDataChat/GoSlideScene"
)

func main() {
	in := flag.String("in", "", "scene file to resolve (.svg, .json or .capture)")
	out := flag.String("out", "", "write primitives to this file instead of stdout")
	mode := flag.String("mode", "fit", "sizing mode: fit or percent")
	layout := flag.String("layout", slidescene.LayoutScreen4x3, "page layout: screen4x3, screen16x9, screen16x10, banner10x6, A4 or letter")
	showVersion := flag.Bool("version", false, "print the library version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("GoSlideScene %s\n", slidescene.Version)
		return
	}
	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	sizing := slidescene.SizingFit
	switch *mode {
	case "fit":
	case "percent", "viewport-percent":
		sizing = slidescene.SizingViewportPercent
	default:
		fmt.Fprintf(os.Stderr, "unknown sizing mode %q\n", *mode)
		os.Exit(2)
	}

	switch *layout {
	case slidescene.LayoutScreen4x3, slidescene.LayoutScreen16x9,
		slidescene.LayoutScreen16x10, slidescene.LayoutBanner10x6,
		slidescene.LayoutA4, slidescene.LayoutLetter:
	default:
		fmt.Fprintf(os.Stderr, "unknown layout %q\n", *layout)
		os.Exit(2)
	}
	page := slidescene.NewPageSize()
	page.SetLayout(*layout)

	scene, err := slidescene.OpenScene(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}
	if err := scene.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "validate: %v\n", err)
		os.Exit(1)
	}

	ctx := slidescene.ContextForScene(scene, sizing, page)
	resolver := slidescene.NewResolver(ctx, nil)

	var sink slidescene.Collector
	if err := resolver.ResolveScene(scene, nil, &sink); err != nil {
		fmt.Fprintf(os.Stderr, "resolve: %v\n", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(sink.Primitives, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if *out == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Resolved %d primitives to %s\n", len(sink.Primitives), *out)
}
