// Command layoutcheck validates a venue layout, prints its statistics and
// optionally renders it to PNG, stores it in the layout library or seeds
// booking statuses.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"sort"
	"strings"

	"venue-designer/internal/booking"
	"venue-designer/internal/layoutdb"
	"venue-designer/internal/project"
	"venue-designer/internal/shape"
	"venue-designer/internal/textmeasure"
	"venue-designer/ui/render"
)

func main() {
	pngPath := flag.String("png", "", "Write a rendering of the layout to this PNG file")
	width := flag.Int("w", 1600, "PNG width in pixels")
	height := flag.Int("h", 1200, "PNG height in pixels")
	customer := flag.Bool("customer", false, "Render the customer view with booking statuses")
	dbPath := flag.String("db", "", "Store the layout in this SQLite library")
	redisAddr := flag.String("redis", "", "Redis address for booking statuses")
	hold := flag.String("hold", "", "Comma-separated seat ids to mark held in redis")
	sold := flag.String("sold", "", "Comma-separated seat ids to mark sold in redis")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: layoutcheck [-png out.png] [-w 1600 -h 1200] [-customer] [-db library.db] [-redis addr [-hold ids] [-sold ids]] <layout.venue.json>")
		os.Exit(1)
	}
	path := flag.Arg(0)
	ctx := context.Background()

	doc, err := project.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load layout: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Layout: %s (%s)\n", doc.Name, path)

	errs := shape.Validate(doc.Shapes)
	for _, e := range errs {
		fmt.Printf("  invalid: %v\n", e)
	}
	printStats(doc.Stats())

	layoutID := doc.ID
	if layoutID == "" {
		layoutID = doc.Name
	}

	if *dbPath != "" {
		lib, err := layoutdb.Open(ctx, *dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open library: %v\n", err)
			os.Exit(1)
		}
		id, err := lib.Save(ctx, doc)
		lib.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to store layout: %v\n", err)
			os.Exit(1)
		}
		layoutID = id
		fmt.Printf("Stored in %s as %s\n", *dbPath, id)
	}

	var statuses map[string]shape.SeatStatus
	if *redisAddr != "" {
		src, err := booking.NewRedisSource(ctx, *redisAddr, os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
			os.Exit(1)
		}
		defer src.Close()

		n, err := seed(ctx, src, layoutID, *hold, shape.SeatHeld)
		if err == nil {
			var m int
			m, err = seed(ctx, src, layoutID, *sold, shape.SeatSold)
			n += m
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed statuses: %v\n", err)
			os.Exit(1)
		}
		if n > 0 {
			fmt.Printf("Seeded %d seat statuses under %s\n", n, booking.SeatsKey(layoutID))
		}

		statuses, err = src.Statuses(ctx, layoutID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read statuses: %v\n", err)
			os.Exit(1)
		}
		counts := booking.Counts(booking.ApplyStatus(doc.Shapes, statuses))
		fmt.Printf("Booking: %d available, %d held, %d sold\n",
			counts[shape.SeatAvailable], counts[shape.SeatHeld], counts[shape.SeatSold])
	}

	if *pngPath != "" {
		if err := writePNG(*pngPath, doc, statuses, *customer, *width, *height); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%dx%d)\n", *pngPath, *width, *height)
	}

	if len(errs) > 0 {
		os.Exit(2)
	}
}

func printStats(st project.Stats) {
	fmt.Printf("  shapes: %d\n", st.Shapes)
	fmt.Printf("  areas:  %d\n", st.Areas)
	fmt.Printf("  rows:   %d\n", st.Rows)
	fmt.Printf("  seats:  %d\n", st.Seats)

	cats := make([]string, 0, len(st.Categories))
	for c := range st.Categories {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		name := c
		if name == "" {
			name = "(none)"
		}
		fmt.Printf("    %-12s %d\n", name, st.Categories[c])
	}
}

func seed(ctx context.Context, store booking.Store, layoutID, ids string, st shape.SeatStatus) (int, error) {
	n := 0
	for _, id := range strings.Split(ids, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if err := store.SetStatus(ctx, layoutID, id, st); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func writePNG(path string, doc *project.Document, statuses map[string]shape.SeatStatus, customer bool, w, h int) error {
	fonts, err := textmeasure.New()
	if err != nil {
		fmt.Printf("Fonts unavailable, rendering without text: %v\n", err)
		fonts = nil
	}

	shapes := []shape.Shape(doc.Shapes)
	opts := render.Options{}
	if customer {
		opts.Mode = render.ModeCustomer
		shapes = booking.ApplyStatus(shapes, statuses)
	}
	img := render.NewPainter(fonts).Snapshot(shapes, w, h, opts)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
