// Package main provides the entry point for the Venue Designer application.
package main

import (
	"context"
	"flag"
	"log"

	fyneapp "fyne.io/fyne/v2/app"

	"venue-designer/internal/app"
	"venue-designer/internal/booking"
	"venue-designer/internal/config"
	"venue-designer/internal/editor"
	"venue-designer/internal/layoutdb"
	"venue-designer/internal/textmeasure"
	"venue-designer/internal/version"
	"venue-designer/ui/mainwindow"
	"venue-designer/ui/prefs"
	"venue-designer/ui/render"
)

const appID = "com.venue-designer.app"

func main() {
	envFile := flag.String("env", ".env", "Environment file to load")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", version.String())

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}

	state := app.NewState(cfg.HistoryLimit)
	state.SetAreaZoom(cfg.AreaZoom())

	fonts, err := textmeasure.New()
	var measure textmeasure.Measurer = textmeasure.Approx{}
	if err != nil {
		log.Printf("Fonts: %v; text sizes are estimated", err)
		fonts = nil
	} else {
		measure = fonts
	}
	disp := editor.NewDispatcher(state, cfg.EditorOptions(), measure, nil)

	ctx := context.Background()
	opts := mainwindow.Options{
		Prefs:       prefs.Load(),
		BookingPoll: cfg.BookingPoll,
	}

	if cfg.LibraryDB != "" {
		lib, err := layoutdb.Open(ctx, cfg.LibraryDB)
		if err != nil {
			log.Printf("Library: %v", err)
		} else {
			defer lib.Close()
			opts.Library = lib
			log.Printf("Library: %s", cfg.LibraryDB)
		}
	}

	if cfg.RedisAddr != "" {
		src, err := booking.NewRedisSource(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("Booking: %v; using in-memory statuses", err)
			opts.Booking = booking.NewStaticSource()
		} else {
			defer src.Close()
			opts.Booking = src
			log.Printf("Booking: redis %s db %d", cfg.RedisAddr, cfg.RedisDB)
		}
	} else {
		opts.Booking = booking.NewStaticSource()
	}

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.VenueTheme{})

	win := mainwindow.New(a, state, disp, render.NewPainter(fonts), opts)

	// Handle command line arguments
	if path := flag.Arg(0); path != "" {
		if err := win.OpenFile(path); err != nil {
			log.Printf("Failed to load layout %s: %v", path, err)
		}
	}

	win.ShowAndRun()
}
