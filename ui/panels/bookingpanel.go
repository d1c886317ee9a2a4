package panels

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"venue-designer/internal/app"
	"venue-designer/internal/booking"
	"venue-designer/internal/shape"
	"venue-designer/ui/canvas"
	"venue-designer/ui/render"
)

// DefaultPollInterval is how often customer view re-reads seat statuses.
const DefaultPollInterval = 3 * time.Second

// BookingPanel switches the canvas into customer view and keeps its seat
// statuses current from a booking source.
type BookingPanel struct {
	state    *app.State
	canvas   *canvas.EditorCanvas
	source   booking.Source
	interval time.Duration
	box      *fyne.Container

	toggle  *widget.Check
	summary *widget.Label
	last    *widget.Label

	onToggle func(customer bool)

	mu   sync.Mutex
	stop chan struct{}
}

// NewBookingPanel creates the panel. Seat taps in customer view hold the
// seat when source also implements booking.Store.
func NewBookingPanel(state *app.State, cv *canvas.EditorCanvas, source booking.Source, interval time.Duration) *BookingPanel {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	bp := &BookingPanel{
		state:    state,
		canvas:   cv,
		source:   source,
		interval: interval,
		summary:  widget.NewLabel(""),
		last:     widget.NewLabel(""),
	}
	bp.toggle = widget.NewCheck("Customer view", bp.SetCustomerView)
	bp.box = container.NewVBox(
		bp.toggle,
		widget.NewButton("Refresh Statuses", func() { bp.Refresh() }),
		bp.summary,
		bp.last,
	)

	cv.OnSeatTapped(bp.hold)
	state.On(app.EventProjectLoaded, func(_ interface{}) {
		if bp.CustomerView() {
			bp.Refresh()
		}
	})
	return bp
}

// Container returns the panel for embedding.
func (bp *BookingPanel) Container() fyne.CanvasObject {
	return bp.box
}

// OnToggle sets a callback run after the view mode changes.
func (bp *BookingPanel) OnToggle(callback func(customer bool)) {
	bp.onToggle = callback
}

// CustomerView reports whether the canvas shows the booking view.
func (bp *BookingPanel) CustomerView() bool {
	return bp.canvas.Mode() == render.ModeCustomer
}

// SetCustomerView switches modes and starts or stops status polling.
func (bp *BookingPanel) SetCustomerView(on bool) {
	if bp.toggle.Checked != on {
		// SetChecked calls back into SetCustomerView.
		bp.toggle.SetChecked(on)
		return
	}
	if on {
		bp.canvas.SetMode(render.ModeCustomer)
		bp.Refresh()
		bp.startPolling()
	} else {
		bp.stopPolling()
		bp.canvas.SetMode(render.ModeEditor)
		bp.canvas.SetStatuses(nil)
		bp.summary.SetText("")
	}
	if bp.onToggle != nil {
		bp.onToggle(on)
	}
}

// Refresh reads the current statuses once and pushes them to the canvas.
func (bp *BookingPanel) Refresh() error {
	if bp.source == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), bp.interval)
	defer cancel()

	id := bp.state.DocumentID()
	statuses, err := bp.source.Statuses(ctx, id)
	if err != nil {
		log.Printf("Booking: statuses for %s: %v", id, err)
		bp.last.SetText("Status fetch failed")
		return err
	}
	bp.canvas.SetStatuses(statuses)

	counts := booking.Counts(booking.ApplyStatus(bp.state.Shapes(), statuses))
	bp.summary.SetText(fmt.Sprintf("Available %d  Held %d  Sold %d",
		counts[shape.SeatAvailable], counts[shape.SeatHeld], counts[shape.SeatSold]))
	bp.last.SetText("Updated " + time.Now().Format("15:04:05"))
	return nil
}

// Stop ends polling.
func (bp *BookingPanel) Stop() {
	bp.stopPolling()
}

func (bp *BookingPanel) hold(seatID string) {
	store, ok := bp.source.(booking.Store)
	if !ok {
		bp.last.SetText("Seat " + seatID + " selected")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), bp.interval)
	defer cancel()
	if err := store.SetStatus(ctx, bp.state.DocumentID(), seatID, shape.SeatHeld); err != nil {
		log.Printf("Booking: hold %s: %v", seatID, err)
		return
	}
	bp.Refresh()
}

func (bp *BookingPanel) startPolling() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.stop != nil || bp.source == nil {
		return
	}
	stop := make(chan struct{})
	bp.stop = stop

	go func() {
		ticker := time.NewTicker(bp.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				bp.Refresh()
			}
		}
	}()
}

func (bp *BookingPanel) stopPolling() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.stop != nil {
		close(bp.stop)
		bp.stop = nil
	}
}
