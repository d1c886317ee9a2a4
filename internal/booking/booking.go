// Package booking supplies live seat statuses for rendering a layout in
// customer mode. Statuses are never written back into the layout document.
package booking

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"venue-designer/internal/shape"
)

// Source returns the current status of every known seat of a layout, keyed
// by seat id. Seats missing from the map are available.
type Source interface {
	Statuses(ctx context.Context, layoutID string) (map[string]shape.SeatStatus, error)
}

// Store is a Source that also accepts status changes.
type Store interface {
	Source
	SetStatus(ctx context.Context, layoutID, seatID string, st shape.SeatStatus) error
}

// SeatsKey is the redis hash holding seat statuses for a layout.
func SeatsKey(layoutID string) string {
	return fmt.Sprintf("venue:%s:seats", layoutID)
}

// RedisSource reads statuses from a redis hash of seat id to status.
type RedisSource struct {
	client *redis.Client
}

// NewRedisSource connects to addr and pings it with a short timeout.
func NewRedisSource(ctx context.Context, addr, password string, db int) (*RedisSource, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}
	return &RedisSource{client: client}, nil
}

// Statuses implements Source.
func (r *RedisSource) Statuses(ctx context.Context, layoutID string) (map[string]shape.SeatStatus, error) {
	raw, err := r.client.HGetAll(ctx, SeatsKey(layoutID)).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[string]shape.SeatStatus, len(raw))
	for id, v := range raw {
		st, ok := ParseStatus(v)
		if !ok {
			log.Printf("Booking: seat %s has unknown status %q", id, v)
			continue
		}
		out[id] = st
	}
	return out, nil
}

// SetStatus writes one seat status.
func (r *RedisSource) SetStatus(ctx context.Context, layoutID, seatID string, st shape.SeatStatus) error {
	return r.client.HSet(ctx, SeatsKey(layoutID), seatID, string(st)).Err()
}

// Close releases the redis connection.
func (r *RedisSource) Close() error {
	return r.client.Close()
}

// StaticSource is an in-memory Source.
type StaticSource struct {
	mu       sync.RWMutex
	statuses map[string]map[string]shape.SeatStatus
}

// NewStaticSource returns an empty StaticSource.
func NewStaticSource() *StaticSource {
	return &StaticSource{statuses: make(map[string]map[string]shape.SeatStatus)}
}

// Set records the status of a seat.
func (s *StaticSource) Set(layoutID, seatID string, st shape.SeatStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.statuses[layoutID]
	if m == nil {
		m = make(map[string]shape.SeatStatus)
		s.statuses[layoutID] = m
	}
	m[seatID] = st
}

// SetStatus implements Store.
func (s *StaticSource) SetStatus(_ context.Context, layoutID, seatID string, st shape.SeatStatus) error {
	s.Set(layoutID, seatID, st)
	return nil
}

// Statuses implements Source.
func (s *StaticSource) Statuses(_ context.Context, layoutID string) (map[string]shape.SeatStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]shape.SeatStatus, len(s.statuses[layoutID]))
	for k, v := range s.statuses[layoutID] {
		out[k] = v
	}
	return out, nil
}

// ParseStatus accepts the three known statuses.
func ParseStatus(v string) (shape.SeatStatus, bool) {
	switch st := shape.SeatStatus(v); st {
	case shape.SeatAvailable, shape.SeatHeld, shape.SeatSold:
		return st, true
	}
	return "", false
}

// ApplyStatus returns a copy of shapes with every seat's Status filled in
// from statuses. Shapes without seating are shared, not cloned.
func ApplyStatus(shapes []shape.Shape, statuses map[string]shape.SeatStatus) []shape.Shape {
	out := make([]shape.Shape, len(shapes))
	for i, s := range shapes {
		p, ok := s.(*shape.Polygon)
		if !ok || !p.IsArea() {
			out[i] = s
			continue
		}
		cp := p.Clone().(*shape.Polygon)
		for r := range cp.Rows {
			for j := range cp.Rows[r].Seats {
				seat := &cp.Rows[r].Seats[j]
				if st, ok := statuses[seat.ID]; ok {
					seat.Status = st
				} else {
					seat.Status = shape.SeatAvailable
				}
			}
		}
		out[i] = cp
	}
	return out
}

// Counts tallies seats by status after ApplyStatus.
func Counts(shapes []shape.Shape) map[shape.SeatStatus]int {
	n := make(map[shape.SeatStatus]int)
	for _, s := range shapes {
		p, ok := s.(*shape.Polygon)
		if !ok || !p.IsArea() {
			continue
		}
		for _, r := range p.Rows {
			for _, seat := range r.Seats {
				st := seat.Status
				if st == "" {
					st = shape.SeatAvailable
				}
				n[st]++
			}
		}
	}
	return n
}
