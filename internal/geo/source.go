package geo

import (
	"context"
	"errors"
	"log"
)

// ErrSensingUnavailable means the device could not produce a coordinate.
var ErrSensingUnavailable = errors.New("location sensing unavailable")

// Sensor acquires the device position. It may fail.
type Sensor interface {
	Sense(ctx context.Context) (Coordinate, error)
}

// Source resolves a coordinate and never fails.
type Source interface {
	Resolve(ctx context.Context) Resolution
}

// Resolution is what a Source hands to the client.
type Resolution struct {
	Coordinate Coordinate `json:"coordinate"`
	Fallback   bool       `json:"fallback"`
}

// StaticSensor always reports the configured point.
type StaticSensor struct {
	Point Coordinate
}

func (s StaticSensor) Sense(context.Context) (Coordinate, error) {
	return s.Point, nil
}

// NoSensor models a device without positioning.
type NoSensor struct{}

func (NoSensor) Sense(context.Context) (Coordinate, error) {
	return Coordinate{}, ErrSensingUnavailable
}

// FallbackSource wraps a Sensor and substitutes Fallback on any sensing failure.
type FallbackSource struct {
	Sensor   Sensor
	Fallback Coordinate
}

// Resolve is single-shot: one Sense call, no retries.
func (s FallbackSource) Resolve(ctx context.Context) Resolution {
	if s.Sensor == nil {
		return Resolution{Coordinate: s.Fallback, Fallback: true}
	}
	c, err := s.Sensor.Sense(ctx)
	if err == nil {
		err = c.Validate()
	}
	if err != nil {
		log.Printf("warn: location sensing failed, using fallback %s: %v", s.Fallback, err)
		return Resolution{Coordinate: s.Fallback, Fallback: true}
	}
	return Resolution{Coordinate: c}
}
