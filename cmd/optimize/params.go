// Package main provides CMA-ES optimization for lava field force constants.
package main

import (
	"github.com/pthm-cable/lavafield/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters, with
// defaults taken from cfg.
func NewParamVector(cfg *config.Config) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			// Forces
			{Name: "gravity", Path: "forces.gravity", Min: 5, Max: 150},
			{Name: "buoyancy", Path: "forces.buoyancy", Min: 20, Max: 400},
			{Name: "field_lift", Path: "forces.field_lift", Min: 0, Max: 80},
			{Name: "cohesion", Path: "forces.cohesion", Min: 0, Max: 150},
			{Name: "viscosity", Path: "forces.viscosity", Min: 0, Max: 0.5},
			{Name: "side_force", Path: "forces.side_force", Min: 0, Max: 120},
			// Field
			{Name: "diffusion", Path: "field.diffusion", Min: 0.01, Max: 0.25},
			{Name: "exchange", Path: "field.exchange", Min: 0.005, Max: 0.2},
		},
	}
	defaults := pv.ExtractFromConfig(cfg)
	for i := range pv.Specs {
		pv.Specs[i].Default = defaults[i]
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Forces.Gravity = clamped[0]
	cfg.Forces.Buoyancy = clamped[1]
	cfg.Forces.FieldLift = clamped[2]
	cfg.Forces.Cohesion = clamped[3]
	cfg.Forces.Viscosity = clamped[4]
	cfg.Forces.SideForce = clamped[5]
	cfg.Field.Diffusion = clamped[6]
	cfg.Field.Exchange = clamped[7]

	cfg.Recompute()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Forces.Gravity,
		cfg.Forces.Buoyancy,
		cfg.Forces.FieldLift,
		cfg.Forces.Cohesion,
		cfg.Forces.Viscosity,
		cfg.Forces.SideForce,
		cfg.Field.Diffusion,
		cfg.Field.Exchange,
	}
}
