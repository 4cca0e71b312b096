// Package pkg provides the libraries behind kneefig, which renders the
// figures of a recorded prosthetic-knee running trial.
//
// # Overview
//
// The pkg directory is organized by pipeline stage:
//
//  1. [trial] - Loading, validating and deriving trial channels
//  2. [motor] - The motor operating envelope
//  3. [figure] - Building and drawing the three figures
//  4. [pipeline] - Orchestration (load → render → write)
//  5. [cache], [observability], [config], [errors], [buildinfo] - Support
//
// # Architecture
//
//	trial file (.json, .yaml, .toml)
//	         ↓
//	    [trial] package (decode + validate)
//	         ↓
//	    [figure] package (motor-torque, knee-torque, knee-speed)
//	         ↓
//	    PDF/SVG/EPS/TeX/PNG output
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "knee_running.json",
//	    Formats: []string{"pdf"},
//	})
//
// [trial]: github.com/matzehuels/kneefig/pkg/trial
// [motor]: github.com/matzehuels/kneefig/pkg/motor
// [figure]: github.com/matzehuels/kneefig/pkg/figure
// [pipeline]: github.com/matzehuels/kneefig/pkg/pipeline
// [cache]: github.com/matzehuels/kneefig/pkg/cache
// [observability]: github.com/matzehuels/kneefig/pkg/observability
// [config]: github.com/matzehuels/kneefig/pkg/config
// [errors]: github.com/matzehuels/kneefig/pkg/errors
// [buildinfo]: github.com/matzehuels/kneefig/pkg/buildinfo
package pkg
