// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package looper

import (
	"github.com/joeycumines/logiface"
)

// looperOptions holds configuration options for Looper creation.
type looperOptions struct {
	logger *logiface.Logger[logiface.Event]
	paused bool
}

// --- Looper Options ---

// Option configures a Looper instance.
type Option interface {
	applyLooper(*looperOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyLooperFunc func(*looperOptions) error
}

func (o *optionImpl) applyLooper(opts *looperOptions) error {
	return o.applyLooperFunc(opts)
}

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *looperOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithPaused sets whether the looper starts in StatePaused.
func WithPaused(paused bool) Option {
	return &optionImpl{func(opts *looperOptions) error {
		opts.paused = paused
		return nil
	}}
}

// resolveOptions applies Option instances to looperOptions.
func resolveOptions(opts []Option) (*looperOptions, error) {
	cfg := &looperOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyLooper(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
