// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package harness

import (
	"errors"

	"github.com/joeycumines/go-shadowdroid/manifest"
	"github.com/joeycumines/go-shadowdroid/receiver"
	"github.com/joeycumines/logiface"
)

// harnessOptions holds configuration options for Harness creation.
type harnessOptions struct {
	logger      *logiface.Logger[logiface.Event]
	manifest    *manifest.Manifest
	receivers   map[string]receiver.Receiver
	packageName string
	paused      bool
}

// Option configures a Harness instance.
type Option interface {
	applyHarness(*harnessOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyHarnessFunc func(*harnessOptions) error
}

func (o *optionImpl) applyHarness(opts *harnessOptions) error {
	return o.applyHarnessFunc(opts)
}

// WithLogger sets the structured logger shared by every component. A nil
// logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *harnessOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithPausedLooper starts the main looper paused.
func WithPausedLooper(paused bool) Option {
	return &optionImpl{func(opts *harnessOptions) error {
		opts.paused = paused
		return nil
	}}
}

// WithManifest loads the AndroidManifest.xml at path, which supplies the
// package name, and the manifest-declared receivers (see WithReceivers).
func WithManifest(path string) Option {
	return &optionImpl{func(opts *harnessOptions) error {
		m, err := manifest.Load(path)
		if err != nil {
			return err
		}
		opts.manifest = m
		return nil
	}}
}

// WithParsedManifest is WithManifest for an already parsed manifest.
func WithParsedManifest(m *manifest.Manifest) Option {
	return &optionImpl{func(opts *harnessOptions) error {
		if m == nil {
			return errors.New("harness: nil manifest")
		}
		opts.manifest = m
		return nil
	}}
}

// WithReceivers supplies instances of manifest-declared receivers, keyed by
// fully qualified class name. May be specified multiple times.
func WithReceivers(receivers map[string]receiver.Receiver) Option {
	return &optionImpl{func(opts *harnessOptions) error {
		if opts.receivers == nil {
			opts.receivers = make(map[string]receiver.Receiver, len(receivers))
		}
		for k, v := range receivers {
			opts.receivers[k] = v
		}
		return nil
	}}
}

// WithPackageName sets the application package name. A manifest, if any,
// takes precedence.
func WithPackageName(packageName string) Option {
	return &optionImpl{func(opts *harnessOptions) error {
		opts.packageName = packageName
		return nil
	}}
}

// resolveOptions applies Option instances.
func resolveOptions(opts []Option) (*harnessOptions, error) {
	cfg := &harnessOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyHarness(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
