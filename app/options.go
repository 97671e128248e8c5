// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package app

import (
	"github.com/joeycumines/go-shadowdroid/intent"
	"github.com/joeycumines/go-shadowdroid/result"
	"github.com/joeycumines/logiface"
)

// applicationOptions holds configuration options for Application creation.
type applicationOptions struct {
	logger      *logiface.Logger[logiface.Event]
	packageName string
	name        string
}

// --- Application Options ---

// ApplicationOption configures an Application instance.
type ApplicationOption interface {
	applyApplication(*applicationOptions) error
}

// applicationOptionImpl implements ApplicationOption.
type applicationOptionImpl struct {
	applyApplicationFunc func(*applicationOptions) error
}

func (o *applicationOptionImpl) applyApplication(opts *applicationOptions) error {
	return o.applyApplicationFunc(opts)
}

// WithPackageName sets the package name reported by the application and
// its activities.
func WithPackageName(packageName string) ApplicationOption {
	return &applicationOptionImpl{func(opts *applicationOptions) error {
		opts.packageName = packageName
		return nil
	}}
}

// WithApplicationName sets the fully qualified application class name.
func WithApplicationName(name string) ApplicationOption {
	return &applicationOptionImpl{func(opts *applicationOptions) error {
		opts.name = name
		return nil
	}}
}

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) ApplicationOption {
	return &applicationOptionImpl{func(opts *applicationOptions) error {
		opts.logger = logger
		return nil
	}}
}

// resolveApplicationOptions applies ApplicationOption instances.
func resolveApplicationOptions(opts []ApplicationOption) (*applicationOptions, error) {
	cfg := &applicationOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyApplication(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// --- Activity Options ---

// activityOptions holds configuration options for Activity creation.
type activityOptions struct {
	onActivityResult result.Callback
	onDestroy        func()
	intent           *intent.Intent
	name             string
}

// ActivityOption configures an Activity instance.
type ActivityOption interface {
	applyActivity(*activityOptions)
}

type activityOptionImpl struct {
	applyActivityFunc func(*activityOptions)
}

func (o *activityOptionImpl) applyActivity(opts *activityOptions) {
	o.applyActivityFunc(opts)
}

// WithOnActivityResult sets the handler for results of activities started
// via Activity.StartActivityForResult.
func WithOnActivityResult(fn result.Callback) ActivityOption {
	return &activityOptionImpl{func(opts *activityOptions) {
		opts.onActivityResult = fn
	}}
}

// WithOnDestroy sets a hook, run by Activity.OnDestroy before the receiver
// registration check, e.g. to unregister the activity's receivers.
func WithOnDestroy(fn func()) ActivityOption {
	return &activityOptionImpl{func(opts *activityOptions) {
		opts.onDestroy = fn
	}}
}

// WithIntent sets the intent that launched the activity.
func WithIntent(in *intent.Intent) ActivityOption {
	return &activityOptionImpl{func(opts *activityOptions) {
		opts.intent = in
	}}
}

// WithName sets the activity class name, used in errors and logs.
func WithName(name string) ActivityOption {
	return &activityOptionImpl{func(opts *activityOptions) {
		opts.name = name
	}}
}
