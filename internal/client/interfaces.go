// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes the client once and returns when it is done.
	Run(ctx context.Context) error
}

// Clipboard receives values the user asked to copy.
type Clipboard interface {
	WriteAll(text string) error
}
