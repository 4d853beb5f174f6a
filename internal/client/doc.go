// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the quick-test runtime.
//
// It fetches the application's records, prints one field value (selected by
// record uid and field type or by notation), optionally copies it to the
// clipboard, uploads a file and reads it back, and lists the folder tree.
package client
