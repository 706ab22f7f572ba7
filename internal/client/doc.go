// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line sync client.
//
// The client authenticates against the HTTP API and then submits sync
// requests read from a file, lists the sync history or keeps pulling server
// changes on an interval ("watch"). Responses are printed as indented JSON.
package client
