// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package services adapts long-running Resonance components to suture.Service.

Each wrapper blocks in Serve until its context is canceled and reports its
name through String so supervisor events are readable:

  - HTTPServerService runs the API server and shuts it down gracefully.
  - RefreshService reloads the dataset on a fixed interval.

The dataset file watcher implements suture.Service itself and lives in the
dataset package.
*/
package services
