// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package dataset loads the item catalog and interaction logs and publishes
them to the recommendation engine as immutable snapshots.

# Components

  - CSVSource: reads all_posts.csv, liked_posts.csv and viewed_posts.csv
    through an in-memory DuckDB connection (read_csv_auto with every column
    read as VARCHAR, so identifiers such as "007" keep their spelling)
  - Store: loads through a circuit breaker, builds a recommend.Dataset,
    swaps it in atomically and invalidates the fitted models of the version
    it replaced
  - Watcher: a suture service that reloads the Store when the CSV files
    change, debounced and rate limited

# Column Mapping

Items: id (required), title, genre, upvote_count, view_count,
average_rating. Every other column is carried through as item metadata.

Interactions: username and id (both required). Other columns are ignored.

Empty numeric cells read as 0. A cell that is not a number fails the load
with a *recommend.InvalidInputError naming the row and column.

# Thread Safety

Store.Current may be called from any goroutine. Reloads are serialized;
readers never observe a partially built dataset.
*/
package dataset
