// Package watchbook provides the building blocks of a personal
// market-data toolkit: categorized catalogs of watched symbols, daily
// price collection, day-over-day change computation, and catalog
// reconciliation.
//
// The core functionalities include:
//   - Catalog Management: a single human-editable JSON file mapping
//     categories (asset classes or sectors) to ordered lists of symbols,
//     loaded wholesale, mutated in memory, and written back atomically.
//   - Reconciliation: merging freshly discovered symbols into a catalog
//     exactly once, reporting symbols mis-filed under several categories
//     instead of silently resolving them.
//   - Trading-Day Resolution: computing which pair of calendar dates a
//     day-over-day change should compare, skipping weekends for weekday
//     traded assets while crypto compares plain consecutive days.
//   - Price Collection: fetching daily closes from EODHD or from ad hoc
//     JSON quote sources described in a YAML file, into a local SQLite
//     price store (the store package).
//   - Change Reports: sorted, column-aligned reports of each category's
//     daily moves (rendered by the renderer package).
//
// This package serves as the foundational logic for the `wb` command-line
// tool; every operation is a short-lived batch job with no persistent
// process.
package watchbook
