// Package budget reconciles personal account balances coming from two
// disjoint sources into a single, chronologically consistent series per
// account, and derives reports from it.
//
// The core functionalities include:
//   - Snapshots: observations of an account balance at a point in time, either
//     recorded by hand in the manual ledger, or produced by automated
//     collectors (see Collector).
//   - Reconciliation: Reconcile merges manual and automated snapshots into one
//     deduplicated series, ordered by time then account. When two snapshots
//     share the same account and instant, the manual one always wins.
//   - Aggregation: AccountSummaries selects the current balance of each
//     account, RecentSpending and SpendingByDay report the latest transactions.
//
// Everything in this package is stateless: results are recomputed from the
// sources on every run and never persisted.
//
// This package serves as the foundational logic for the `budget`
// command-line tool.
package budget
