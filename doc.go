// Package rebalance computes minimal, tax-aware trade plans that move a
// portfolio toward a target asset allocation. It is designed to be
// local-first, deterministic, and auditable: the same store and options
// always produce the same plan, down to the cent and to the ordering of
// every list.
//
// The core functionalities include:
//   - Asset Hierarchy: A forest of asset classes with parent links, used to
//     decide which classes are related enough to substitute for one another.
//   - Holdings Aggregation: Grouping tax lots by asset class with present
//     values, cost bases, and per-lot unrealized gains.
//   - Rebalance Computation: Target-minus-current dollar deltas, related
//     asset substitution, and netting of opposing trades between related
//     classes so that only the residual is actually traded.
//   - Trade Selection: Greedy lot liquidation in ascending-gain order (losses
//     first), dust avoidance, and purchase ordering.
//   - Wash-Sale Analysis: Flagging the disallowed portion of realized losses
//     when equivalent securities were bought inside the lookback window, and
//     the re-triggering effect of planned purchases.
//   - Data Persistence: Encoding and decoding the model store to and from a
//     human-readable, version-controllable JSONL format.
//
// This package serves as the foundational logic for the `prb` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package rebalance
