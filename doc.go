// Package costbasis computes realized capital gains and losses from a
// chronological ledger of asset acquisitions and disposals. It is the
// accounting core of a larger compliance case-management system and is
// deliberately free of that system's persistence, pricing and presentation
// concerns: the engine receives a transaction slice, a cost-basis method and
// optional valuation inputs, and returns a single Result envelope.
//
// The core functionalities include:
//   - Transaction classification: deciding whether each transaction type
//     opens cost-basis lots or consumes them.
//   - Lot matching: consuming open lots per the selected accounting
//     convention (FIFO, LIFO or weighted average cost), splitting lots when a
//     disposal spans only part of one, and recording one disposal event per
//     lot touched.
//   - Aggregation: rolling disposal events into per-asset and portfolio
//     summaries, split by short-term and long-term holding periods.
//   - Holdings: deriving the remaining lots per asset, optionally valued
//     against a caller-supplied price map.
//   - Export: the renderer subpackage turns a Result into CSV tables and a
//     markdown summary.
//
// # Caller contract
//
// Calculate must always receive the investor's COMPLETE transaction history,
// never a pre-filtered slice. A disposal's cost basis depends on every
// acquisition before it, so transactions outside the requested reporting
// window still mutate lot state; only their disposal events are withheld from
// the report. Supplying a windowed ledger silently produces wrong cost bases.
//
// The engine holds no state between invocations. Concurrent calls are safe as
// long as each receives its own transaction slice.
package costbasis
