// Package models defines the core domain models for Money Mates.
//
// # Participants
//
// The ledger is shared by exactly two fixed profiles, "pea" and "cam".
// Every per-user aggregate in the system is keyed by these two ids only,
// which is why per-profile amounts are modeled as the two-field PerProfile
// struct rather than a map.
//
// # Current Models
//
//   - Profile: one of the two household members
//   - Transaction: a savings contribution logged by a profile
//   - Goal: a shared savings goal with an accumulated amount
//   - SavingsTarget: the singleton bi-monthly target configuration
//   - CutoffPeriod: the frozen record of a closed cutoff period
//
// The shared game session lives in the game package together with its
// state machine.
//
// # Design Principles
//
// 1. **Derived state is never stored**: current-period stats are computed by
// the calculator package on every read.
// 2. **Singletons by fixed id**: the savings target is always "current".
// 3. **Exact money**: amounts are decimal.Decimal, never float64.
package models
