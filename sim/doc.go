// Package sim provides the deterministic process-scheduling engine for schedsim.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - process.go: Process lifecycle (pending → ready → completed) and input validation
//   - selection.go: the one-tick and run-to-completion loops shared by the policies
//   - multicore.go: the dispatcher that spreads any policy across N cores
//
// # Architecture
//
// Every policy is a pure function over a private copy of the workload. Inside a run the
// copy is an arena ([]Process) and the ready structures hold int handles into it, so a
// record is never owned by two queues at once.
//
// Sub-packages:
//   - sim/trace/: per-decision dispatch trace and per-core summaries
//   - sim/workload/: workload files and seeded synthetic workload generation
//
// # Key Types
//
//   - Policy: schedules a process set from a given clock and returns a Result; the
//     multi-core dispatcher calls it with a subset and the core's clock to get one decision
//   - MultiCore: the dispatcher itself, a Policy wrapping another Policy
//   - Result: completed processes, a display label, and the Timeline
//   - Metrics: the four aggregate scalars plus makespan
//
// Policy names are registered in policy.go; RegisterPolicy adds plugins next to the
// built-ins. Compare runs several policies concurrently on independent copies.
package sim
