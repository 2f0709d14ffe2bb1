// Package results persists per-timestep classification outcomes of a
// simulation run into a SQLite database.
//
// One run row records when the run started and the fingerprint of its
// initial rule set; one step row per timestep records how many vehicles
// were allowed onto and denied the overtaking lane. The journal is the
// durable counterpart to the Prometheus metrics: it survives the process
// and can be queried after a batch of runs.
package results
