// Package cse implements the central optimization entity: the dispatcher
// that owns the active rule set and applies it to vehicle batches once per
// simulation timestep.
//
// The dispatcher holds an unordered, duplicate-free collection of top-level
// rules (structural value equality over full rule trees). Applying the rule
// set runs every rule over every vehicle; rules applied later in a call
// override the classification written by earlier ones for vehicles matched
// by both, so the effective semantics are "last applicable rule wins".
//
// # Basic Usage
//
//	dispatcher := cse.NewDispatcher(logger)
//	if err := dispatcher.AddRulesFromConfig(doc.Rules); err != nil {
//	    // no rules were installed
//	}
//	dispatcher.Apply(vehicles) // once per timestep
//
// The dispatcher is not safe for concurrent mutation: the owning control
// loop must serialize AddRule/ReplaceFromConfig against Apply, which in a
// stepwise simulation falls out naturally (rule set changes happen between
// timesteps).
package cse
