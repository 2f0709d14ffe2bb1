// Package rulecfg builds rule trees from declarative rule specifications.
//
// A specification is a sequence of records, each naming a rule variant, its
// constructor arguments, an optional behaviour, and optionally a nested list
// of subrule records with a combinator. Records are typically loaded from a
// YAML file:
//
//	rules:
//	  - type: position
//	    args:
//	      bounding_box: [[1350, -2], [2500, 2]]
//	    behaviour: deny
//	    subrule_operator: any
//	    subrules:
//	      - type: minimal_speed
//	        args:
//	          minimal_speed: 23.61
//
// Construction is a small recursive-descent interpreter over a closed
// registry of variant names. It fails fast on unknown variants, unknown
// combinators, missing or ill-typed arguments, and leaf construction
// invariants; errors carry the record's path (e.g. "rules[0].subrules[1]")
// so malformed specifications are easy to locate.
package rulecfg
