package rulecfg

import (
	"fmt"
	"strings"

	"trafficlab/otlane/pkg/rule"
	"trafficlab/otlane/pkg/vehicle"
)

// constructor builds a leaf rule of one variant from its arguments.
type constructor func(path string, args map[string]interface{}, behaviour rule.Behaviour) (*rule.Rule, error)

// registry maps variant names to their constructors. The set of names is
// closed; adding a variant means adding a constructor here and a case to
// the rule evaluator.
var registry = map[string]constructor{
	"universal":     buildUniversal,
	"null":          buildNull,
	"vehicle_type":  buildVehicleType,
	"speed":         buildSpeed,
	"minimal_speed": buildMinimalSpeed,
	"position":      buildPosition,
}

// Build constructs a rule tree for every record in specs. It is
// all-or-nothing: the first invalid record aborts the build and no rules
// are returned.
func Build(specs []Spec) ([]*rule.Rule, error) {
	rules := make([]*rule.Rule, 0, len(specs))
	for i, spec := range specs {
		r, err := buildSpec(&spec, fmt.Sprintf("rules[%d]", i))
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// buildSpec recursively constructs one record and its subrules.
func buildSpec(spec *Spec, path string) (*rule.Rule, error) {
	behaviour := rule.Deny
	if spec.Behaviour != "" {
		b, err := rule.BehaviourFromString(spec.Behaviour)
		if err != nil {
			return nil, &ConfigError{Path: path, Reason: "invalid behaviour", Cause: err}
		}
		behaviour = b
	}

	construct, ok := registry[strings.ToLower(spec.Type)]
	if !ok {
		return nil, &ConfigError{
			Path:   path,
			Reason: fmt.Sprintf("unknown rule variant %q", spec.Type),
		}
	}

	r, err := construct(path, spec.Args, behaviour)
	if err != nil {
		return nil, err
	}

	if spec.SubruleOperator != "" {
		op, err := rule.OperatorFromString(spec.SubruleOperator)
		if err != nil {
			return nil, &ConfigError{Path: path, Reason: "invalid subrule operator", Cause: err}
		}
		if err := r.SetOperator(op); err != nil {
			return nil, &ConfigError{Path: path, Reason: "invalid subrule operator", Cause: err}
		}
	}

	for i, sub := range spec.Subrules {
		child, err := buildSpec(&sub, fmt.Sprintf("%s.subrules[%d]", path, i))
		if err != nil {
			return nil, err
		}
		if err := r.AddChild(child); err != nil {
			return nil, &ConfigError{Path: path, Reason: "invalid subrule", Cause: err}
		}
	}

	return r, nil
}

func buildUniversal(path string, args map[string]interface{}, behaviour rule.Behaviour) (*rule.Rule, error) {
	return rule.NewUniversal(behaviour), nil
}

func buildNull(path string, args map[string]interface{}, behaviour rule.Behaviour) (*rule.Rule, error) {
	return rule.NewNull(), nil
}

func buildVehicleType(path string, args map[string]interface{}, behaviour rule.Behaviour) (*rule.Rule, error) {
	name, err := stringArg(path, args, "vehicle_type")
	if err != nil {
		return nil, err
	}
	t, err := vehicle.ParseType(name)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "invalid argument vehicle_type", Cause: err}
	}
	return rule.NewVehicleType(t, behaviour), nil
}

func buildSpeed(path string, args map[string]interface{}, behaviour rule.Behaviour) (*rule.Rule, error) {
	min, err := floatArg(path, args, "min_speed")
	if err != nil {
		return nil, err
	}
	max, err := floatArg(path, args, "max_speed")
	if err != nil {
		return nil, err
	}
	r, err := rule.NewSpeed(min, max, behaviour)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "invalid speed range", Cause: err}
	}
	return r, nil
}

func buildMinimalSpeed(path string, args map[string]interface{}, behaviour rule.Behaviour) (*rule.Rule, error) {
	min, err := floatArg(path, args, "minimal_speed")
	if err != nil {
		return nil, err
	}
	r, err := rule.NewMinimalSpeed(min, behaviour)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "invalid minimal speed", Cause: err}
	}
	return r, nil
}

func buildPosition(path string, args map[string]interface{}, behaviour rule.Behaviour) (*rule.Rule, error) {
	bbox, err := bboxArg(path, args, "bounding_box")
	if err != nil {
		return nil, err
	}
	outside, err := boolArg(path, args, "outside")
	if err != nil {
		return nil, err
	}
	r, err := rule.NewPosition(bbox, outside, behaviour)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "invalid bounding box", Cause: err}
	}
	return r, nil
}

// stringArg extracts a required string argument.
func stringArg(path string, args map[string]interface{}, name string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return "", &ConfigError{Path: path, Reason: fmt.Sprintf("missing required argument %q", name)}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &ConfigError{
			Path:   path,
			Reason: fmt.Sprintf("argument %q must be a string, got %T", name, raw),
		}
	}
	return s, nil
}

// floatArg extracts a required numeric argument. YAML decodes integers and
// floats into distinct Go types; both are accepted.
func floatArg(path string, args map[string]interface{}, name string) (float64, error) {
	raw, ok := args[name]
	if !ok {
		return 0, &ConfigError{Path: path, Reason: fmt.Sprintf("missing required argument %q", name)}
	}
	f, ok := toFloat(raw)
	if !ok {
		return 0, &ConfigError{
			Path:   path,
			Reason: fmt.Sprintf("argument %q must be a number, got %T", name, raw),
		}
	}
	return f, nil
}

// boolArg extracts an optional boolean argument, defaulting to false.
func boolArg(path string, args map[string]interface{}, name string) (bool, error) {
	raw, ok := args[name]
	if !ok {
		return false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, &ConfigError{
			Path:   path,
			Reason: fmt.Sprintf("argument %q must be a boolean, got %T", name, raw),
		}
	}
	return b, nil
}

// bboxArg extracts a required bounding box argument of the form
// [[x1, y1], [x2, y2]].
func bboxArg(path string, args map[string]interface{}, name string) (rule.BoundingBox, error) {
	raw, ok := args[name]
	if !ok {
		return rule.BoundingBox{}, &ConfigError{
			Path:   path,
			Reason: fmt.Sprintf("missing required argument %q", name),
		}
	}
	corners, ok := raw.([]interface{})
	if !ok || len(corners) != 2 {
		return rule.BoundingBox{}, &ConfigError{
			Path:   path,
			Reason: fmt.Sprintf("argument %q must be two corner points [[x1, y1], [x2, y2]]", name),
		}
	}

	p1, err := positionValue(path, name, corners[0])
	if err != nil {
		return rule.BoundingBox{}, err
	}
	p2, err := positionValue(path, name, corners[1])
	if err != nil {
		return rule.BoundingBox{}, err
	}
	return rule.BoundingBox{P1: p1, P2: p2}, nil
}

// positionValue decodes one [x, y] corner point.
func positionValue(path, name string, raw interface{}) (vehicle.Position, error) {
	pair, ok := raw.([]interface{})
	if !ok || len(pair) != 2 {
		return vehicle.Position{}, &ConfigError{
			Path:   path,
			Reason: fmt.Sprintf("argument %q corner must be a pair [x, y]", name),
		}
	}
	x, okX := toFloat(pair[0])
	y, okY := toFloat(pair[1])
	if !okX || !okY {
		return vehicle.Position{}, &ConfigError{
			Path:   path,
			Reason: fmt.Sprintf("argument %q corner components must be numbers", name),
		}
	}
	return vehicle.Position{X: x, Y: y}, nil
}

// toFloat widens the numeric types the YAML decoder produces.
func toFloat(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
