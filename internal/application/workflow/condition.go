package workflow

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// EvaluateRule evaluates a configured step rule against submitted
// data. Empty rule returns true. Supports "true"/"false" literals.
func EvaluateRule(rule string, data map[string]string) (bool, error) {
	expr := strings.TrimSpace(rule)
	if expr == "" {
		return true, nil
	}
	switch strings.ToLower(expr) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	evaluable, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return false, err
	}
	result, err := evaluable.Evaluate(buildRuleParams(data))
	if err != nil {
		return false, err
	}
	switch v := result.(type) {
	case bool:
		return v, nil
	default:
		return false, errors.New("rule did not evaluate to boolean")
	}
}

// buildRuleParams coerces form values so rules can compare them as
// booleans and numbers, not just strings.
func buildRuleParams(data map[string]string) map[string]interface{} {
	params := make(map[string]interface{}, len(data))
	for k, v := range data {
		switch strings.ToLower(v) {
		case "true":
			params[k] = true
			continue
		case "false":
			params[k] = false
			continue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			params[k] = f
			continue
		}
		params[k] = v
	}
	return params
}
