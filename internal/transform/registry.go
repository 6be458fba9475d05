package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TransformRegistry maps transform names to factories so what-if runs can
// be described as "name:key=value" strings on the command line or over HTTP.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory builds a transform from its string parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry returns a registry with every plan lever and market
// assumption transform registered.
func NewTransformRegistry() *TransformRegistry {
	r := &TransformRegistry{factories: map[string]TransformFactory{}}

	// Plan levers
	r.Register("contribute", createAddContribution)
	r.Register("delay", createDelayRetirement)
	r.Register("retire-at", createSetRetirementAge)
	r.Register("reduce-expense", createReduceExpense)
	r.Register("income", createSetAdditionalIncome)
	r.Register("target", createSetTargetSuccessRate)

	// Market assumptions, rates given in percent
	r.Register("return", createSetExpectedReturn)
	r.Register("volatility", createSetVolatility)
	r.Register("inflation", createSetInflation)

	return r
}

// Register adds or replaces the factory for name.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create builds the named transform.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	if factory, ok := r.factories[name]; ok {
		return factory(params)
	}
	return nil, fmt.Errorf("unknown transform: %s (available: %s)", name, strings.Join(r.List(), ", "))
}

// List returns the registered names sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseSpec splits "name:key=value,key=value" into its name and parameters.
// An empty parameter list ("name:") is allowed.
func ParseSpec(spec string) (string, map[string]string, error) {
	name, rawParams, ok := strings.Cut(spec, ":")
	if !ok {
		return "", nil, fmt.Errorf("invalid transform spec %q, expected 'name:params'", spec)
	}

	params := map[string]string{}
	rawParams = strings.TrimSpace(rawParams)
	if rawParams == "" {
		return strings.TrimSpace(name), params, nil
	}
	for _, pair := range strings.Split(rawParams, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return "", nil, fmt.Errorf("invalid parameter %q, expected 'key=value'", pair)
		}
		params[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return strings.TrimSpace(name), params, nil
}

// ParseTransformSpec builds a transform from a spec such as "contribute:amount=6000".
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	name, params, err := ParseSpec(spec)
	if err != nil {
		return nil, err
	}
	return r.Create(name, params)
}

// ParseTransformSpecs parses every spec in order.
func (r *TransformRegistry) ParseTransformSpecs(specs []string) ([]ScenarioTransform, error) {
	transforms := make([]ScenarioTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, t)
	}
	return transforms, nil
}

func floatParam(transform string, params map[string]string, key string) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func intParam(transform string, params map[string]string, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func createAddContribution(params map[string]string) (ScenarioTransform, error) {
	amount, err := floatParam("contribute", params, "amount")
	if err != nil {
		return nil, err
	}
	return &AddContribution{Amount: amount}, nil
}

func createDelayRetirement(params map[string]string) (ScenarioTransform, error) {
	years, err := intParam("delay", params, "years")
	if err != nil {
		return nil, err
	}
	return &DelayRetirement{Years: years}, nil
}

func createSetRetirementAge(params map[string]string) (ScenarioTransform, error) {
	age, err := intParam("retire-at", params, "age")
	if err != nil {
		return nil, err
	}
	return &SetRetirementAge{Age: age}, nil
}

func createReduceExpense(params map[string]string) (ScenarioTransform, error) {
	amount, err := floatParam("reduce-expense", params, "amount")
	if err != nil {
		return nil, err
	}
	return &ReduceExpense{Amount: amount}, nil
}

func createSetAdditionalIncome(params map[string]string) (ScenarioTransform, error) {
	amount, err := floatParam("income", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetAdditionalIncome{Amount: amount}, nil
}

func createSetTargetSuccessRate(params map[string]string) (ScenarioTransform, error) {
	rate, err := floatParam("target", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetTargetSuccessRate{Rate: rate}, nil
}

func createSetExpectedReturn(params map[string]string) (ScenarioTransform, error) {
	rate, err := floatParam("return", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetExpectedReturn{Rate: rate / 100}, nil
}

func createSetVolatility(params map[string]string) (ScenarioTransform, error) {
	rate, err := floatParam("volatility", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetVolatility{StdDev: rate / 100}, nil
}

func createSetInflation(params map[string]string) (ScenarioTransform, error) {
	rate, err := floatParam("inflation", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetInflation{Rate: rate / 100}, nil
}
