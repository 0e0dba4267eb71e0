package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleEnabledLiteral      = "true"
	toggleDisabledLiteral     = "false"
	toggleAffirmativeChoice   = "yes"
	toggleNegativeChoice      = "no"
	toggleValueTypeName       = "bool"
	toggleInvalidTemplate     = "invalid toggle value %q"
	longFlagPrefix            = "--"
	shortFlagPrefix           = "-"
	inlineValueSeparator      = "="
	minimumSingleDashNameSize = 2
)

// toggleLiterals maps every accepted spelling to its boolean meaning.
var toggleLiterals = map[string]bool{
	toggleEnabledLiteral: true, toggleAffirmativeChoice: true, "on": true, "1": true, "t": true, "y": true,
	toggleDisabledLiteral: false, toggleNegativeChoice: false, "off": false, "0": false, "f": false, "n": false,
}

type toggleRegistry struct {
	mutex      sync.RWMutex
	names      map[string]bool
	shorthands map[string]bool
}

var registeredToggles = &toggleRegistry{names: map[string]bool{}, shorthands: map[string]bool{}}

// AddToggleFlag registers a boolean flag that also accepts yes/no, on/off and 1/0 values.
// A bare flag means true. target may be nil when the value is read back through the flag set.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	defaultChoice := toggleNegativeChoice
	if defaultValue {
		defaultChoice = toggleAffirmativeChoice
	}

	flag := flagSet.VarPF(newToggleValue(defaultValue, target), name, shorthand, FormatChoiceUsage(defaultChoice, []string{toggleAffirmativeChoice, toggleNegativeChoice}, usage))
	flag.NoOptDefVal = toggleEnabledLiteral

	registeredToggles.register(name, shorthand)
}

// NormalizeToggleArguments rewrites toggle arguments so pflag can parse them.
//
// "--flag value" is joined into "--flag=value" only when value is a toggle literal, which keeps a positional
// argument after a bare toggle intact. A registered multi-letter toggle written with one dash ("-mit") is
// promoted to its long form. Everything after "--" is left alone.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == longFlagPrefix {
			normalized = append(normalized, arguments[index:]...)
			break
		}

		rewritten, hasInlineValue, isToggle := registeredToggles.classify(argument)
		if !isToggle {
			normalized = append(normalized, argument)
			continue
		}

		if !hasInlineValue && index+1 < len(arguments) && isToggleLiteral(arguments[index+1]) {
			rewritten += inlineValueSeparator + arguments[index+1]
			index++
		}
		normalized = append(normalized, rewritten)
	}

	return normalized
}

func (registry *toggleRegistry) register(name string, shorthand string) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	registry.names[name] = true
	if len(shorthand) > 0 {
		registry.shorthands[shorthand] = true
	}
}

// classify reports whether argument names a registered toggle, returning it in the form pflag expects.
func (registry *toggleRegistry) classify(argument string) (string, bool, bool) {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()

	switch {
	case strings.HasPrefix(argument, longFlagPrefix):
		name, hasInlineValue := splitFlagName(strings.TrimPrefix(argument, longFlagPrefix))
		return argument, hasInlineValue, registry.names[name]
	case strings.HasPrefix(argument, shortFlagPrefix):
		name, hasInlineValue := splitFlagName(strings.TrimPrefix(argument, shortFlagPrefix))
		if len(name) == 1 {
			return argument, hasInlineValue, registry.shorthands[name]
		}
		if len(name) >= minimumSingleDashNameSize && registry.names[name] {
			return shortFlagPrefix + argument, hasInlineValue, true
		}
	}
	return argument, false, false
}

func splitFlagName(flagBody string) (string, bool) {
	name, _, hasInlineValue := strings.Cut(flagBody, inlineValueSeparator)
	return name, hasInlineValue
}

func isToggleLiteral(candidate string) bool {
	_, known := toggleLiterals[strings.ToLower(strings.TrimSpace(candidate))]
	return known
}

type toggleValue struct {
	enabled bool
	target  *bool
}

func newToggleValue(defaultValue bool, target *bool) *toggleValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleValue{enabled: defaultValue, target: target}
}

func (value *toggleValue) Set(rawValue string) error {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		normalizedValue = toggleEnabledLiteral
	}

	enabled, known := toggleLiterals[normalizedValue]
	if !known {
		return fmt.Errorf(toggleInvalidTemplate, rawValue)
	}

	value.enabled = enabled
	if value.target != nil {
		*value.target = enabled
	}
	return nil
}

func (value *toggleValue) String() string {
	if value != nil && value.enabled {
		return toggleEnabledLiteral
	}
	return toggleDisabledLiteral
}

func (value *toggleValue) Type() string {
	return toggleValueTypeName
}
