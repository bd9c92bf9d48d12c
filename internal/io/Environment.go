package io

import (
	"strings"

	"github.com/poppolopoppo/msvcenv/internal/base"
)

/***************************************
 * Process Environment
 ***************************************/

// Windows variable names are case-insensitive, so is every lookup below.
type EnvironmentVar string

func (x EnvironmentVar) String() string { return (string)(x) }
func (x EnvironmentVar) Equals(name string) bool {
	return strings.EqualFold(x.String(), name)
}

type EnvironmentDefinition struct {
	Name   EnvironmentVar
	Values base.StringSet
}

func (x EnvironmentDefinition) Value() string {
	return x.Values.Join(";")
}
func (x EnvironmentDefinition) String() string {
	if len(x.Values) > 0 {
		sb := strings.Builder{}

		capacity := len(x.Name.String())
		for _, it := range x.Values {
			capacity += 1 + len(it)
		}
		sb.Grow(capacity)

		sb.WriteString(x.Name.String())
		sb.WriteRune('=')

		for i, it := range x.Values {
			if i > 0 {
				sb.WriteRune(';')
			}
			sb.WriteString(it)
		}

		return sb.String()
	} else {
		return x.Name.String()
	}
}

// ProcessEnvironment keeps definitions in insertion order, so exported environments are reproducible.
type ProcessEnvironment []EnvironmentDefinition

func NewProcessEnvironment() ProcessEnvironment {
	return ProcessEnvironment([]EnvironmentDefinition{})
}

// Export skips empty definitions, an empty variable is an undefined variable for cmd.exe.
func (x ProcessEnvironment) Export() []string {
	result := make([]string, 0, len(x))
	for _, it := range x {
		if len(it.Values) > 0 {
			result = append(result, it.String())
		}
	}
	return result
}
func (x ProcessEnvironment) Names() base.StringSet {
	result := make(base.StringSet, len(x))
	for i, it := range x {
		result[i] = it.Name.String()
	}
	return result
}
func (x ProcessEnvironment) IndexOf(name string) (int, bool) {
	base.AssertNotIn(name, "")
	for i, it := range x {
		if it.Name.Equals(name) {
			return i, true
		}
	}
	return len(x), false
}
func (x ProcessEnvironment) Get(name string) (base.StringSet, bool) {
	if i, ok := x.IndexOf(name); ok {
		return x[i].Values, true
	}
	return nil, false
}
func (x ProcessEnvironment) Lookup(name string) (string, bool) {
	if i, ok := x.IndexOf(name); ok && len(x[i].Values) > 0 {
		return x[i].Value(), true
	}
	return "", false
}
func (x ProcessEnvironment) Clone() ProcessEnvironment {
	result := make(ProcessEnvironment, len(x))
	for i, it := range x {
		result[i] = EnvironmentDefinition{
			Name:   it.Name,
			Values: it.Values.Clone(),
		}
	}
	return result
}
func (x ProcessEnvironment) Equals(other ProcessEnvironment) bool {
	if len(x) != len(other) {
		return false
	}
	for i, it := range x {
		if !it.Name.Equals(other[i].Name.String()) || !it.Values.Equals(other[i].Values) {
			return false
		}
	}
	return true
}

// Append concatenates values when the variable is already defined.
func (x *ProcessEnvironment) Append(name string, values ...string) {
	base.AssertNotIn(name, "")
	if i, ok := x.IndexOf(name); ok {
		(*x)[i].Values.Append(values...)
	} else {
		*x = append(*x, EnvironmentDefinition{
			Name:   EnvironmentVar(name),
			Values: base.NewStringSet(values...),
		})
	}
}

// Set replaces previous values, the original position of the variable is kept.
func (x *ProcessEnvironment) Set(name string, values ...string) {
	base.AssertNotIn(name, "")
	if i, ok := x.IndexOf(name); ok {
		(*x)[i].Values = base.NewStringSet(values...)
	} else {
		*x = append(*x, EnvironmentDefinition{
			Name:   EnvironmentVar(name),
			Values: base.NewStringSet(values...),
		})
	}
}

// Inherit only adds the variables which are not already defined.
func (x *ProcessEnvironment) Inherit(other ProcessEnvironment) {
	for _, it := range other {
		if _, ok := x.IndexOf(it.Name.String()); !ok {
			x.Set(it.Name.String(), it.Values...)
		}
	}
}
func (x *ProcessEnvironment) Overwrite(other ProcessEnvironment) {
	for _, it := range other {
		x.Set(it.Name.String(), it.Values...)
	}
}
