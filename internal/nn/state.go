package nn

import (
	"github.com/pkg/errors"
)

// StateDict returns the current parameter values keyed by name.
func (l *Layer) StateDict() map[string]float64 {
	return stateDict(l.NamedParameters())
}

// LoadStateDict sets parameter values from a state dict.
//
// Every parameter must be present; extra keys are ignored. On error no
// parameter is modified.
func (l *Layer) LoadStateDict(stateDict map[string]float64) error {
	return loadStateDict(l.NamedParameters(), stateDict)
}

// StateDict returns the current parameter values keyed by name.
func (m *MLP) StateDict() map[string]float64 {
	return stateDict(m.NamedParameters())
}

// LoadStateDict sets parameter values from a state dict.
//
// Every parameter must be present; extra keys are ignored. On error no
// parameter is modified.
func (m *MLP) LoadStateDict(stateDict map[string]float64) error {
	return loadStateDict(m.NamedParameters(), stateDict)
}

func stateDict(named []NamedParameter) map[string]float64 {
	sd := make(map[string]float64, len(named))
	for _, p := range named {
		sd[p.Name] = p.Value.Data()
	}
	return sd
}

func loadStateDict(named []NamedParameter, sd map[string]float64) error {
	for _, p := range named {
		if _, ok := sd[p.Name]; !ok {
			return errors.Wrapf(ErrMissingParameter, "parameter %q", p.Name)
		}
	}
	for _, p := range named {
		p.Value.SetData(sd[p.Name])
	}
	return nil
}
