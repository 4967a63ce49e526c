package statemachine

import "encoding/json"

// Check enforces the structural rules a machine must satisfy before it may
// start. A failing check leaves no partial state installed because the
// engine only adopts a machine that passed.
//
// Rules: unique state names; a resolvable initial state; at most one
// guard-less transition per state, and only in last position; every
// transition target resolves; every guard references a declared trigger of
// a compatible type; completion listeners reference existing states.
func Check(machine *Machine) error {
	seen := make(map[string]struct{}, len(machine.States))
	for _, state := range machine.States {
		if _, dup := seen[state.Name]; dup {
			return errf(ErrDuplicateStateName, "state %q declared twice", state.Name)
		}
		seen[state.Name] = struct{}{}
	}

	if machine.State(machine.Descriptor.Initial) == nil {
		return errf(ErrUnknownStateRef, "initial state %q does not exist", machine.Descriptor.Initial)
	}

	for _, state := range machine.States {
		guardless := 0
		for i, transition := range state.Transitions {
			if machine.State(transition.ToState) == nil {
				return errf(ErrUnknownStateRef, "state %q transition %d targets unknown state %q",
					state.Name, i, transition.ToState)
			}
			if len(transition.Guards) == 0 {
				guardless++
				if guardless > 1 {
					return errf(ErrMultipleGuardless, "state %q has more than one guard-less transition", state.Name)
				}
				if i != len(state.Transitions)-1 {
					return errf(ErrMultipleGuardless,
						"state %q: guard-less transition must be last", state.Name)
				}
			}
			for _, guard := range transition.Guards {
				if err := checkGuard(machine, state.Name, &guard); err != nil {
					return err
				}
			}
		}
	}

	for _, listener := range machine.Listeners {
		if listener.StateName != "" && machine.State(listener.StateName) == nil {
			return errf(ErrUnknownStateRef, "%s listener references unknown state %q",
				listener.Kind, listener.StateName)
		}
	}

	return nil
}

// Completion events are implicitly declared: an event guard may reference
// them without a trigger entry.
func implicitEventTrigger(name string) bool {
	return name == "OnComplete" || name == "OnLoopComplete"
}

func checkGuard(machine *Machine, stateName string, guard *Guard) error {
	if guard.Kind == GuardEvent && implicitEventTrigger(guard.TriggerName) {
		return nil
	}

	trigger := machine.Trigger(guard.TriggerName)
	if trigger == nil {
		return errf(ErrUnknownTriggerRef, "state %q guard references undeclared trigger %q",
			stateName, guard.TriggerName)
	}

	switch guard.Kind {
	case GuardEvent:
		if trigger.Kind != TriggerEvent {
			return errf(ErrTypeIncompatibleGuard, "state %q: event guard on %q needs an Event trigger",
				stateName, guard.TriggerName)
		}
		return nil
	case GuardNumeric:
		if trigger.Kind != TriggerNumeric {
			return errf(ErrTypeIncompatibleGuard, "state %q: numeric guard on non-numeric trigger %q",
				stateName, guard.TriggerName)
		}
		var v float32
		if err := json.Unmarshal(guard.CompareTo, &v); err != nil {
			return errf(ErrTypeIncompatibleGuard, "state %q: numeric guard on %q compares to non-number",
				stateName, guard.TriggerName)
		}
	case GuardString:
		if trigger.Kind != TriggerString {
			return errf(ErrTypeIncompatibleGuard, "state %q: string guard on non-string trigger %q",
				stateName, guard.TriggerName)
		}
		var v string
		if err := json.Unmarshal(guard.CompareTo, &v); err != nil {
			return errf(ErrTypeIncompatibleGuard, "state %q: string guard on %q compares to non-string",
				stateName, guard.TriggerName)
		}
		if guard.ConditionType != ConditionEqual && guard.ConditionType != ConditionNotEqual {
			return errf(ErrTypeIncompatibleGuard, "state %q: string guard on %q only supports Equal/NotEqual",
				stateName, guard.TriggerName)
		}
	case GuardBoolean:
		if trigger.Kind != TriggerBoolean {
			return errf(ErrTypeIncompatibleGuard, "state %q: boolean guard on non-boolean trigger %q",
				stateName, guard.TriggerName)
		}
		var v bool
		if err := json.Unmarshal(guard.CompareTo, &v); err != nil {
			return errf(ErrTypeIncompatibleGuard, "state %q: boolean guard on %q compares to non-boolean",
				stateName, guard.TriggerName)
		}
		if guard.ConditionType != ConditionEqual && guard.ConditionType != ConditionNotEqual {
			return errf(ErrTypeIncompatibleGuard, "state %q: boolean guard on %q only supports Equal/NotEqual",
				stateName, guard.TriggerName)
		}
	}
	return nil
}
