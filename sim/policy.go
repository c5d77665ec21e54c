package sim

import (
	"fmt"
	"sort"
	"sync"
)

// Policy plans a workload starting from clock. Implementations MUST NOT modify procs;
// they work on a private copy and return new records in the Result.
// Schedule(procs, 0) is the plain single-core run. The multi-core dispatcher calls it
// with a core's current time to ask for the next decision.
type Policy interface {
	Schedule(procs []Process, clock int64) (*Result, error)
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc func(procs []Process, clock int64) (*Result, error)

func (f PolicyFunc) Schedule(procs []Process, clock int64) (*Result, error) {
	return f(procs, clock)
}

// Factory builds a Policy from run parameters.
type Factory func(params Params) (Policy, error)

// Registry names of the built-in policies.
const (
	PolicyFCFS                  = "FCFS"
	PolicySJFNonPreemptive      = "SJF-NP"
	PolicySJFPreemptive         = "SJF-P"
	PolicyRoundRobin            = "RR"
	PolicyPriorityNonPreemptive = "PR-NP"
	PolicyPriorityPreemptive    = "PR-P"
	PolicyMLFQ                  = "MLFQ"
	PolicyIntelligent           = "Intelligent"
)

// Display labels returned in Result.Label.
const (
	LabelFCFS                  = "FCFS"
	LabelSJFNonPreemptive      = "SJF (Non-Preemptive)"
	LabelSJFPreemptive         = "SJF (Preemptive)"
	LabelRoundRobin            = "Round Robin"
	LabelPriorityNonPreemptive = "Priority (Non-Preemptive)"
	LabelPriorityPreemptive    = "Priority (Preemptive)"
	LabelMLFQ                  = "MLFQ"
	LabelIntelligent           = "Intelligent"
	multiCoreSuffix            = " (Multi-Core)"
)

// builtinPolicyNames lists the built-ins in comparison order.
var builtinPolicyNames = []string{
	PolicyFCFS, PolicySJFNonPreemptive, PolicySJFPreemptive, PolicyRoundRobin,
	PolicyPriorityNonPreemptive, PolicyPriorityPreemptive, PolicyMLFQ, PolicyIntelligent,
}

var builtinFactories = map[string]Factory{
	PolicyFCFS: func(Params) (Policy, error) { return &FCFS{}, nil },
	PolicySJFNonPreemptive: func(Params) (Policy, error) {
		return &SJF{Preemptive: false}, nil
	},
	PolicySJFPreemptive: func(Params) (Policy, error) {
		return &SJF{Preemptive: true}, nil
	},
	PolicyRoundRobin: func(p Params) (Policy, error) { return NewRoundRobin(p.Quantum) },
	PolicyPriorityNonPreemptive: func(Params) (Policy, error) {
		return &PriorityScheduling{Preemptive: false}, nil
	},
	PolicyPriorityPreemptive: func(Params) (Policy, error) {
		return &PriorityScheduling{Preemptive: true}, nil
	},
	PolicyMLFQ: func(p Params) (Policy, error) {
		quanta := p.Quanta
		if len(quanta) == 0 {
			if p.Quantum <= 0 {
				return nil, fmt.Errorf("%w: mlfq needs quanta or a quantum > 0, got %d", ErrInvalidParams, p.Quantum)
			}
			quanta = DefaultQuanta(p.Quantum)
		}
		return NewMLFQ(quanta)
	},
	PolicyIntelligent: func(p Params) (Policy, error) { return NewIntelligent(p.Quantum) },
}

var (
	pluginMu sync.RWMutex
	plugins  = map[string]Factory{}
)

// RegisterPolicy adds a plugin policy under name. Plugins are ordinary Go functions
// honoring the Policy contract; nothing is evaluated at runtime.
// Built-in and already registered names are rejected.
func RegisterPolicy(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("register policy: name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("register policy %q: factory must not be nil", name)
	}
	if _, ok := builtinFactories[name]; ok {
		return fmt.Errorf("register policy %q: name is built in", name)
	}
	pluginMu.Lock()
	defer pluginMu.Unlock()
	if _, ok := plugins[name]; ok {
		return fmt.Errorf("register policy %q: already registered", name)
	}
	plugins[name] = factory
	return nil
}

// UnregisterPolicy removes a plugin. Unknown names are ignored.
func UnregisterPolicy(name string) {
	pluginMu.Lock()
	defer pluginMu.Unlock()
	delete(plugins, name)
}

// IsValidPolicy returns true if name is a built-in or registered policy.
func IsValidPolicy(name string) bool {
	_, err := lookupFactory(name)
	return err == nil
}

// PolicyNames returns the built-ins in comparison order followed by plugins sorted by name.
func PolicyNames() []string {
	names := append([]string(nil), builtinPolicyNames...)
	return append(names, PluginNames()...)
}

// BuiltinPolicyNames returns the eight built-in policy names in comparison order.
func BuiltinPolicyNames() []string {
	return append([]string(nil), builtinPolicyNames...)
}

// PluginNames returns the registered plugin names, sorted.
func PluginNames() []string {
	pluginMu.RLock()
	defer pluginMu.RUnlock()
	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPolicy creates the named single-core Policy.
// Unknown names return an error wrapping ErrUnknownPolicy; they are never defaulted.
func NewPolicy(name string, params Params) (Policy, error) {
	factory, err := lookupFactory(name)
	if err != nil {
		return nil, err
	}
	policy, err := factory(params)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", name, err)
	}
	return policy, nil
}

func lookupFactory(name string) (Factory, error) {
	if f, ok := builtinFactories[name]; ok {
		return f, nil
	}
	pluginMu.RLock()
	defer pluginMu.RUnlock()
	if f, ok := plugins[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownPolicy, name)
}
