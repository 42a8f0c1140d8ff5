package domain

import "sort"

// DefaultBrokerName is the simulator's own broker. It serves customers
// nobody else signed up and is excluded from every per-broker report.
const DefaultBrokerName = "default broker"

// Broker is a retail participant.
type Broker struct {
	Name string
}

// BrokerRegistry holds the retail brokers discovered at simulation start.
// Iteration order is lexicographic by name, so per-broker output columns
// are stable across runs.
type BrokerRegistry struct {
	brokers []Broker
	index   map[string]int
}

// NewBrokerRegistry builds a registry from the participant names seen in
// the log header. The default broker and duplicates are dropped.
func NewBrokerRegistry(names []string) *BrokerRegistry {
	seen := make(map[string]bool, len(names))
	retail := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || name == DefaultBrokerName || seen[name] {
			continue
		}
		seen[name] = true
		retail = append(retail, name)
	}
	sort.Strings(retail)

	r := &BrokerRegistry{
		brokers: make([]Broker, len(retail)),
		index:   make(map[string]int, len(retail)),
	}
	for i, name := range retail {
		r.brokers[i] = Broker{Name: name}
		r.index[name] = i
	}
	return r
}

// Lookup returns the stable index of a broker, or false for wholesale
// participants and the default broker.
func (r *BrokerRegistry) Lookup(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// Brokers returns the registry in iteration order.
func (r *BrokerRegistry) Brokers() []Broker {
	return r.brokers
}

// Names returns the broker names in iteration order.
func (r *BrokerRegistry) Names() []string {
	names := make([]string, len(r.brokers))
	for i, b := range r.brokers {
		names[i] = b.Name
	}
	return names
}

// Len returns the number of retail brokers.
func (r *BrokerRegistry) Len() int {
	return len(r.brokers)
}
