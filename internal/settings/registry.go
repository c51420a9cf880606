package settings

import (
	"fmt"
	"slices"

	"github.com/adminconsole/admin-console/internal/db/models"
)

// Group bundles domains edited and saved together.
type Group struct {
	Name     string
	Domains  []string
	Strategy Strategy // default save strategy

	Action      models.ActionType // recorded after a successful save
	Title       string
	Description string
}

// Registry holds the schemas and groups known to the console.
type Registry struct {
	schemas map[string]*Schema
	groups  map[string]Group
	byDom   map[string]string // domain to group name
}

// NewRegistry creates a registry. Every group domain must have a schema.
func NewRegistry(schemas []*Schema, groups []Group) (*Registry, error) {
	r := &Registry{
		schemas: make(map[string]*Schema, len(schemas)),
		groups:  make(map[string]Group, len(groups)),
		byDom:   make(map[string]string),
	}

	for _, s := range schemas {
		r.schemas[s.Domain] = s
	}

	for _, g := range groups {
		for _, d := range g.Domains {
			if _, ok := r.schemas[d]; !ok {
				return nil, fmt.Errorf("group %s: %w: %s", g.Name, ErrUnknownDomain, d)
			}

			r.byDom[d] = g.Name
		}

		r.groups[g.Name] = g
	}

	return r, nil
}

// Lookup returns the schema of a domain.
func (r *Registry) Lookup(domain string) (*Schema, error) {
	s, ok := r.schemas[domain]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
	}

	return s, nil
}

// LookupGroup returns a group by name.
func (r *Registry) LookupGroup(name string) (Group, error) {
	g, ok := r.groups[name]
	if !ok {
		return Group{}, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}

	return g, nil
}

// GroupOf returns the group a domain belongs to.
func (r *Registry) GroupOf(domain string) (Group, bool) {
	name, ok := r.byDom[domain]
	if !ok {
		return Group{}, false
	}

	return r.groups[name], true
}

// Domains returns all domain names sorted.
func (r *Registry) Domains() []string {
	out := make([]string, 0, len(r.schemas))
	for d := range r.schemas {
		out = append(out, d)
	}

	slices.Sort(out)

	return out
}

// Groups returns all group names sorted.
func (r *Registry) Groups() []string {
	out := make([]string, 0, len(r.groups))
	for g := range r.groups {
		out = append(out, g)
	}

	slices.Sort(out)

	return out
}

// Defaults returns the default state of the given domains.
func (r *Registry) Defaults(domains ...string) (State, error) {
	out := make(State, len(domains))

	for _, d := range domains {
		s, err := r.Lookup(d)
		if err != nil {
			return nil, err
		}

		out[d] = s.Defaults()
	}

	return out, nil
}

// Validate checks a state against the schemas of its domains.
func (r *Registry) Validate(state State) error {
	return r.ValidateChanged(state, nil)
}

// ValidateChanged checks only the keys of state that differ from snapshot.
func (r *Registry) ValidateChanged(state, snapshot State) error {
	for _, d := range state.Domains() {
		s, err := r.Lookup(d)
		if err != nil {
			return err
		}

		if err = s.ValidateChanged(state[d], snapshot[d]); err != nil {
			return err
		}
	}

	return nil
}

// SetStrategy changes the default save strategy of a group.
func (r *Registry) SetStrategy(group string, strategy Strategy) error {
	g, err := r.LookupGroup(group)
	if err != nil {
		return err
	}

	g.Strategy = strategy
	r.groups[group] = g

	return nil
}
