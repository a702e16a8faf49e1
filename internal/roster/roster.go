package roster

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gosimple/slug"

	"github.com/goserg/guildrating/internal/normalize"
)

var ErrUnknownGroup = errors.New("unknown group")

// Config maps a group name to the ids of its members.
type Config map[string][]string

// Resolver looks groups up by the slug of their name, so "Night Owls",
// "night-owls" and "NIGHT OWLS" are the same group.
type Resolver struct {
	groups map[string]group
}

type group struct {
	name    string
	members []string
}

func New(cfg Config) (*Resolver, error) {
	r := &Resolver{groups: make(map[string]group, len(cfg))}
	for name, members := range cfg {
		key := slug.Make(name)
		if key == "" {
			return nil, fmt.Errorf("roster %q: empty group key", name)
		}
		if other, ok := r.groups[key]; ok {
			return nil, fmt.Errorf("rosters %q and %q resolve to the same key %q", other.name, name, key)
		}
		r.groups[key] = group{
			name:    name,
			members: normalize.Names(members),
		}
	}
	return r, nil
}

// Resolve returns the display name and members of the group called name.
func (r *Resolver) Resolve(name string) (string, []string, error) {
	g, ok := r.groups[slug.Make(name)]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownGroup, name)
	}
	members := make([]string, len(g.members))
	copy(members, g.members)
	return g.name, members, nil
}

// Expand resolves a team given either as a known group name or as an explicit
// player list. Explicit players win over the group.
func (r *Resolver) Expand(team string, players []string) (string, []string, error) {
	if players = normalize.Names(players); len(players) > 0 {
		return team, players, nil
	}
	return r.Resolve(team)
}

// Groups returns the display names of all groups in alphabetical order.
func (r *Resolver) Groups() []string {
	names := make([]string, 0, len(r.groups))
	for _, g := range r.groups {
		names = append(names, g.name)
	}
	sort.Strings(names)
	return names
}
