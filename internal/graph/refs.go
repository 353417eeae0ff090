package graph

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocale orders reference titles when no locale is configured.
const DefaultLocale = "ru"

// References maps an entity id to the sorted titles of every entity reachable
// from it through outgoing links.
type References map[int][]string

// Refs is a per-version cache of References. It recomputes only when the
// store's version moved since the last call.
type Refs struct {
	collator *collate.Collator
	version  uint64
	valid    bool
	refs     References
}

// NewRefs builds a cache that sorts titles for the given BCP 47 locale.
// Unknown tags fall back to DefaultLocale.
func NewRefs(locale string) *Refs {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return &Refs{collator: collate.New(tag)}
}

// Update recomputes the cache if the store changed and returns it.
func (r *Refs) Update(s *Store) References {
	if r.valid && r.version == s.Version() {
		return r.refs
	}
	r.refs = Reachability(s, r.collator)
	r.version = s.Version()
	r.valid = true
	return r.refs
}

// Current returns the last computed references.
func (r *Refs) Current() References {
	return r.refs
}

// Of returns the reference titles of one entity.
func (r References) Of(id int) []string {
	return r[id]
}

// Adjacency maps each entity id to the set of ids it links to directly.
func Adjacency(s *Store) map[int]map[int]struct{} {
	adj := make(map[int]map[int]struct{})
	for _, l := range s.links {
		next, ok := adj[l.From]
		if !ok {
			next = make(map[int]struct{})
			adj[l.From] = next
		}
		next[l.To] = struct{}{}
	}
	return adj
}

// Reachable returns every id reachable from start by one or more hops,
// excluding start itself. Cycles are visited once.
func Reachable(adj map[int]map[int]struct{}, start int) map[int]struct{} {
	visited := map[int]struct{}{start: {}}
	stack := []int{start}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for u := range adj[v] {
			if _, seen := visited[u]; seen {
				continue
			}
			visited[u] = struct{}{}
			stack = append(stack, u)
		}
	}
	delete(visited, start)
	return visited
}

// Reachability computes References for every entity. Entities with empty
// titles are left out of the listing. A nil collator sorts bytewise.
func Reachability(s *Store, c *collate.Collator) References {
	adj := Adjacency(s)
	titles := make(map[int]string, len(s.nodes))
	for _, n := range s.nodes {
		titles[n.ID] = n.Title
	}

	refs := make(References, len(s.nodes))
	for _, n := range s.nodes {
		list := []string{}
		for id := range Reachable(adj, n.ID) {
			if t := titles[id]; t != "" {
				list = append(list, t)
			}
		}
		if c != nil {
			c.SortStrings(list)
		} else {
			sort.Strings(list)
		}
		refs[n.ID] = list
	}
	return refs
}
