package hierarchy

import (
	"fmt"

	"github.com/taskhive/api/pkg/domain/project"
	"github.com/taskhive/api/pkg/domain/shared"
)

// Resolver computes downward closures and subtrees over the reports-to
// graph of one project. It operates on a membership snapshot loaded in a
// single collaborator call; nothing here touches storage.
//
// The stored graph is not guaranteed acyclic by write-time validation, so
// every traversal carries its own guard: Closure deduplicates and
// terminates, Subtree fails loudly with shared.ErrCircularReporting.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// edges builds the manager -> subordinates adjacency from a membership
// snapshot. Subordinates keep the snapshot's order so traversal output is
// deterministic for a given read.
func edges(members []*project.Membership) map[shared.ID][]shared.ID {
	adj := make(map[shared.ID][]shared.ID)
	for _, m := range members {
		if m.ManagerID() != nil {
			adj[*m.ManagerID()] = append(adj[*m.ManagerID()], m.UserID())
		}
	}
	return adj
}

// Direct returns the user IDs reporting directly to managerID.
func (r *Resolver) Direct(members []*project.Membership, managerID shared.ID) []shared.ID {
	return edges(members)[managerID]
}

// Closure returns the full downward closure of managerID in BFS level
// order. Each principal appears at most once; a principal already seen is
// never re-enqueued, so the traversal terminates even when the stored
// graph contains a cycle. The manager itself is never part of its own
// closure.
func (r *Resolver) Closure(members []*project.Membership, managerID shared.ID) []shared.ID {
	adj := edges(members)

	seen := map[shared.ID]struct{}{managerID: {}}
	queue := []shared.ID{managerID}
	var result []shared.ID

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, sub := range adj[current] {
			if _, ok := seen[sub]; ok {
				continue
			}
			seen[sub] = struct{}{}
			result = append(result, sub)
			queue = append(queue, sub)
		}
	}
	return result
}

// Subtree builds the member node rooted at rootID, recursing through the
// reports-to edges. Stats and tasks are left zeroed for the caller to
// attach.
//
// Cycle detection is path-scoped, not traversal-scoped: the visited set is
// copied per branch, so a child's guard sees only its ancestors' visits,
// never its siblings'. Revisiting a principal already on the current path
// means the org data itself is inconsistent; the whole read fails with
// shared.ErrCircularReporting rather than returning a truncated tree.
func (r *Resolver) Subtree(members []*project.Membership, rootID shared.ID) (*MemberNode, error) {
	byUser := make(map[shared.ID]*project.Membership, len(members))
	for _, m := range members {
		byUser[m.UserID()] = m
	}
	return r.buildSubtree(byUser, edges(members), rootID, map[shared.ID]struct{}{})
}

func (r *Resolver) buildSubtree(
	byUser map[shared.ID]*project.Membership,
	adj map[shared.ID][]shared.ID,
	rootID shared.ID,
	path map[shared.ID]struct{},
) (*MemberNode, error) {
	if _, onPath := path[rootID]; onPath {
		return nil, fmt.Errorf("%w: user %s is on its own reporting path", shared.ErrCircularReporting, rootID)
	}

	node := &MemberNode{UserID: rootID}
	if m, ok := byUser[rootID]; ok {
		node.Name = m.UserName()
		node.IsLeader = m.IsLeader()
	}

	// Copy before descending so sibling branches never observe each
	// other's visits.
	branchPath := make(map[shared.ID]struct{}, len(path)+1)
	for id := range path {
		branchPath[id] = struct{}{}
	}
	branchPath[rootID] = struct{}{}

	for _, subID := range adj[rootID] {
		child, err := r.buildSubtree(byUser, adj, subID, branchPath)
		if err != nil {
			return nil, err
		}
		node.Subordinates = append(node.Subordinates, child)
	}
	return node, nil
}
