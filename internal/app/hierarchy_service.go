package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taskhive/api/internal/metrics"
	"github.com/taskhive/api/pkg/domain/hierarchy"
	"github.com/taskhive/api/pkg/domain/project"
	"github.com/taskhive/api/pkg/domain/shared"
	"github.com/taskhive/api/pkg/domain/task"
	"github.com/taskhive/api/pkg/domain/tenant"
	"github.com/taskhive/api/pkg/logger"
)

// HierarchyService builds the two management tree views and manages
// reporting relations. All of its operations are request-scoped reads over
// storage snapshots; the only state it holds is its collaborators.
type HierarchyService struct {
	tenants  tenant.Repository
	projects project.Repository
	tasks    task.Repository
	resolver *hierarchy.Resolver
	authz    *AuthzService
	logger   *logger.Logger
}

// NewHierarchyService creates a new HierarchyService.
func NewHierarchyService(
	tenants tenant.Repository,
	projects project.Repository,
	tasks task.Repository,
	authz *AuthzService,
	log *logger.Logger,
) *HierarchyService {
	return &HierarchyService{
		tenants:  tenants,
		projects: projects,
		tasks:    tasks,
		resolver: hierarchy.NewResolver(),
		authz:    authz,
		logger:   log.With("service", "hierarchy"),
	}
}

// MemberTree is the per-project team view. Team is a synthetic root
// wrapping the leader (first, when present) and the remaining members.
type MemberTree struct {
	ProjectID   shared.ID             `json:"project_id"`
	ProjectName string                `json:"project_name"`
	Team        *hierarchy.MemberNode `json:"team"`
	Stats       task.Stats            `json:"stats"`
}

// ProjectTree is the tenant-wide management view, ordered by ascending
// progress so lagging projects surface first.
type ProjectTree struct {
	TenantID shared.ID                `json:"tenant_id"`
	Projects []*hierarchy.ProjectNode `json:"projects"`
}

// GetMemberTree builds the member tree of one project for a viewer.
//
// Redaction depends on the viewer's resolved tenant role:
//   - observers get identity fields only: every node's tasks and stats are
//     zeroed, as are the overall stats
//   - members and managers (who are not the project leader) get only
//     themselves plus their own subordinate closure; other branches are
//     omitted entirely
//   - directors, the owner, and the project's leader get the full tree
func (s *HierarchyService) GetMemberTree(ctx context.Context, viewerID, projectID shared.ID) (*MemberTree, error) {
	start := time.Now()

	pm, err := s.projects.GetWithMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}

	viewer, err := s.authz.RequireMinRank(ctx, pm.Project.TenantID(), viewerID, tenant.RoleObserver)
	if err != nil {
		metrics.TreeBuilds.WithLabelValues("member", "denied").Inc()
		return nil, err
	}

	tree, err := s.buildMemberTree(ctx, viewer, pm)
	if err != nil {
		if errors.Is(err, shared.ErrCircularReporting) {
			metrics.ReportingCyclesDetected.Inc()
		}
		metrics.TreeBuilds.WithLabelValues("member", "error").Inc()
		return nil, err
	}

	metrics.TreeBuilds.WithLabelValues("member", "ok").Inc()
	metrics.TreeBuildDuration.WithLabelValues("member").Observe(time.Since(start).Seconds())
	return tree, nil
}

func (s *HierarchyService) buildMemberTree(ctx context.Context, viewer *tenant.Membership, pm *project.WithMembers) (*MemberTree, error) {
	p := pm.Project
	members := pm.Members

	// A project with no explicit members falls back to the tenant's full
	// roster so the view is never empty.
	if len(members) == 0 {
		tenantMembers, err := s.tenants.ListMembersByTenant(ctx, p.TenantID())
		if err != nil {
			return nil, fmt.Errorf("failed to load tenant roster: %w", err)
		}
		for _, tm := range tenantMembers {
			m, err := project.NewMembership(p.ID(), tm.UserID(), false)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
	}

	role := viewer.Role()
	isLeader := s.authz.CanActOnProject(viewer, p, pm.Members, tenant.RoleDirector)

	tree := &MemberTree{
		ProjectID:   p.ID(),
		ProjectName: p.Name(),
		Team:        &hierarchy.MemberNode{Name: p.Name()},
	}

	switch {
	case role == tenant.RoleObserver:
		// Identity only. No task fetches happen at all; zeroed stats are
		// not merely hidden counts.
		tree.Team.Subordinates = identityNodes(p, members)
		return tree, nil

	case isLeader:
		// Full tree: leader first, then the remaining members, deduped.
		nodes := identityNodes(p, members)
		if err := s.attachTasks(ctx, p.ID(), nodes); err != nil {
			return nil, err
		}
		tree.Team.Subordinates = nodes

	default:
		// Member-equivalent viewer: own subtree only, built through the
		// path-guarded recursion so cyclic org data fails the read.
		node, err := s.resolver.Subtree(members, viewer.UserID())
		if err != nil {
			return nil, err
		}
		var flat []*hierarchy.MemberNode
		node.Walk(func(n *hierarchy.MemberNode) { flat = append(flat, n) })
		if err := s.attachTasks(ctx, p.ID(), flat); err != nil {
			return nil, err
		}
		tree.Team.Subordinates = []*hierarchy.MemberNode{node}
	}

	overall, err := s.tasks.List(ctx, task.Filter{ProjectID: p.ID(), TopLevelOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load project tasks: %w", err)
	}
	tree.Stats = task.Aggregate(overall)
	return tree, nil
}

// identityNodes builds the flat, deduplicated member node list: the
// leader first when the project has one, then every other member once.
func identityNodes(p *project.Project, members []*project.Membership) []*hierarchy.MemberNode {
	var nodes []*hierarchy.MemberNode
	seen := make(map[shared.ID]struct{}, len(members))

	appendMember := func(m *project.Membership) {
		if _, ok := seen[m.UserID()]; ok {
			return
		}
		seen[m.UserID()] = struct{}{}
		nodes = append(nodes, &hierarchy.MemberNode{
			UserID:   m.UserID(),
			Name:     m.UserName(),
			IsLeader: m.IsLeader() || p.IsLedBy(m.UserID()),
		})
	}

	for _, m := range members {
		if m.IsLeader() || p.IsLedBy(m.UserID()) {
			appendMember(m)
		}
	}
	for _, m := range members {
		appendMember(m)
	}
	return nodes
}

// attachTasks fetches each node's top-level assigned tasks and stats.
// Nodes are independent, so the fetches fan out concurrently; traversal
// along one root-to-leaf path stays sequential by construction.
func (s *HierarchyService) attachTasks(ctx context.Context, projectID shared.ID, nodes []*hierarchy.MemberNode) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, node := range nodes {
		node := node
		g.Go(func() error {
			assignee := node.UserID
			list, err := s.tasks.List(gctx, task.Filter{
				ProjectID:    projectID,
				AssigneeID:   &assignee,
				TopLevelOnly: true,
			})
			if err != nil {
				return fmt.Errorf("failed to load tasks for %s: %w", assignee, err)
			}
			node.Tasks = list
			node.Stats = task.Aggregate(list)
			return nil
		})
	}
	return g.Wait()
}

// GetProjectTree builds the tenant-wide project view. This is a
// management surface: the viewer needs at least a director-equivalent
// tenant role, with no project-leadership alternative.
func (s *HierarchyService) GetProjectTree(ctx context.Context, viewerID, tenantID shared.ID) (*ProjectTree, error) {
	start := time.Now()

	if _, err := s.tenants.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}
	if _, err := s.authz.RequireMinRank(ctx, tenantID, viewerID, tenant.RoleDirector); err != nil {
		metrics.TreeBuilds.WithLabelValues("project", "denied").Inc()
		return nil, err
	}

	projects, err := s.projects.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	nodes := make([]*hierarchy.ProjectNode, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range projects {
		i, p := i, p
		g.Go(func() error {
			node, err := s.buildProjectNode(gctx, p)
			if err != nil {
				return err
			}
			nodes[i] = node
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.TreeBuilds.WithLabelValues("project", "error").Inc()
		return nil, err
	}

	// Lowest-progress projects first, to draw attention to lagging work.
	// Stable so equal-progress projects keep the storage order.
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Progress < nodes[j].Progress
	})

	metrics.TreeBuilds.WithLabelValues("project", "ok").Inc()
	metrics.TreeBuildDuration.WithLabelValues("project").Observe(time.Since(start).Seconds())
	return &ProjectTree{TenantID: tenantID, Projects: nodes}, nil
}

func (s *HierarchyService) buildProjectNode(ctx context.Context, p *project.Project) (*hierarchy.ProjectNode, error) {
	tasks, err := s.tasks.List(ctx, task.Filter{ProjectID: p.ID(), TopLevelOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for project %s: %w", p.ID(), err)
	}

	counts := make(map[shared.ID]int)
	for _, t := range tasks {
		if t.AssigneeID != nil {
			counts[*t.AssigneeID]++
		}
	}

	members, err := s.projects.ListMemberships(ctx, p.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load members for project %s: %w", p.ID(), err)
	}

	// Roster is keyed by user id: the leader appears exactly once, even
	// when also present in the generic member list.
	var roster []hierarchy.RosterEntry
	seen := make(map[shared.ID]struct{}, len(members))
	appendEntry := func(m *project.Membership, role hierarchy.RosterRole) {
		if _, ok := seen[m.UserID()]; ok {
			return
		}
		seen[m.UserID()] = struct{}{}
		roster = append(roster, hierarchy.RosterEntry{
			UserID:    m.UserID(),
			Name:      m.UserName(),
			Role:      role,
			TaskCount: counts[m.UserID()],
		})
	}
	for _, m := range members {
		if m.IsLeader() || p.IsLedBy(m.UserID()) {
			appendEntry(m, hierarchy.RosterRoleApprover)
		}
	}
	for _, m := range members {
		appendEntry(m, hierarchy.RosterRoleMember)
	}

	stats := task.Aggregate(tasks)
	return &hierarchy.ProjectNode{
		ProjectID: p.ID(),
		Name:      p.Name(),
		Stats:     stats,
		Progress:  stats.Progress(),
		Members:   roster,
	}, nil
}

// SetReportingRelationInput represents the input for a reporting update.
type SetReportingRelationInput struct {
	SubordinateIDs []string `json:"subordinate_ids" validate:"required,min=1,dive,uuid"`
	ManagerID      *string  `json:"manager_id" validate:"omitempty,uuid"`
}

// SetReportingRelation points every listed subordinate at the manager
// (nil clears their reference). Every subordinate and the manager must be
// existing project members; partial validity is rejected wholesale, the
// write is all-or-nothing.
func (s *HierarchyService) SetReportingRelation(ctx context.Context, actorID, projectID shared.ID, subordinateIDs []shared.ID, managerID *shared.ID) (int64, error) {
	pm, err := s.projects.GetWithMembers(ctx, projectID)
	if err != nil {
		return 0, err
	}

	actor, err := s.authz.RequireMinRank(ctx, pm.Project.TenantID(), actorID, tenant.RoleObserver)
	if err != nil {
		return 0, err
	}
	if !s.authz.CanActOnProject(actor, pm.Project, pm.Members, tenant.RoleManager) {
		return 0, fmt.Errorf("%w: managing reporting relations requires project leadership or a manager role", shared.ErrInsufficientPermission)
	}

	memberSet := make(map[shared.ID]struct{}, len(pm.Members))
	for _, m := range pm.Members {
		memberSet[m.UserID()] = struct{}{}
	}

	if managerID != nil {
		if _, ok := memberSet[*managerID]; !ok {
			return 0, fmt.Errorf("%w: manager %s is not a project member", shared.ErrInvalidRelation, managerID)
		}
	}
	for _, subID := range subordinateIDs {
		if _, ok := memberSet[subID]; !ok {
			return 0, fmt.Errorf("%w: subordinate %s is not a project member", shared.ErrInvalidRelation, subID)
		}
		if managerID != nil && subID.Equals(*managerID) {
			return 0, fmt.Errorf("%w: %s cannot report to themselves", shared.ErrInvalidRelation, subID)
		}
	}

	count, err := s.projects.SetManager(ctx, projectID, subordinateIDs, managerID)
	if err != nil {
		return 0, fmt.Errorf("failed to update reporting relations: %w", err)
	}

	s.logger.Info("reporting relations updated",
		"project_id", projectID.String(),
		"updated", count)
	return count, nil
}

// GetAllSubordinates returns the full downward closure of a manager in
// BFS level order. Members may query their own closure; anything wider
// needs a manager-equivalent tenant role or project leadership.
func (s *HierarchyService) GetAllSubordinates(ctx context.Context, actorID, projectID, managerID shared.ID) ([]shared.ID, error) {
	pm, err := s.projects.GetWithMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}

	actor, err := s.authz.RequireMinRank(ctx, pm.Project.TenantID(), actorID, tenant.RoleObserver)
	if err != nil {
		return nil, err
	}
	if !actorID.Equals(managerID) && !s.authz.CanActOnProject(actor, pm.Project, pm.Members, tenant.RoleManager) {
		return nil, fmt.Errorf("%w: querying another member's subordinates requires project leadership or a manager role", shared.ErrInsufficientPermission)
	}

	return s.resolver.Closure(pm.Members, managerID), nil
}
