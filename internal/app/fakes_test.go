package app

import (
	"context"

	"github.com/taskhive/api/pkg/domain/project"
	"github.com/taskhive/api/pkg/domain/shared"
	"github.com/taskhive/api/pkg/domain/task"
	"github.com/taskhive/api/pkg/domain/tenant"
)

// fakeTenantRepo is an in-memory tenant.Repository for service tests.
type fakeTenantRepo struct {
	tenants     map[shared.ID]*tenant.Tenant
	memberships map[shared.ID]*tenant.Membership
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{
		tenants:     make(map[shared.ID]*tenant.Tenant),
		memberships: make(map[shared.ID]*tenant.Membership),
	}
}

func (f *fakeTenantRepo) Create(_ context.Context, t *tenant.Tenant) error {
	f.tenants[t.ID()] = t
	return nil
}

func (f *fakeTenantRepo) GetByID(_ context.Context, id shared.ID) (*tenant.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (f *fakeTenantRepo) GetBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	for _, t := range f.tenants {
		if t.Slug() == slug {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeTenantRepo) Delete(_ context.Context, id shared.ID) error {
	if _, ok := f.tenants[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.tenants, id)
	return nil
}

func (f *fakeTenantRepo) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	for _, t := range f.tenants {
		if t.Slug() == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTenantRepo) CreateMembership(_ context.Context, m *tenant.Membership) error {
	f.memberships[m.ID()] = m
	return nil
}

func (f *fakeTenantRepo) GetMembership(_ context.Context, userID, tenantID shared.ID) (*tenant.Membership, error) {
	for _, m := range f.memberships {
		if m.UserID().Equals(userID) && m.TenantID().Equals(tenantID) {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeTenantRepo) GetMembershipByID(_ context.Context, id shared.ID) (*tenant.Membership, error) {
	m, ok := f.memberships[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return m, nil
}

func (f *fakeTenantRepo) UpdateMembership(_ context.Context, m *tenant.Membership) error {
	if _, ok := f.memberships[m.ID()]; !ok {
		return shared.ErrNotFound
	}
	f.memberships[m.ID()] = m
	return nil
}

func (f *fakeTenantRepo) DeleteMembership(_ context.Context, id shared.ID) error {
	if _, ok := f.memberships[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.memberships, id)
	return nil
}

func (f *fakeTenantRepo) ListMembersByTenant(_ context.Context, tenantID shared.ID) ([]*tenant.Membership, error) {
	var out []*tenant.Membership
	for _, m := range f.memberships {
		if m.TenantID().Equals(tenantID) {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeProjectRepo is an in-memory project.Repository for service tests.
type fakeProjectRepo struct {
	projects    map[shared.ID]*project.Project
	order       []shared.ID
	memberships map[shared.ID][]*project.Membership
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects:    make(map[shared.ID]*project.Project),
		memberships: make(map[shared.ID][]*project.Membership),
	}
}

func (f *fakeProjectRepo) Create(_ context.Context, p *project.Project) error {
	f.projects[p.ID()] = p
	f.order = append(f.order, p.ID())
	return nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id shared.ID) (*project.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakeProjectRepo) GetWithMembers(ctx context.Context, id shared.ID) (*project.WithMembers, error) {
	p, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &project.WithMembers{Project: p, Members: f.memberships[id]}, nil
}

func (f *fakeProjectRepo) ListByTenant(_ context.Context, tenantID shared.ID) ([]*project.Project, error) {
	var out []*project.Project
	for _, id := range f.order {
		if f.projects[id].TenantID().Equals(tenantID) {
			out = append(out, f.projects[id])
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) Delete(_ context.Context, id shared.ID) error {
	if _, ok := f.projects[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectRepo) UpsertMembership(_ context.Context, m *project.Membership) error {
	members := f.memberships[m.ProjectID()]
	for i, existing := range members {
		if existing.UserID().Equals(m.UserID()) {
			members[i] = m
			return nil
		}
	}
	f.memberships[m.ProjectID()] = append(members, m)
	return nil
}

func (f *fakeProjectRepo) ListMemberships(_ context.Context, projectID shared.ID) ([]*project.Membership, error) {
	return f.memberships[projectID], nil
}

func (f *fakeProjectRepo) SetManager(_ context.Context, projectID shared.ID, subordinateIDs []shared.ID, managerID *shared.ID) (int64, error) {
	targets := make(map[shared.ID]struct{}, len(subordinateIDs))
	for _, id := range subordinateIDs {
		targets[id] = struct{}{}
	}

	var count int64
	for _, m := range f.memberships[projectID] {
		if _, ok := targets[m.UserID()]; ok {
			m.SetManager(managerID)
			count++
		}
	}
	return count, nil
}

// fakeTaskRepo is an in-memory task.Repository for service tests.
type fakeTaskRepo struct {
	tasks []task.Summary
}

func (f *fakeTaskRepo) List(_ context.Context, filter task.Filter) ([]task.Summary, error) {
	var out []task.Summary
	for _, t := range f.tasks {
		if !t.ProjectID.Equals(filter.ProjectID) {
			continue
		}
		if filter.TopLevelOnly && t.ParentID != nil {
			continue
		}
		if filter.AssigneeID != nil {
			if t.AssigneeID == nil || !t.AssigneeID.Equals(*filter.AssigneeID) {
				continue
			}
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
