package employee

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeTx struct{}

func (fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memEmployeeRepo struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
	created   []employee.Employee
	locks     int
}

func (m *memEmployeeRepo) LockHierarchy(ctx context.Context) error {
	m.locks++
	return nil
}

func (m *memEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *memEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	e.ID = "0195a2f0-0000-7000-8000-0000000000ff"
	m.created = append(m.created, e)
	return e, nil
}

func (m *memEmployeeRepo) SetSupervisor(ctx context.Context, id string, supervisorID *string) error {
	e := m.employees[id]
	e.SupervisorID = supervisorID
	m.employees[id] = e
	return nil
}

func (m *memEmployeeRepo) SupervisorChain(ctx context.Context, id string) ([]string, error) {
	var chain []string
	for cur := m.employees[id].SupervisorID; cur != nil; cur = m.employees[*cur].SupervisorID {
		chain = append(chain, *cur)
	}
	return chain, nil
}

type memDepartmentRepo struct {
	employee.DepartmentRepository
	byTitle map[string]employee.Department
}

func (m *memDepartmentRepo) GetByTitle(ctx context.Context, title string) (employee.Department, error) {
	d, ok := m.byTitle[title]
	if !ok {
		return employee.Department{}, employee.ErrDepartmentNotFound
	}
	return d, nil
}

const (
	adminID = "0195a2f0-0000-7000-8000-000000000001"
	ceoID   = "0195a2f0-0000-7000-8000-000000000002"
	leadID  = "0195a2f0-0000-7000-8000-000000000003"
	agentID = "0195a2f0-0000-7000-8000-000000000004"
	peerID  = "0195a2f0-0000-7000-8000-000000000005"
	ghostID = "0195a2f0-0000-7000-8000-000000000009"
)

func ptr(s string) *string { return &s }

// ceo <- lead <- agent, ceo <- peer
func newService() (employee.EmployeeService, *memEmployeeRepo) {
	repo := &memEmployeeRepo{employees: map[string]employee.Employee{
		adminID: {ID: adminID, Role: access.RoleAdmin},
		ceoID:   {ID: ceoID, Role: access.RoleSupervisor},
		leadID:  {ID: leadID, Role: access.RoleSupervisor, SupervisorID: ptr(ceoID)},
		agentID: {ID: agentID, Role: access.RoleEmployee, SupervisorID: ptr(leadID)},
		peerID:  {ID: peerID, Role: access.RoleEmployee, SupervisorID: ptr(ceoID)},
	}}
	depts := &memDepartmentRepo{byTitle: map[string]employee.Department{
		employee.DefaultDepartment: {ID: "dept-tech", Title: employee.DefaultDepartment},
	}}
	return NewEmployeeService(fakeTx{}, repo, depts), repo
}

func asAdmin() context.Context {
	return access.WithActor(context.Background(), access.Actor{EmployeeID: adminID, Role: access.RoleAdmin})
}

func TestAssignSupervisor_RejectsCycle(t *testing.T) {
	svc, repo := newService()

	_, err := svc.AssignSupervisor(asAdmin(), ceoID, employee.AssignSupervisorRequest{SupervisorID: ptr(leadID)})
	assert.ErrorIs(t, err, employee.ErrSupervisorCycle)
	assert.Nil(t, repo.employees[ceoID].SupervisorID)
	assert.Equal(t, 1, repo.locks)
}

func TestAssignSupervisor_RequiresSupervisorRole(t *testing.T) {
	svc, repo := newService()

	_, err := svc.AssignSupervisor(asAdmin(), agentID, employee.AssignSupervisorRequest{SupervisorID: ptr(peerID)})
	assert.ErrorIs(t, err, employee.ErrSupervisorRole)
	assert.Equal(t, leadID, *repo.employees[agentID].SupervisorID)

	// admins may take reports directly
	resp, err := svc.AssignSupervisor(asAdmin(), agentID, employee.AssignSupervisorRequest{SupervisorID: ptr(adminID)})
	require.NoError(t, err)
	assert.Equal(t, adminID, *resp.SupervisorID)
}

func TestAssignSupervisor_RejectsSelf(t *testing.T) {
	svc, _ := newService()

	_, err := svc.AssignSupervisor(asAdmin(), leadID, employee.AssignSupervisorRequest{SupervisorID: ptr(leadID)})
	assert.ErrorIs(t, err, employee.ErrSelfSupervision)
}

func TestAssignSupervisor_UnknownSupervisor(t *testing.T) {
	svc, _ := newService()

	_, err := svc.AssignSupervisor(asAdmin(), agentID, employee.AssignSupervisorRequest{SupervisorID: ptr(ghostID)})
	assert.ErrorIs(t, err, employee.ErrSupervisorNotFound)
}

func TestAssignSupervisor_MovesAndClears(t *testing.T) {
	svc, repo := newService()

	resp, err := svc.AssignSupervisor(asAdmin(), agentID, employee.AssignSupervisorRequest{SupervisorID: ptr(ceoID)})
	require.NoError(t, err)
	require.NotNil(t, resp.SupervisorID)
	assert.Equal(t, ceoID, *resp.SupervisorID)

	_, err = svc.AssignSupervisor(asAdmin(), agentID, employee.AssignSupervisorRequest{})
	require.NoError(t, err)
	assert.Nil(t, repo.employees[agentID].SupervisorID)
	assert.Equal(t, 1, repo.locks, "clearing a supervisor cannot close a loop")
}

func TestAssignSupervisor_AdminOnly(t *testing.T) {
	svc, _ := newService()
	ctx := access.WithActor(context.Background(), access.Actor{EmployeeID: leadID, Role: access.RoleSupervisor})

	_, err := svc.AssignSupervisor(ctx, agentID, employee.AssignSupervisorRequest{SupervisorID: ptr(ceoID)})
	assert.ErrorIs(t, err, access.ErrPermissionDenied)
}

func TestCreate_HashesPasswordAndDefaultsDepartment(t *testing.T) {
	svc, repo := newService()

	resp, err := svc.Create(asAdmin(), employee.CreateEmployeeRequest{
		Email:    "  New.Agent@Example.com ",
		FullName: "New Agent",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, "new.agent@example.com", resp.Email)
	assert.Equal(t, string(access.RoleEmployee), resp.Role)
	require.NotNil(t, resp.DepartmentID)
	assert.Equal(t, "dept-tech", *resp.DepartmentID)

	require.Len(t, repo.created, 1)
	require.NotNil(t, repo.created[0].PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*repo.created[0].PasswordHash), []byte("s3cret-pass")))
}

func TestDelete_Self(t *testing.T) {
	svc, _ := newService()

	err := svc.Delete(asAdmin(), adminID)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestGet_AgentCannotSeeOthers(t *testing.T) {
	svc, _ := newService()
	ctx := access.WithActor(context.Background(), access.Actor{EmployeeID: agentID, Role: access.RoleEmployee})

	_, err := svc.Get(ctx, ceoID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	resp, err := svc.Get(ctx, agentID)
	require.NoError(t, err)
	assert.Equal(t, agentID, resp.ID)
}
