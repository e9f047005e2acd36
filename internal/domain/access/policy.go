package access

// Actor is the authenticated employee a request runs as.
type Actor struct {
	EmployeeID string
	Email      string
	Role       Role
	IsStaff    bool
}

type ScopeKind int

const (
	ScopeOwn ScopeKind = iota
	ScopeTeam
	ScopeAll
)

// Scope is the set of records an actor may read, in a form repositories can
// turn into a WHERE clause.
type Scope struct {
	Kind       ScopeKind
	EmployeeID string
}

// Owned is implemented by every record that belongs to one employee.
type Owned interface {
	OwnerID() string
	OwnerSupervisorID() *string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.IsStaff
}

func (a Actor) IsSupervisor() bool {
	return a.Role == RoleSupervisor
}

func (a Actor) Scope() Scope {
	switch {
	case a.IsAdmin():
		return Scope{Kind: ScopeAll, EmployeeID: a.EmployeeID}
	case a.IsSupervisor():
		return Scope{Kind: ScopeTeam, EmployeeID: a.EmployeeID}
	default:
		return Scope{Kind: ScopeOwn, EmployeeID: a.EmployeeID}
	}
}

// Allows reports whether a record owned by ownerID, whose supervisor is
// supervisorID, falls inside the scope.
func (s Scope) Allows(ownerID string, supervisorID *string) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeTeam:
		return ownerID == s.EmployeeID || (supervisorID != nil && *supervisorID == s.EmployeeID)
	default:
		return ownerID == s.EmployeeID
	}
}

func (a Actor) CanView(r Owned) bool {
	return a.Scope().Allows(r.OwnerID(), r.OwnerSupervisorID())
}

// CanEdit allows the record's own employee and admins.
func (a Actor) CanEdit(r Owned) bool {
	return a.IsAdmin() || r.OwnerID() == a.EmployeeID
}

// CanManage allows the direct supervisor of the record's employee and admins.
// Approval, cancellation and deletion use this check.
func (a Actor) CanManage(r Owned) bool {
	if a.IsAdmin() {
		return true
	}
	sup := r.OwnerSupervisorID()
	return sup != nil && *sup == a.EmployeeID
}

// IsDirectSupervisorOf reports whether the actor supervises an employee whose
// supervisor is supervisorID.
func (a Actor) IsDirectSupervisorOf(supervisorID *string) bool {
	return supervisorID != nil && *supervisorID == a.EmployeeID
}

// Visible filters records down to those the actor may read.
func Visible[T Owned](a Actor, records []T) []T {
	scope := a.Scope()
	if scope.Kind == ScopeAll {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if scope.Allows(r.OwnerID(), r.OwnerSupervisorID()) {
			out = append(out, r)
		}
	}
	return out
}
