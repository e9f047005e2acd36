package postgresql

import (
	"fmt"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
)

// scopeClause renders the visibility scope as a WHERE fragment. ownerCol is
// the record's employee column and supervisorCol that employee's supervisor.
// The returned index is the next free placeholder.
func scopeClause(scope access.Scope, ownerCol, supervisorCol string, argIdx int) (string, []interface{}, int) {
	switch scope.Kind {
	case access.ScopeAll:
		return "TRUE", nil, argIdx
	case access.ScopeTeam:
		return fmt.Sprintf("(%s = $%d OR %s = $%d)", ownerCol, argIdx, supervisorCol, argIdx),
			[]interface{}{scope.EmployeeID}, argIdx + 1
	default:
		return fmt.Sprintf("%s = $%d", ownerCol, argIdx), []interface{}{scope.EmployeeID}, argIdx + 1
	}
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
