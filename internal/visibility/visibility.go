// Package visibility computes which leads or clients a user may see in list
// views. It is independent of the storage layer so the rules can be tested
// without a database.
package visibility

import (
	"sort"
	"time"

	"github.com/maple-advisory/crm-backend/internal/roster"
	"github.com/maple-advisory/crm-backend/internal/types"
)

// Record is the slice of a lead or client the resolver needs.
type Record interface {
	RecordID() string
	RecordOwnerID() string
	// AssignedNames returns the lead and co-lead assignment full names.
	AssignedNames() (lead string, coLead string)
	// Terminal reports whether the record is past its closed state
	// (rejected lead, closed or dropped client).
	Terminal() bool
	LastUpdated() time.Time
}

// Resolve returns the records visible to the given user, most recently updated
// first. Admins see every non-terminal record. Other users see the records
// they own plus the records assigned to the roster name matching their first
// name; with no roster match they see owned records only. Any role other than
// admin resolves with the non-admin rules.
func Resolve[R Record](records []R, userID, userFirstName string, names []string, role string) []R {
	var visible []R
	if role == types.RoleAdmin {
		for _, r := range records {
			if !r.Terminal() {
				visible = append(visible, r)
			}
		}
		return sortByUpdated(visible)
	}

	matched, ok := roster.MatchFirstName(names, userFirstName)
	seen := make(map[string]bool)
	for _, r := range records {
		if r.Terminal() {
			continue
		}
		lead, coLead := r.AssignedNames()
		include := r.RecordOwnerID() == userID
		if !include && ok {
			include = lead == matched || coLead == matched
		}
		if include && !seen[r.RecordID()] {
			seen[r.RecordID()] = true
			visible = append(visible, r)
		}
	}
	return sortByUpdated(visible)
}

func sortByUpdated[R Record](records []R) []R {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LastUpdated().After(records[j].LastUpdated())
	})
	return records
}
