package rules

import (
	"sort"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
)

// SortApplicants orders applicants by priority tier ascending, applicants
// without a tier last, and by queue points descending within a tier. The sort
// is stable: equal applicants keep their relative input order, which keeps
// the allocation deterministic.
func SortApplicants(applicants []model.DetailedApplicant) []model.DetailedApplicant {
	out := make([]model.DetailedApplicant, len(applicants))
	copy(out, applicants)

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Priority, out[j].Priority
		switch {
		case pi == nil && pj == nil:
			return out[i].QueuePoints > out[j].QueuePoints
		case pi == nil:
			return false
		case pj == nil:
			return true
		case *pi != *pj:
			return *pi < *pj
		}
		return out[i].QueuePoints > out[j].QueuePoints
	})
	return out
}
