package planner

import "sort"

// sortActions imposes the final total order: priority rank ascending, then
// the action's numeric score descending. The sort is stable, so equal keys
// retain build order (matches first, then groups, then gaps).
func sortActions(actions []PlannedAction) {
	sort.SliceStable(actions, func(i, j int) bool {
		ri, rj := actions[i].Priority.Rank(), actions[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return actions[i].Score > actions[j].Score
	})
}
