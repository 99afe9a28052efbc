// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package diff

// Plan is the result of comparing one direction of one project.
// Actions are in the order of the source listing.
type Plan struct {
	Actions  []*Action
	Failures []*Failure
}

// Count returns the number of actions of the given type.
func (p *Plan) Count(t ActionType) int {
	count := 0
	for _, a := range p.Actions {
		if a.Type == t {
			count++
		}
	}
	return count
}

// Transfers returns the Create and Update actions.
func (p *Plan) Transfers() []*Action {
	transfers := []*Action{}
	for _, a := range p.Actions {
		if a.Type != Skip {
			transfers = append(transfers, a)
		}
	}
	return transfers
}
