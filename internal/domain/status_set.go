package domain

// StatusSet is an immutable set of work-item statuses.
type StatusSet struct {
	members map[WorkItemStatus]struct{}
}

func NewStatusSet(statuses ...WorkItemStatus) StatusSet {
	m := make(map[WorkItemStatus]struct{}, len(statuses))
	for _, s := range statuses {
		m[s] = struct{}{}
	}
	return StatusSet{members: m}
}

// Contains reports whether s is in the set. The zero StatusSet is empty.
func (ss StatusSet) Contains(s WorkItemStatus) bool {
	_, ok := ss.members[s]
	return ok
}

func (ss StatusSet) Len() int {
	return len(ss.members)
}
