package domain

// Operation is the kind of mutation that produced a change notification
type Operation int

const (
	OpInsert Operation = iota
	OpUpdate
	OpDelete
)

func (o Operation) String() string {
	switch o {
	case OpInsert:
		return "INSERT"
	case OpUpdate:
		return "UPDATE"
	case OpDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// DataChangedEvent is emitted by the data source after every mutation.
// Entity is the changed record for inserts and updates; deletes may carry
// the removed record or nil.
type DataChangedEvent struct {
	EntityType EntityType
	Entity     any
	Op         Operation
}
