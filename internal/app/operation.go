package app

const (
	OperationSuccess = "success"
	OperationError   = "error"
)

// Operation tracks a CLI command that may change state. Operations are
// created in memory with ID=0. Only state-changing commands persist them,
// which gives them an auto-increment ID from the database.
type Operation struct {
	ID         int64
	Name       string
	Parameters string
	Status     string // OperationSuccess or OperationError
}

// NewOperation creates a new in-memory operation.
func NewOperation(name, parameters string) *Operation {
	return &Operation{
		Name:       name,
		Parameters: parameters,
		Status:     OperationSuccess,
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// Fail marks the operation as failed.
func (op *Operation) Fail() {
	op.Status = OperationError
}
