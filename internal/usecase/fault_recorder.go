package usecase

// FaultRecorder counts infrastructure faults that a use case absorbed.
type FaultRecorder interface {
	InfraFault(component, op string)
}
