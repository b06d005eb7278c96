package messaging

// Constants for NATS subjects
const (
	// StreamSync is the JetStream stream holding synchronization units.
	StreamSync = "SYNC"

	// SubjectSupplierSubmit carries one supplier submission unit per message.
	SubjectSupplierSubmit = "sync.supplier.submit"
)
