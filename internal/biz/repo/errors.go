package repo

// StorageError wraps a storage-engine failure so callers can tell it apart
// from domain-level outcomes. Retry and logging policy belongs to the caller.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
