package storage

// StorageInterface persists a report export under a file name
type StorageInterface interface {
	Store(filename string, data []byte) error
}
