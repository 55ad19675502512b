package usecase

import "fmt"

// ErrPersistence indicates a directory failure inside an identity use case.
var ErrPersistence = fmt.Errorf("identity use case persistence error")
