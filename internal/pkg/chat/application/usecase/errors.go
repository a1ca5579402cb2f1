package usecase

import "fmt"

// ErrPersistence marks an infrastructure/repository failure inside a use
// case. Transports surface it as a transient server-side condition, distinct
// from validation and authorization failures.
var ErrPersistence = fmt.Errorf("chat use case persistence error")
