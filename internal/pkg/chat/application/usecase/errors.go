package usecase

import (
	"errors"
	"fmt"

	chat "go-matchmate/internal/pkg/chat/application/domain"
)

// ErrPersistence indicates an infrastructure/repository failure inside a use case
var ErrPersistence = fmt.Errorf("chat use case persistence error")

// repoErr passes domain errors through and wraps everything else as ErrPersistence.
func repoErr(err error) error {
	if err == nil {
		return nil
	}
	for _, domainErr := range []error{chat.ErrNotFound, chat.ErrBlocked, chat.ErrCaretakerLocked, chat.ErrInvalidArgument} {
		if errors.Is(err, domainErr) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
