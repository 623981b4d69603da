package service

import (
	"errors"
	"fmt"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

// lookupError replaces a collaborator's not-found detail with the referenced key.
// Any other error is returned as is.
func lookupError(err error, what, key string) error {
	if errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", model.ErrNotFound, what, key)
	}
	return err
}

func missingField(name string) error {
	return fmt.Errorf("%w: %s", model.ErrMissingField, name)
}
