// Package service implements the mutation API over the persistent store.
// Every write follows the same contract: read a fresh snapshot, validate,
// apply the change, then exactly one store write followed by exactly one
// bus publish, in that order, so no subscriber can observe an event before
// the write it announces is durable.
package service

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())
