// Package component defines the data attached to entities.
package component

import "errors"

// ErrInvalidArgument is returned by constructors given a missing required
// collaborator or an unusable value.
var ErrInvalidArgument = errors.New("component: invalid argument")
