// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package setassoc

import "errors"

var (
	// ErrInvalidConfig is returned when ways or capacity is not positive.
	ErrInvalidConfig = errors.New("invalid cache configuration")

	// ErrKeyNotFound is returned by Value when the key is not resident.
	ErrKeyNotFound = errors.New("key not found")
)
