// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package model

import "errors"

var (
	// ErrMissingID is returned when a Symbol or Reference has no ID.
	ErrMissingID = errors.New("model: id is required")
	// ErrMissingName is returned when a Symbol's Name, or a
	// Reference's ReferencedName, is empty.
	ErrMissingName = errors.New("model: name is required")
	// ErrMissingFilePath is returned when a Location has no FilePath.
	ErrMissingFilePath = errors.New("model: location file path is required")
)

// Validate reports whether s carries the fields the Index requires
// before accepting it.
func (s *Symbol) Validate() error {
	if s.ID == "" {
		return ErrMissingID
	}
	if s.Name == "" {
		return ErrMissingName
	}
	if s.Location.FilePath == "" {
		return ErrMissingFilePath
	}
	return nil
}

// Validate reports whether r carries the fields the Index requires
// before accepting it.
func (r *Reference) Validate() error {
	if r.ID == "" {
		return ErrMissingID
	}
	if r.ReferencedName == "" {
		return ErrMissingName
	}
	if r.Location.FilePath == "" {
		return ErrMissingFilePath
	}
	return nil
}
