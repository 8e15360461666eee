// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package workspace

import (
	"errors"
	"testing"
)

const validHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func TestFileEntry_Validate(t *testing.T) {
	t.Run("valid entry passes", func(t *testing.T) {
		e := FileEntry{Path: "app.js", Hash: validHash}
		if err := e.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("missing path fails", func(t *testing.T) {
		e := FileEntry{Hash: validHash}
		if err := e.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})

	t.Run("short hash fails", func(t *testing.T) {
		e := FileEntry{Path: "app.js", Hash: "abc123"}
		if err := e.Validate(); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("Validate() = %v, want ErrInvalidHash", err)
		}
	})

	t.Run("uppercase hash fails", func(t *testing.T) {
		e := FileEntry{Path: "app.js", Hash: "E3B0C44298FC1C149AFBF4C8996FB92427AE41E4649B934CA495991B7852B855"}
		if err := e.Validate(); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("Validate() = %v, want ErrInvalidHash", err)
		}
	})

	t.Run("non-hex hash fails", func(t *testing.T) {
		e := FileEntry{Path: "app.js", Hash: "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"}
		if err := e.Validate(); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("Validate() = %v, want ErrInvalidHash", err)
		}
	})
}

func TestNewManifest(t *testing.T) {
	m := NewManifest("/project")
	if m.ProjectRoot != "/project" {
		t.Errorf("ProjectRoot = %s, want /project", m.ProjectRoot)
	}
	if m.Files == nil {
		t.Error("Files is nil, want empty map")
	}
	if m.FileCount() != 0 {
		t.Errorf("FileCount() = %d, want 0", m.FileCount())
	}
	if m.HasErrors() {
		t.Error("HasErrors() = true, want false")
	}
	if m.CreatedAtMilli == 0 {
		t.Error("CreatedAtMilli = 0, want nonzero")
	}
}

func TestManifest_ErrorCount(t *testing.T) {
	m := NewManifest("/project")
	m.Errors = append(m.Errors, ScanError{Path: "a.js", Err: errors.New("boom")})
	m.Errors = append(m.Errors, ScanError{Path: "b.js", Err: errors.New("bang")})

	if m.ErrorCount() != 2 {
		t.Errorf("ErrorCount() = %d, want 2", m.ErrorCount())
	}
	if !m.HasErrors() {
		t.Error("HasErrors() = false, want true")
	}
}

func TestChanges(t *testing.T) {
	t.Run("empty changes report no changes", func(t *testing.T) {
		c := &Changes{}
		if c.HasChanges() {
			t.Error("HasChanges() = true, want false")
		}
		if !c.IsEmpty() {
			t.Error("IsEmpty() = false, want true")
		}
		if c.Count() != 0 {
			t.Errorf("Count() = %d, want 0", c.Count())
		}
	})

	t.Run("any bucket populated reports changes", func(t *testing.T) {
		c := &Changes{Added: []string{"a.js"}}
		if !c.HasChanges() {
			t.Error("HasChanges() = false, want true")
		}
		if c.IsEmpty() {
			t.Error("IsEmpty() = true, want false")
		}
		if c.Count() != 1 {
			t.Errorf("Count() = %d, want 1", c.Count())
		}
	})
}

func TestScanError(t *testing.T) {
	inner := errors.New("permission denied")
	e := ScanError{Path: "app.js", Err: inner}

	if !errors.Is(e, inner) {
		t.Error("ScanError does not unwrap to its inner error")
	}
	if e.Error() == "" {
		t.Error("Error() returned empty string")
	}

	data, err := e.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if len(data) == 0 {
		t.Error("MarshalJSON returned empty data")
	}
}
