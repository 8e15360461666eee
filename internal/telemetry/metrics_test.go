// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestNewMetrics(t *testing.T) {
	meter := otel.Meter("test")

	m, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v, want nil", err)
	}

	m.RequestsTotal.Add(context.Background(), 1)
	m.ResolverQueriesTotal.Add(context.Background(), 1)
	m.ErrorsTotal.Add(context.Background(), 1)
}

func TestMetrics_RegisterProxyState(t *testing.T) {
	meter := otel.Meter("test-proxy-state")
	m, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v, want nil", err)
	}

	reg, err := m.RegisterProxyState(meter, func() int64 { return 1 })
	if err != nil {
		t.Fatalf("RegisterProxyState() error = %v, want nil", err)
	}
	if reg == nil {
		t.Fatal("RegisterProxyState() registration = nil, want non-nil")
	}
	_ = reg.Unregister()
}
