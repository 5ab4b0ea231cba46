// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendRequests.WithLabelValues("hybrid", OutcomeOK))

	RecordRecommendation("hybrid", OutcomeOK, 5, 3*time.Millisecond)
	RecordRecommendation("hybrid", OutcomeOK, 2, time.Millisecond)

	after := testutil.ToFloat64(RecommendRequests.WithLabelValues("hybrid", OutcomeOK))
	if after-before != 2 {
		t.Errorf("hybrid/ok counter delta = %v, want 2", after-before)
	}
}

func TestRecordDatasetReload(t *testing.T) {
	tests := []struct {
		name    string
		changed bool
		err     error
		result  string
	}{
		{name: "changed", changed: true, result: "success"},
		{name: "unchanged", changed: false, result: "unchanged"},
		{name: "failed", changed: true, err: errors.New("read failed"), result: "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DatasetReloads.WithLabelValues("api", tt.result)
			before := testutil.ToFloat64(c)
			RecordDatasetReload("api", time.Millisecond, tt.changed, tt.err)
			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("%s counter delta = %v, want 1", tt.result, got)
			}
		})
	}
}

func TestSetDatasetSize(t *testing.T) {
	SetDatasetSize(10, 4, 7)

	if got := testutil.ToFloat64(DatasetItems); got != 10 {
		t.Errorf("DatasetItems = %v, want 10", got)
	}
	if got := testutil.ToFloat64(DatasetInteractions.WithLabelValues("viewed")); got != 7 {
		t.Errorf("viewed interactions = %v, want 7", got)
	}
}

func TestErrorOutcome(t *testing.T) {
	errInvalid := errors.New("invalid")
	errMissing := errors.New("missing")

	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{fmt.Errorf("wrap: %w", errInvalid), OutcomeInvalidInput},
		{fmt.Errorf("wrap: %w", errMissing), OutcomeNotFound},
		{errors.New("boom"), OutcomeError},
	}
	for _, tt := range tests {
		if got := ErrorOutcome(tt.err, errInvalid, errMissing); got != tt.want {
			t.Errorf("ErrorOutcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRegisterEngineCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	builds := func() float64 { return 3 }
	held := func() float64 { return 1 }

	if err := RegisterEngineCollectors(reg, builds, held); err != nil {
		t.Fatalf("RegisterEngineCollectors() error = %v", err)
	}
	if err := RegisterEngineCollectors(reg, builds, held); err != nil {
		t.Fatalf("second RegisterEngineCollectors() error = %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	values := map[string]float64{}
	for _, mf := range families {
		m := mf.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			values[mf.GetName()] = m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			values[mf.GetName()] = m.GetGauge().GetValue()
		}
	}
	if values["resonance_engine_model_builds_total"] != 3 {
		t.Errorf("builds = %v, want 3", values["resonance_engine_model_builds_total"])
	}
	if values["resonance_engine_held_snapshots"] != 1 {
		t.Errorf("held = %v, want 1", values["resonance_engine_held_snapshots"])
	}
}
