package models

import "testing"

func TestSupplierSyncStateEligible(t *testing.T) {
	tests := []struct {
		state    SupplierSyncState
		eligible bool
	}{
		{SyncStateNotSynced, true},
		{SyncStateError, true},
		{SyncStateInProgress, false},
		{SyncStateSynced, false},
	}

	for _, tt := range tests {
		if got := tt.state.Eligible(); got != tt.eligible {
			t.Errorf("%s.Eligible() = %v, expected %v", tt.state, got, tt.eligible)
		}
	}
}
