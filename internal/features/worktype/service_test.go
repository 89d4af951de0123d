package worktype

import (
	"testing"
)

func TestValidateSteps(t *testing.T) {
	tests := []struct {
		name    string
		steps   []ApprovalStepDef
		wantErr bool
	}{
		{
			name: "Valid Ladder",
			steps: []ApprovalStepDef{
				{Level: 1, SequenceOrder: 1, RoleID: "a"},
				{Level: 1, SequenceOrder: 2, RoleID: "b"},
				{Level: 2, SequenceOrder: 1, RoleID: "c"},
			},
		},
		{
			name: "Duplicate Level And Sequence",
			steps: []ApprovalStepDef{
				{Level: 1, SequenceOrder: 1, RoleID: "a"},
				{Level: 1, SequenceOrder: 1, RoleID: "b"},
			},
			wantErr: true,
		},
		{
			name: "Zero Level",
			steps: []ApprovalStepDef{
				{Level: 0, SequenceOrder: 1, RoleID: "a"},
			},
			wantErr: true,
		},
		{
			name: "Missing Role",
			steps: []ApprovalStepDef{
				{Level: 1, SequenceOrder: 1},
			},
			wantErr: true,
		},
		{
			name:  "Empty Ladder",
			steps: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSteps(tt.steps)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateSteps() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSortSteps(t *testing.T) {
	steps := []ApprovalStepDef{
		{Level: 2, SequenceOrder: 1, RoleID: "c"},
		{Level: 1, SequenceOrder: 2, RoleID: "b"},
		{Level: 1, SequenceOrder: 1, RoleID: "a"},
	}

	sortSteps(steps)

	want := []string{"a", "b", "c"}
	for i, roleID := range want {
		if steps[i].RoleID != roleID {
			t.Errorf("steps[%d].RoleID = %s, want %s", i, steps[i].RoleID, roleID)
		}
	}
}
