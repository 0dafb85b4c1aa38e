package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quartzlane/groupgate/pkg/models"
	"github.com/quartzlane/groupgate/pkg/registry"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	idx := registry.Build([]models.DeviceRecord{
		deviceEnrolledAgo("ext-old", 10*time.Hour),
		deviceEnrolledAgo("ext-fresh", 2*time.Hour),
		deviceEnrolledAgo("ext-exact", testThreshold),
		{ID: "dev-none", ExternalID: "ext-none", EnrolledAt: ""},
		{ID: "dev-bad", ExternalID: "ext-bad", EnrolledAt: "yesterday-ish"},
	})

	tests := []struct {
		name   string
		member models.GroupMember
		want   Qualification
	}{
		{name: "enrolled past threshold", member: member("m1", "ext-old"), want: Qualified},
		{name: "enrolled exactly at threshold", member: member("m2", "ext-exact"), want: Qualified},
		{name: "enrolled too recently", member: member("m3", "ext-fresh"), want: NotQualified},
		{name: "no external id", member: member("m4", ""), want: Unresolved},
		{name: "no inventory record", member: member("m5", "ext-unknown"), want: Unresolved},
		{name: "missing enrollment timestamp", member: member("m6", "ext-none"), want: Invalid},
		{name: "malformed enrollment timestamp", member: member("m7", "ext-bad"), want: Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Evaluate(tt.member, idx, testNow, testThreshold)
			require.Equal(t, tt.want, got)
		})
	}
}

// Evaluate must be a function of its arguments only: two calls with the
// same inputs agree regardless of wall-clock time.
func TestEvaluateDeterministic(t *testing.T) {
	t.Parallel()

	idx := registry.Build([]models.DeviceRecord{
		deviceEnrolledAgo("ext-a", testThreshold),
	})

	m := member("m1", "ext-a")

	require.Equal(t, Qualified, Evaluate(m, idx, testNow, testThreshold))
	require.Equal(t, NotQualified, Evaluate(m, idx, testNow.Add(-time.Second), testThreshold))
}

func TestQualificationString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "qualified", Qualified.String())
	require.Equal(t, "not_qualified", NotQualified.String())
	require.Equal(t, "unresolved", Unresolved.String())
	require.Equal(t, "invalid", Invalid.String())
}
