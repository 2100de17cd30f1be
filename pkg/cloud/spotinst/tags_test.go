package spotinst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagConversions(t *testing.T) {
	m := map[string]string{"environment": "prod", "Name": "web"}

	tags := MapToTags(m)

	assert.Equal(t, []Tag{{Key: "Name", Value: "web"}, {Key: "environment", Value: "prod"}}, tags)
	assert.Equal(t, m, TagsToMap(tags))
	assert.Empty(t, TagsToMap(nil))
}

func TestGroupTag(t *testing.T) {
	group := Group{
		"id": "sig-1",
		"compute": map[string]any{
			"launchSpecification": map[string]any{
				"tags": []any{
					map[string]any{"tagKey": "environment", "tagValue": "prod"},
					map[string]any{"tagKey": "team", "tagValue": "infra"},
				},
			},
		},
	}

	tests := []struct {
		name      string
		group     Group
		key       string
		wantValue string
		wantFound bool
	}{
		{name: "Present", group: group, key: "team", wantValue: "infra", wantFound: true},
		{name: "Absent", group: group, key: "owner", wantFound: false},
		{name: "No Tags", group: Group{"compute": map[string]any{"launchSpecification": map[string]any{}}}, key: "team"},
		{name: "No Compute", group: Group{"id": "sig-2"}, key: "team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, found, err := GroupTag(tt.group, tt.key)

			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantFound, found)
		})
	}
}
