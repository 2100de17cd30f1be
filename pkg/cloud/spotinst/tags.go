package spotinst

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/amplify-education/awsutils-go/pkg/cloud"
)

// Tag is a launch specification tag in Spotinst's format.
type Tag struct {
	Key   string `json:"tagKey" mapstructure:"tagKey"`
	Value string `json:"tagValue" mapstructure:"tagValue"`
}

// TagsToMap flattens Spotinst tags into a map.
func TagsToMap(tags []Tag) map[string]string {
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[t.Key] = t.Value
	}
	return m
}

// MapToTags converts a map into Spotinst tags ordered by key.
func MapToTags(m map[string]string) []Tag {
	generic := cloud.MapToTags(m)
	tags := make([]Tag, 0, len(generic))
	for _, t := range generic {
		tags = append(tags, Tag{Key: t.Key, Value: t.Value})
	}
	return tags
}

// GroupTag returns the launch specification tag key of group. The boolean reports
// whether the tag exists.
func GroupTag(group Group, key string) (string, bool, error) {
	var spec struct {
		Compute struct {
			LaunchSpecification struct {
				Tags []Tag `mapstructure:"tags"`
			} `mapstructure:"launchSpecification"`
		} `mapstructure:"compute"`
	}

	if err := mapstructure.Decode(group, &spec); err != nil {
		return "", false, fmt.Errorf("decoding group tags: %w", err)
	}

	value, ok := TagsToMap(spec.Compute.LaunchSpecification.Tags)[key]
	return value, ok, nil
}
