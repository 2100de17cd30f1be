package cloud

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Field names SDKs use for tag keys and values, in detection order.
var (
	tagKeyFields   = []string{"Key", "key", "Name", "name"}
	tagValueFields = []string{"Value", "value"}
)

// KeyValuesToTags converts "key:value" strings into tags. Only the first colon
// separates key from value, so values may contain colons.
func KeyValuesToTags(pairs []string) ([]Tag, error) {
	tags := make([]Tag, 0, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMalformedTag, pair)
		}
		tags = append(tags, Tag{Key: key, Value: value})
	}
	return tags, nil
}

// TagsToMap flattens a slice of tags into a map. tags may be any slice of structs or
// maps, such as []s3types.Tag, []ec2types.Tag or decoded JSON. Services disagree on
// field names, so the key field (Key, key, Name or name) and the value field (Value or
// value) are detected from the first element. Pointer values are dereferenced.
func TagsToMap(tags any) (map[string]string, error) {
	var records []map[string]any
	if err := mapstructure.Decode(tags, &records); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}

	result := make(map[string]string, len(records))
	if len(records) == 0 {
		return result, nil
	}

	keyField := firstPresent(records[0], tagKeyFields)
	valueField := firstPresent(records[0], tagValueFields)
	if keyField == "" || valueField == "" {
		return nil, fmt.Errorf("%w: fields %v", ErrUnknownTagFormat, slices.Sorted(maps.Keys(records[0])))
	}

	for _, record := range records {
		result[stringValue(record[keyField])] = stringValue(record[valueField])
	}
	return result, nil
}

// MapToTags converts a map into tags ordered by key.
func MapToTags(m map[string]string) []Tag {
	tags := make([]Tag, 0, len(m))
	for _, key := range slices.Sorted(maps.Keys(m)) {
		tags = append(tags, Tag{Key: key, Value: m[key]})
	}
	return tags
}

func firstPresent(record map[string]any, candidates []string) string {
	for _, field := range candidates {
		if _, ok := record[field]; ok {
			return field
		}
	}
	return ""
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case *string:
		if s == nil {
			return ""
		}
		return *s
	default:
		return fmt.Sprint(s)
	}
}
