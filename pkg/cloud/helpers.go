package cloud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// CreateFilters converts a name -> values map into filters ordered by name.
func CreateFilters(m map[string][]string) []Filter {
	filters := make([]Filter, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		filters = append(filters, Filter{Name: name, Values: m[name]})
	}
	return filters
}

// FindOrCreate returns the result of find, calling create only when find reports
// that nothing was found.
func FindOrCreate[T any](ctx context.Context, find func(context.Context) (T, bool, error), create func(context.Context) (T, error)) (T, error) {
	found, ok, err := find(ctx)
	if err != nil {
		return found, err
	}
	if ok {
		return found, nil
	}
	return create(ctx)
}

// DynamoDBRecordToMap converts a DynamoDB stream record such as
// {"foo": {"S": "bar"}, "baz": {"N": "100"}} into {"foo": "bar", "baz": "100"}.
// Attributes are expected to carry a single type descriptor; when several are present
// the alphabetically first one wins.
func DynamoDBRecordToMap(record map[string]map[string]string) map[string]string {
	result := make(map[string]string, len(record))
	for name, attribute := range record {
		if len(attribute) == 0 {
			continue
		}
		descriptor := slices.Min(slices.Collect(maps.Keys(attribute)))
		result[name] = attribute[descriptor]
	}
	return result
}

// CheckWritten fails with ErrS3Writing when written differs from expected.
func CheckWritten(objectName string, expected, written int64) error {
	if expected != written {
		return fmt.Errorf("%w: %s (expected %d bytes, wrote %d)", ErrS3Writing, objectName, expected, written)
	}
	return nil
}

// CatchAll runs fn and converts any error or panic into a *CatchAllError, logging it
// at error level. It is meant for the outermost layer of a service or command.
func CatchAll(ctx context.Context, logger *slog.Logger, operation string, fn func(context.Context) error) (err error) {
	if logger == nil {
		logger = slog.Default()
	}

	defer func() {
		if r := recover(); r != nil {
			err = &CatchAllError{Operation: operation, Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			logger.ErrorContext(ctx, "Unhandled failure", "operation", operation, "error", err)
		}
	}()

	if err := fn(ctx); err != nil {
		var caught *CatchAllError
		if errors.As(err, &caught) {
			return err
		}
		return &CatchAllError{Operation: operation, Err: err}
	}
	return nil
}
