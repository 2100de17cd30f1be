package retry

import (
	"context"
	"fmt"
	"maps"

	"github.com/go-viper/mapstructure/v2"
)

// DefaultTokenField is the continuation-token field name used by most AWS listing calls.
const DefaultTokenField = "NextToken"

// Operation is a listing call that takes and returns field-addressable values.
type Operation func(ctx context.Context, args map[string]any) (map[string]any, error)

// PagedRequest describes one paginated listing.
type PagedRequest struct {
	// ResultsField names the response field holding the page items.
	ResultsField string
	// TokenField names the response field holding the continuation token.
	TokenField string
	// TokenArg names the argument used to send the token back.
	TokenArg string
	// Args are passed on every call. They are copied, never modified.
	Args map[string]any
}

func (r PagedRequest) normalized() PagedRequest {
	if r.TokenField == "" {
		r.TokenField = DefaultTokenField
	}
	if r.TokenArg == "" {
		r.TokenArg = DefaultTokenField
	}
	return r
}

// ListAll fetches every page of req through the retry engine and returns the
// concatenated items in page order.
//
// Listing stops when a response carries no token or repeats the previous token.
// Some APIs echo the last token instead of omitting it; that is treated as the end
// of the results rather than an error.
func ListAll[T any](ctx context.Context, p Policy, name string, op Operation, req PagedRequest) ([]T, error) {
	req = req.normalized()
	logger := p.logger()

	args := make(map[string]any, len(req.Args)+1)
	maps.Copy(args, req.Args)

	call := func(ctx context.Context) (map[string]any, error) {
		return op(ctx, args)
	}

	response, err := Do(ctx, p, name, call)
	if err != nil {
		return nil, err
	}

	items, err := pageItems[T](response, req.ResultsField)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		logger.Warn("No items found in response", "operation", name, "results_field", req.ResultsField)
	}

	nextToken, hasNext := pageToken(response, req.TokenField)
	prevToken, hasPrev := "", false

	for hasNext && (!hasPrev || nextToken != prevToken) {
		args[req.TokenArg] = nextToken

		response, err = Do(ctx, p, name, call)
		if err != nil {
			return nil, err
		}

		page, err := pageItems[T](response, req.ResultsField)
		if err != nil {
			return nil, err
		}
		items = append(items, page...)

		prevToken, hasPrev = nextToken, true
		nextToken, hasNext = pageToken(response, req.TokenField)
	}

	return items, nil
}

func pageItems[T any](response map[string]any, field string) ([]T, error) {
	raw, ok := response[field]
	if !ok || raw == nil {
		return []T{}, nil
	}
	if items, ok := raw.([]T); ok {
		return items, nil
	}

	var items []T
	if err := mapstructure.Decode(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", field, err)
	}
	return items, nil
}

func pageToken(response map[string]any, field string) (string, bool) {
	switch token := response[field].(type) {
	case string:
		return token, token != ""
	case *string:
		if token == nil {
			return "", false
		}
		return *token, *token != ""
	default:
		return "", false
	}
}

// FromCall adapts a typed SDK call to an Operation. base is copied for every call
// and args are decoded onto the copy by field name, so only the fields named in
// args change between pages. The response is flattened into a map keyed by field name.
func FromCall[In, Out, Opt any](call func(context.Context, *In, ...func(*Opt)) (*Out, error), base In) Operation {
	return func(ctx context.Context, args map[string]any) (map[string]any, error) {
		input := base

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &input,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(args); err != nil {
			return nil, fmt.Errorf("decoding request arguments: %w", err)
		}

		output, err := call(ctx, &input)
		if err != nil {
			return nil, err
		}

		response := map[string]any{}
		if err := mapstructure.Decode(output, &response); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
		return response, nil
	}
}
