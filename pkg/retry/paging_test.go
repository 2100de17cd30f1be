package retry

import (
	"context"
	"errors"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedSource serves responses in order, failing the calls listed in errs, and
// records the args of every call.
type pagedSource struct {
	responses []map[string]any
	errs      map[int]error
	calls     []map[string]any
	served    int
}

func (s *pagedSource) op(ctx context.Context, args map[string]any) (map[string]any, error) {
	call := len(s.calls)
	s.calls = append(s.calls, maps.Clone(args))

	if err, ok := s.errs[call]; ok {
		return nil, err
	}
	s.served++
	return s.responses[s.served-1], nil
}

func TestListAll_RepeatedTokenEndsListing(t *testing.T) {
	p, _ := testPolicy(Throttled())
	src := &pagedSource{responses: []map[string]any{
		{"Items": []string{"A", "B"}, "NextToken": "t1"},
		{"Items": []string{"C"}, "NextToken": "t1"},
		{"Items": []string{"never"}},
	}}

	got, err := ListAll[string](context.Background(), p, "ListThings", src.op, PagedRequest{ResultsField: "Items"})

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, got)
	require.Len(t, src.calls, 2, "the call repeating the token must never be issued")
	assert.NotContains(t, src.calls[0], "NextToken")
	assert.Equal(t, "t1", src.calls[1]["NextToken"])
}

func TestListAll_StopsWhenTokenMissing(t *testing.T) {
	p, _ := testPolicy(Throttled())
	token2 := "t2"
	src := &pagedSource{responses: []map[string]any{
		{"Items": []string{"A"}, "NextToken": "t1"},
		{"Items": []string{"B"}, "NextToken": &token2},
		{"Items": []string{"C"}, "NextToken": (*string)(nil)},
	}}

	got, err := ListAll[string](context.Background(), p, "ListThings", src.op, PagedRequest{ResultsField: "Items"})

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, got)
	require.Len(t, src.calls, 3)
	assert.Equal(t, "t2", src.calls[2]["NextToken"])
}

func TestListAll_EmptyTokenEndsListing(t *testing.T) {
	p, _ := testPolicy(Throttled())
	src := &pagedSource{responses: []map[string]any{
		{"Items": []string{"A"}, "NextToken": ""},
	}}

	got, err := ListAll[string](context.Background(), p, "ListThings", src.op, PagedRequest{ResultsField: "Items"})

	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, got)
	assert.Len(t, src.calls, 1)
}

func TestListAll_CustomTokenFields(t *testing.T) {
	p, _ := testPolicy(Throttled())
	src := &pagedSource{responses: []map[string]any{
		{"Versions": []string{"v1"}, "NextVersionIdMarker": "m1"},
		{"Versions": []string{"v2"}},
	}}

	req := PagedRequest{
		ResultsField: "Versions",
		TokenField:   "NextVersionIdMarker",
		TokenArg:     "VersionIdMarker",
		Args:         map[string]any{"Bucket": "my-bucket", "Prefix": "logs/"},
	}

	got, err := ListAll[string](context.Background(), p, "ListObjectVersions", src.op, req)

	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, got)
	require.Len(t, src.calls, 2)
	assert.Equal(t, map[string]any{"Bucket": "my-bucket", "Prefix": "logs/", "VersionIdMarker": "m1"}, src.calls[1])
	assert.NotContains(t, req.Args, "VersionIdMarker", "caller arguments must not be modified")
}

func TestListAll_MissingResultsFieldIsEmpty(t *testing.T) {
	p, _ := testPolicy(Throttled())
	src := &pagedSource{responses: []map[string]any{
		{"Other": []string{"x"}},
	}}

	got, err := ListAll[string](context.Background(), p, "ListThings", src.op, PagedRequest{ResultsField: "Items"})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListAll_RetriesThrottledPage(t *testing.T) {
	p, rec := testPolicy(Throttled())
	src := &pagedSource{
		responses: []map[string]any{
			{"Items": []string{"A"}, "NextToken": "t1"},
			{"Items": []string{"B"}},
		},
		errs: map[int]error{1: throttleError("Throttling")},
	}

	got, err := ListAll[string](context.Background(), p, "ListThings", src.op, PagedRequest{ResultsField: "Items"})

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, got)
	require.Len(t, src.calls, 3)
	assert.Equal(t, src.calls[1], src.calls[2], "a retried page must resend the same token")
	assert.Len(t, rec.waits, 1)
}

func TestListAll_FatalErrorOnLaterPage(t *testing.T) {
	p, _ := testPolicy(Throttled())
	wantErr := errors.New("access denied")
	calls := 0
	op := func(ctx context.Context, args map[string]any) (map[string]any, error) {
		calls++
		if calls == 2 {
			return nil, wantErr
		}
		return map[string]any{"Items": []string{"A"}, "NextToken": "t1"}, nil
	}

	got, err := ListAll[string](context.Background(), p, "ListThings", op, PagedRequest{ResultsField: "Items"})

	assert.Same(t, wantErr, err)
	assert.Nil(t, got)
	assert.Equal(t, 2, calls)
}

func TestListAll_DecodesUntypedItems(t *testing.T) {
	type group struct {
		ID   string `mapstructure:"id"`
		Name string `mapstructure:"name"`
	}

	p, _ := testPolicy(Throttled())
	src := &pagedSource{responses: []map[string]any{
		{"items": []any{
			map[string]any{"id": "sig-1", "name": "web"},
			map[string]any{"id": "sig-2", "name": "worker"},
		}},
	}}

	got, err := ListAll[group](context.Background(), p, "GetGroups", src.op, PagedRequest{ResultsField: "items"})

	require.NoError(t, err)
	assert.Equal(t, []group{{ID: "sig-1", Name: "web"}, {ID: "sig-2", Name: "worker"}}, got)
}

type fakeListInput struct {
	Bucket    *string
	MaxKeys   *int32
	NextToken *string
}

type fakeListOutput struct {
	Items     []string
	NextToken *string
}

type fakeListOptions struct{}

func TestFromCall_DecodesArgsOntoBaseInput(t *testing.T) {
	bucket := "my-bucket"
	var seen []fakeListInput

	call := func(ctx context.Context, in *fakeListInput, _ ...func(*fakeListOptions)) (*fakeListOutput, error) {
		seen = append(seen, *in)
		if in.NextToken == nil {
			next := "page-2"
			return &fakeListOutput{Items: []string{"a", "b"}, NextToken: &next}, nil
		}
		return &fakeListOutput{Items: []string{"c"}}, nil
	}

	p, _ := testPolicy(Throttled())
	op := FromCall(call, fakeListInput{Bucket: &bucket})

	got, err := ListAll[string](context.Background(), p, "List", op, PagedRequest{
		ResultsField: "Items",
		Args:         map[string]any{"MaxKeys": 2},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	require.Len(t, seen, 2)

	for i, in := range seen {
		require.NotNil(t, in.Bucket, "call %d", i)
		assert.Equal(t, "my-bucket", *in.Bucket)
		require.NotNil(t, in.MaxKeys, "call %d", i)
		assert.Equal(t, int32(2), *in.MaxKeys)
	}
	assert.Nil(t, seen[0].NextToken)
	require.NotNil(t, seen[1].NextToken)
	assert.Equal(t, "page-2", *seen[1].NextToken)
}

func TestFromCall_PassesThroughCallError(t *testing.T) {
	wantErr := throttleError("AccessDenied")
	call := func(ctx context.Context, in *fakeListInput, _ ...func(*fakeListOptions)) (*fakeListOutput, error) {
		return nil, wantErr
	}

	_, err := FromCall(call, fakeListInput{})(context.Background(), nil)

	assert.Same(t, wantErr, err)
}
