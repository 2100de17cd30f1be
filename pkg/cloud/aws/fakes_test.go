package aws

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/configservice"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"github.com/amplify-education/awsutils-go/pkg/retry"
)

// fakeS3 routes each call to a per-test function; unset functions panic.
type fakeS3 struct {
	listObjectsV2      func(*s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error)
	listObjectVersions func(*s3.ListObjectVersionsInput) (*s3.ListObjectVersionsOutput, error)
	headObject         func(*s3.HeadObjectInput) (*s3.HeadObjectOutput, error)
	getObject          func(*s3.GetObjectInput) (*s3.GetObjectOutput, error)
	putObject          func(*s3.PutObjectInput) (*s3.PutObjectOutput, error)
	copyObject         func(*s3.CopyObjectInput) (*s3.CopyObjectOutput, error)
	getBucketTagging   func(*s3.GetBucketTaggingInput) (*s3.GetBucketTaggingOutput, error)
	putBucketTagging   func(*s3.PutBucketTaggingInput) (*s3.PutBucketTaggingOutput, error)
	getObjectTagging   func(*s3.GetObjectTaggingInput) (*s3.GetObjectTaggingOutput, error)
	putObjectTagging   func(*s3.PutObjectTaggingInput) (*s3.PutObjectTaggingOutput, error)
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	return f.listObjectsV2(in)
}

func (f *fakeS3) ListObjectVersions(_ context.Context, in *s3.ListObjectVersionsInput, _ ...func(*s3.Options)) (*s3.ListObjectVersionsOutput, error) {
	return f.listObjectVersions(in)
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	return f.headObject(in)
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return f.getObject(in)
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return f.putObject(in)
}

func (f *fakeS3) CopyObject(_ context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	return f.copyObject(in)
}

func (f *fakeS3) GetBucketTagging(_ context.Context, in *s3.GetBucketTaggingInput, _ ...func(*s3.Options)) (*s3.GetBucketTaggingOutput, error) {
	return f.getBucketTagging(in)
}

func (f *fakeS3) PutBucketTagging(_ context.Context, in *s3.PutBucketTaggingInput, _ ...func(*s3.Options)) (*s3.PutBucketTaggingOutput, error) {
	return f.putBucketTagging(in)
}

func (f *fakeS3) GetObjectTagging(_ context.Context, in *s3.GetObjectTaggingInput, _ ...func(*s3.Options)) (*s3.GetObjectTaggingOutput, error) {
	return f.getObjectTagging(in)
}

func (f *fakeS3) PutObjectTagging(_ context.Context, in *s3.PutObjectTaggingInput, _ ...func(*s3.Options)) (*s3.PutObjectTaggingOutput, error) {
	return f.putObjectTagging(in)
}

type fakeEC2 struct {
	describeInstances func(*ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error)
	describeImages    func(*ec2.DescribeImagesInput) (*ec2.DescribeImagesOutput, error)
}

func (f *fakeEC2) DescribeInstances(_ context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	return f.describeInstances(in)
}

func (f *fakeEC2) DescribeImages(_ context.Context, in *ec2.DescribeImagesInput, _ ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
	return f.describeImages(in)
}

type fakeSSM struct {
	getParameter  func(*ssm.GetParameterInput) (*ssm.GetParameterOutput, error)
	getParameters func(*ssm.GetParametersInput) (*ssm.GetParametersOutput, error)
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	return f.getParameter(in)
}

func (f *fakeSSM) GetParameters(_ context.Context, in *ssm.GetParametersInput, _ ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	return f.getParameters(in)
}

type fakeConfigService struct {
	calls []*configservice.PutEvaluationsInput
	err   error
}

func (f *fakeConfigService) PutEvaluations(_ context.Context, in *configservice.PutEvaluationsInput, _ ...func(*configservice.Options)) (*configservice.PutEvaluationsOutput, error) {
	f.calls = append(f.calls, in)
	if f.err != nil {
		return nil, f.err
	}
	return &configservice.PutEvaluationsOutput{}, nil
}

type fakeSTS struct {
	assumeRole func(*sts.AssumeRoleInput) (*sts.AssumeRoleOutput, error)
}

func (f *fakeSTS) AssumeRole(_ context.Context, in *sts.AssumeRoleInput, _ ...func(*sts.Options)) (*sts.AssumeRoleOutput, error) {
	return f.assumeRole(in)
}

// sleepRecorder counts waits instead of blocking.
type sleepRecorder struct {
	waits []time.Duration
}

func (r *sleepRecorder) sleep(d time.Duration) {
	r.waits = append(r.waits, d)
}

// newTestClient returns a Client whose retries never block, along with the log buffer
// and the recorded waits.
func newTestClient() (*Client, *bytes.Buffer, *sleepRecorder) {
	var buf bytes.Buffer
	rec := &sleepRecorder{}
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return &Client{
		Logger: logger,
		Policy: retry.Throttled().WithSleep(rec.sleep),
	}, &buf, rec
}

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code}
}
