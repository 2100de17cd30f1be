package aws

import (
	"context"
	"fmt"
	"slices"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/amplify-education/awsutils-go/pkg/cloud"
	"github.com/amplify-education/awsutils-go/pkg/retry"
)

// ImageDateFormat is the layout of ec2types.Image.CreationDate.
const ImageDateFormat = "2006-01-02T15:04:05.000Z"

// InstanceQuery narrows FindInstances. Empty fields do not filter.
type InstanceQuery struct {
	// AMIs keeps only instances launched from one of these images.
	AMIs []string
	// Environment matches the "environment" tag.
	Environment string
	// State matches the instance state name, such as "running".
	State ec2types.InstanceStateName
}

// FindInstances returns every instance matching q across all reservations.
func (c *Client) FindInstances(ctx context.Context, q InstanceQuery) ([]ec2types.Instance, error) {
	filters := map[string][]string{}
	if q.Environment != "" {
		filters["tag:environment"] = []string{q.Environment}
	}
	if q.State != "" {
		filters["instance-state-name"] = []string{string(q.State)}
	}

	reservations, err := retry.ListAll[ec2types.Reservation](ctx, c.policy(), "DescribeInstances",
		retry.FromCall(c.EC2.DescribeInstances, ec2.DescribeInstancesInput{Filters: ec2Filters(filters)}),
		retry.PagedRequest{ResultsField: "Reservations"})
	if err != nil {
		return nil, err
	}

	var instances []ec2types.Instance
	var ids []string
	for _, reservation := range reservations {
		for _, instance := range reservation.Instances {
			if len(q.AMIs) > 0 && !slices.Contains(q.AMIs, awssdk.ToString(instance.ImageId)) {
				continue
			}
			instances = append(instances, instance)
			ids = append(ids, awssdk.ToString(instance.InstanceId))
		}
	}

	c.logger().Info("Discovered instances", "count", len(ids), "instance_ids", ids)
	return instances, nil
}

// FindAMIs returns the ids of images owned by the account, optionally limited to
// children of sourceAMIs (by the "source_ami" tag) created after newerThan.
// A zero newerThan disables the age filter. Ids are sorted.
func (c *Client) FindAMIs(ctx context.Context, sourceAMIs []string, newerThan time.Time) ([]string, error) {
	filters := map[string][]string{}
	if len(sourceAMIs) > 0 {
		filters["tag:source_ami"] = sourceAMIs
	}

	out, err := throttled(ctx, c, "DescribeImages", func(ctx context.Context) (*ec2.DescribeImagesOutput, error) {
		return c.EC2.DescribeImages(ctx, &ec2.DescribeImagesInput{
			Filters: ec2Filters(filters),
			Owners:  []string{"self"},
		})
	})
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, image := range out.Images {
		if !newerThan.IsZero() {
			created, err := time.Parse(ImageDateFormat, awssdk.ToString(image.CreationDate))
			if err != nil {
				return nil, fmt.Errorf("parsing creation date of %s: %w", awssdk.ToString(image.ImageId), err)
			}
			if !created.After(newerThan) {
				continue
			}
		}
		ids = append(ids, awssdk.ToString(image.ImageId))
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	c.logger().Info("Found images", "count", len(ids), "image_ids", ids)
	return ids, nil
}

// WaitForInstanceState polls the instances until all of them reach state, any of
// them fails or terminates, or timeout has been spent waiting.
func (c *Client) WaitForInstanceState(ctx context.Context, instanceIDs []string, state ec2types.InstanceStateName, timeout time.Duration) error {
	p := c.policy()
	p.Budget = timeout

	describe := func(ctx context.Context) ([]string, error) {
		out, err := c.EC2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{InstanceIds: instanceIDs})
		if err != nil {
			return nil, err
		}
		var states []string
		for _, reservation := range out.Reservations {
			for _, instance := range reservation.Instances {
				if instance.State == nil {
					states = append(states, "")
					continue
				}
				states = append(states, string(instance.State.Name))
			}
		}
		return states, nil
	}

	return retry.WaitForState(ctx, p, "DescribeInstances", describe, string(state))
}

func ec2Filters(m map[string][]string) []ec2types.Filter {
	filters := cloud.CreateFilters(m)
	out := make([]ec2types.Filter, 0, len(filters))
	for _, f := range filters {
		out = append(out, ec2types.Filter{Name: awssdk.String(f.Name), Values: f.Values})
	}
	return out
}
