package spotinst

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/amplify-education/awsutils-go/pkg/retry"
)

const groupPath = "aws/ec2/group"

// Group is an Elastigroup as returned by the API. The schema is large and
// versioned by Spotinst, so it is kept as decoded JSON.
type Group = map[string]any

// RollRequest starts a blue/green replacement of a group's instances.
type RollRequest struct {
	// BatchSizePercentage is the share of the group replaced per batch.
	BatchSizePercentage int `json:"batchSizePercentage"`
	// GracePeriod is the number of seconds new instances get to pass health checks.
	GracePeriod int `json:"gracePeriod"`
	// HealthCheckType is one of ELB, TARGET_GROUP, MLB, HCS, EC2 or NONE.
	HealthCheckType string       `json:"healthCheckType"`
	Strategy        RollStrategy `json:"strategy"`
}

type RollStrategy struct {
	Action string `json:"action"`
}

// CreateGroup creates an Elastigroup from config and returns it.
func (c *Client) CreateGroup(ctx context.Context, config map[string]any) (Group, error) {
	items, err := c.request(ctx, "POST", groupPath, config)
	if err != nil {
		return nil, err
	}
	return firstItem(items, "create group")
}

// UpdateGroup applies config to an existing group.
func (c *Client) UpdateGroup(ctx context.Context, groupID string, config map[string]any) error {
	_, err := c.request(ctx, "PUT", groupPath+"/"+groupID, config)
	return err
}

// GetGroup returns a single group.
func (c *Client) GetGroup(ctx context.Context, groupID string) (Group, error) {
	items, err := c.request(ctx, "GET", groupPath+"/"+groupID, nil)
	if err != nil {
		return nil, err
	}
	return firstItem(items, "group "+groupID)
}

// GetGroups returns every group in the account.
func (c *Client) GetGroups(ctx context.Context) ([]Group, error) {
	return c.request(ctx, "GET", groupPath, nil)
}

// DeleteGroup deletes a group.
func (c *Client) DeleteGroup(ctx context.Context, groupID string) error {
	_, err := c.request(ctx, "DELETE", groupPath+"/"+groupID, nil)
	return err
}

// GetInstancesInGroup returns the status of every instance in a group.
func (c *Client) GetInstancesInGroup(ctx context.Context, groupID string) ([]map[string]any, error) {
	return c.request(ctx, "GET", groupPath+"/"+groupID+"/status", nil)
}

// RollGroup replaces the group's instances in batches of batchPercentage percent.
func (c *Client) RollGroup(ctx context.Context, groupID string, batchPercentage, gracePeriod int, healthCheckType string) error {
	roll := RollRequest{
		BatchSizePercentage: batchPercentage,
		GracePeriod:         gracePeriod,
		HealthCheckType:     healthCheckType,
		Strategy:            RollStrategy{Action: "REPLACE_SERVER"},
	}

	c.logger().Info("Rolling group", "group_id", groupID, "batch_percentage", batchPercentage, "health_check", healthCheckType)
	_, err := c.request(ctx, "PUT", groupPath+"/"+groupID+"/roll", roll)
	return err
}

// GetDeployments returns the group's current and past rolls, oldest first.
func (c *Client) GetDeployments(ctx context.Context, groupID string) ([]map[string]any, error) {
	deployments, err := c.request(ctx, "GET", groupPath+"/"+groupID+"/roll", nil)
	if err != nil {
		return nil, err
	}

	// createdAt is an ISO-8601 timestamp, so string order is time order.
	slices.SortStableFunc(deployments, func(a, b map[string]any) int {
		return strings.Compare(fmt.Sprint(a["createdAt"]), fmt.Sprint(b["createdAt"]))
	})
	return deployments, nil
}

// GetRollStatus returns a single deployment of a group.
func (c *Client) GetRollStatus(ctx context.Context, groupID, deployID string) (map[string]any, error) {
	items, err := c.request(ctx, "GET", groupPath+"/"+groupID+"/roll/"+deployID, nil)
	if err != nil {
		return nil, err
	}
	return firstItem(items, "deployment "+deployID)
}

// GetGroupInstancesHealth returns the health of every instance in a group.
func (c *Client) GetGroupInstancesHealth(ctx context.Context, groupID string) ([]map[string]any, error) {
	return c.request(ctx, "GET", groupPath+"/"+groupID+"/instanceHealthiness", nil)
}

func firstItem(items []map[string]any, what string) (map[string]any, error) {
	if len(items) == 0 {
		return nil, &retry.Error{Kind: retry.KindAPI, Message: what + ": response contained no items"}
	}
	return items[0], nil
}
