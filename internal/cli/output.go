package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const timeLayout = "2006-01-02 15:04:05"

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func writeObjects(w io.Writer, bucket string, objects []s3types.Object) error {
	t := newTable("KEY", "SIZE", "LAST MODIFIED")
	for _, o := range objects {
		uri := fmt.Sprintf("s3://%s/%s", bucket, awssdk.ToString(o.Key))
		modified := ""
		if o.LastModified != nil {
			modified = o.LastModified.UTC().Format(timeLayout)
		}
		t.Row(uri, strconv.FormatInt(awssdk.ToInt64(o.Size), 10), modified)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func writeInstances(w io.Writer, instances []ec2types.Instance) error {
	t := newTable("INSTANCE", "STATE", "AMI", "PRIVATE IP", "NAME")
	for _, i := range instances {
		state := ""
		if i.State != nil {
			state = string(i.State.Name)
		}
		name := ""
		for _, tag := range i.Tags {
			if awssdk.ToString(tag.Key) == "Name" {
				name = awssdk.ToString(tag.Value)
			}
		}
		t.Row(awssdk.ToString(i.InstanceId), state, awssdk.ToString(i.ImageId), awssdk.ToString(i.PrivateIpAddress), name)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// writeParameters prints name=value lines ordered by name.
func writeParameters(w io.Writer, params map[string]string) error {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s=%s\n", name, params[name]); err != nil {
			return err
		}
	}
	return nil
}

// writeCredentials prints shell exports so the output can be eval'd.
func writeCredentials(w io.Writer, creds *ststypes.Credentials) error {
	_, err := fmt.Fprintf(w, "export AWS_ACCESS_KEY_ID=%s\nexport AWS_SECRET_ACCESS_KEY=%s\nexport AWS_SESSION_TOKEN=%s\n",
		awssdk.ToString(creds.AccessKeyId),
		awssdk.ToString(creds.SecretAccessKey),
		awssdk.ToString(creds.SessionToken),
	)
	return err
}

// writeItems prints one row per Spotinst item with the given fields as columns.
func writeItems(w io.Writer, items []map[string]any, fields ...string) error {
	t := newTable(fields...)
	for _, item := range items {
		row := make([]string, len(fields))
		for i, f := range fields {
			if v, ok := item[f]; ok && v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		t.Row(row...)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
