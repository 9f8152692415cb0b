// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.

// Permission is hereby granted, free of charge, to any person obtaining a copy of this
// software and associated documentation files (the "Software"), to deal in the Software
// without restriction, including without limitation the rights to use, copy, modify,
// merge, publish, distribute, sublicense, and/or sell copies of the Software, and to
// permit persons to whom the Software is furnished to do so.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED,
// INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A
// PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
// OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
// SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package audit

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"waflab/stacks"
)

// CheckNetwork verifies the security group chain of a deployed stack: bastion
// ingress limited to SSH-on-443 from allow-listed sources, edges reachable
// only through the bastion prefix list, and the workload accepting exactly
// its three upstream groups.
func CheckNetwork(ctx context.Context, clients *Clients, stackName string) (Report, error) {
	var report Report

	groups, err := stackSecurityGroups(ctx, clients, stackName)
	if err != nil {
		return report, err
	}

	for _, sg := range groups {
		switch aws.ToString(sg.Description) {
		case stacks.BastionSgDescription:
			report.Merge(EvaluateBastionGroup(sg))
		case stacks.WafAlbSgDescription, stacks.RawAlbSgDescription:
			report.Merge(EvaluateEdgeGroup(sg))
		case stacks.WorkloadSgDescription:
			report.Merge(EvaluateWorkloadGroup(sg))
		}
	}

	return report, nil
}

// stackSecurityGroups lists the stack's security groups via its resource tree.
func stackSecurityGroups(ctx context.Context, clients *Clients, stackName string) ([]ec2types.SecurityGroup, error) {
	resources, err := clients.Cfn().DescribeStackResources(ctx, &cloudformation.DescribeStackResourcesInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe resources of stack %s: %w", stackName, err)
	}

	var groupIds []string
	for _, res := range resources.StackResources {
		if aws.ToString(res.ResourceType) == "AWS::EC2::SecurityGroup" {
			groupIds = append(groupIds, aws.ToString(res.PhysicalResourceId))
		}
	}
	if len(groupIds) == 0 {
		return nil, fmt.Errorf("stack %s has no security groups", stackName)
	}

	resp, err := clients.Ec2().DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		GroupIds: groupIds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe security groups: %w", err)
	}
	return resp.SecurityGroups, nil
}

// EvaluateBastionGroup checks the operator entry point. An empty rule set is
// the fail-closed state and passes; any rule that is not TCP 443 from a CIDR
// or prefix list fails.
func EvaluateBastionGroup(sg ec2types.SecurityGroup) Report {
	var report Report
	id := aws.ToString(sg.GroupId)

	if len(sg.IpPermissions) == 0 {
		report.ok("network.bastion", id, "no ingress rules, bastion fails closed")
		return report
	}

	for _, perm := range sg.IpPermissions {
		if aws.ToString(perm.IpProtocol) != "tcp" ||
			aws.ToInt32(perm.FromPort) != int32(stacks.BastionSSHPort) ||
			aws.ToInt32(perm.ToPort) != int32(stacks.BastionSSHPort) {
			report.fail("network.bastion", id, fmt.Sprintf("ingress beyond tcp/%d: %s %d-%d",
				stacks.BastionSSHPort, aws.ToString(perm.IpProtocol), aws.ToInt32(perm.FromPort), aws.ToInt32(perm.ToPort)))
			return report
		}
		for _, r := range perm.IpRanges {
			if cidr := aws.ToString(r.CidrIp); !isHostCidr(cidr) {
				report.fail("network.bastion", id, "ingress source wider than a host: "+cidr)
				return report
			}
		}
	}

	report.ok("network.bastion", id, fmt.Sprintf("ingress limited to tcp/%d from allow-listed sources", stacks.BastionSSHPort))
	return report
}

// EvaluateEdgeGroup checks that a balancer group sources all ingress from a
// managed prefix list, never from raw CIDR ranges.
func EvaluateEdgeGroup(sg ec2types.SecurityGroup) Report {
	var report Report
	id := aws.ToString(sg.GroupId)

	if len(sg.IpPermissions) == 0 {
		report.fail("network.edge", id, "balancer group has no ingress at all")
		return report
	}

	for _, perm := range sg.IpPermissions {
		if len(perm.PrefixListIds) == 0 {
			report.fail("network.edge", id, "ingress rule without a prefix list source")
			return report
		}
		if len(perm.IpRanges) > 0 || len(perm.Ipv6Ranges) > 0 {
			report.fail("network.edge", id, "ingress rule with a raw CIDR source")
			return report
		}
	}

	report.ok("network.edge", id, "all ingress sourced from the bastion prefix list")
	return report
}

// EvaluateWorkloadGroup checks the service group: every rule sources from
// another security group, and exactly three distinct groups appear.
func EvaluateWorkloadGroup(sg ec2types.SecurityGroup) Report {
	var report Report
	id := aws.ToString(sg.GroupId)

	sources := map[string]bool{}
	for _, perm := range sg.IpPermissions {
		if len(perm.IpRanges) > 0 || len(perm.Ipv6Ranges) > 0 || len(perm.PrefixListIds) > 0 {
			report.fail("network.workload", id, "ingress rule with a non-group source")
			return report
		}
		for _, pair := range perm.UserIdGroupPairs {
			sources[aws.ToString(pair.GroupId)] = true
		}
	}

	if len(sources) != 3 {
		report.fail("network.workload", id, fmt.Sprintf("%d distinct source groups, want 3", len(sources)))
		return report
	}

	report.ok("network.workload", id, "ingress from exactly the two balancers and the bastion")
	return report
}

func isHostCidr(cidr string) bool {
	return len(cidr) > 3 && cidr[len(cidr)-3:] == "/32"
}
