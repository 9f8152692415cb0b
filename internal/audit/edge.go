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
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"

	"waflab/stacks"
)

// Edges holds the resolved ARNs of the two balancers.
type Edges struct {
	WafAlbArn string
	RawAlbArn string
}

// ResolveEdges maps the stack's DNS-name outputs back to balancer ARNs.
func ResolveEdges(ctx context.Context, clients *Clients, outputs StackOutputs) (Edges, error) {
	var edges Edges

	paginator := elasticloadbalancingv2.NewDescribeLoadBalancersPaginator(
		clients.Elb(),
		&elasticloadbalancingv2.DescribeLoadBalancersInput{},
	)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return edges, fmt.Errorf("failed to describe load balancers: %w", err)
		}
		for _, lb := range page.LoadBalancers {
			switch strings.ToLower(aws.ToString(lb.DNSName)) {
			case strings.ToLower(outputs.WafAlbDns):
				edges.WafAlbArn = aws.ToString(lb.LoadBalancerArn)
			case strings.ToLower(outputs.RawAlbDns):
				edges.RawAlbArn = aws.ToString(lb.LoadBalancerArn)
			}
		}
	}

	if edges.WafAlbArn == "" || edges.RawAlbArn == "" {
		return edges, fmt.Errorf("could not resolve both balancers from stack outputs")
	}
	return edges, nil
}

// CheckEdge verifies that both edges expose the same application: identical
// WebGoat forwarding on port 80, with the WebWolf listener only on the
// protected side.
func CheckEdge(ctx context.Context, clients *Clients, outputs StackOutputs) (Report, error) {
	var report Report

	edges, err := ResolveEdges(ctx, clients, outputs)
	if err != nil {
		return report, err
	}

	wafListeners, err := describeListeners(ctx, clients, edges.WafAlbArn)
	if err != nil {
		return report, err
	}
	rawListeners, err := describeListeners(ctx, clients, edges.RawAlbArn)
	if err != nil {
		return report, err
	}
	report.Merge(EvaluateListeners(wafListeners, rawListeners))

	wafGroups, err := describeTargetGroups(ctx, clients, edges.WafAlbArn)
	if err != nil {
		return report, err
	}
	rawGroups, err := describeTargetGroups(ctx, clients, edges.RawAlbArn)
	if err != nil {
		return report, err
	}
	report.Merge(EvaluateTargetGroups(wafGroups, rawGroups))

	return report, nil
}

func describeListeners(ctx context.Context, clients *Clients, lbArn string) ([]elbv2types.Listener, error) {
	resp, err := clients.Elb().DescribeListeners(ctx, &elasticloadbalancingv2.DescribeListenersInput{
		LoadBalancerArn: aws.String(lbArn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe listeners for %s: %w", lbArn, err)
	}
	return resp.Listeners, nil
}

func describeTargetGroups(ctx context.Context, clients *Clients, lbArn string) ([]elbv2types.TargetGroup, error) {
	resp, err := clients.Elb().DescribeTargetGroups(ctx, &elasticloadbalancingv2.DescribeTargetGroupsInput{
		LoadBalancerArn: aws.String(lbArn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe target groups for %s: %w", lbArn, err)
	}
	return resp.TargetGroups, nil
}

// EvaluateListeners checks the listener layout of both edges.
func EvaluateListeners(wafListeners, rawListeners []elbv2types.Listener) Report {
	var report Report

	wafPorts := listenerPorts(wafListeners)
	if wafPorts[80] && wafPorts[int32(stacks.WebWolfPort)] && len(wafPorts) == 2 {
		report.ok("edge.listeners", "protected", "listeners on 80 and 9090")
	} else {
		report.fail("edge.listeners", "protected", fmt.Sprintf("listener ports %v, want [80 9090]", portList(wafPorts)))
	}

	rawPorts := listenerPorts(rawListeners)
	if rawPorts[80] && len(rawPorts) == 1 {
		report.ok("edge.listeners", "raw", "single listener on 80")
	} else {
		report.fail("edge.listeners", "raw", fmt.Sprintf("listener ports %v, want [80]", portList(rawPorts)))
	}

	return report
}

// EvaluateTargetGroups checks that each edge forwards to an identically
// configured WebGoat group.
func EvaluateTargetGroups(wafGroups, rawGroups []elbv2types.TargetGroup) Report {
	var report Report

	wafGoat := groupOnPort(wafGroups, int32(stacks.WebGoatPort))
	rawGoat := groupOnPort(rawGroups, int32(stacks.WebGoatPort))

	switch {
	case wafGoat == nil:
		report.fail("edge.parity", "protected", "no WebGoat target group")
	case rawGoat == nil:
		report.fail("edge.parity", "raw", "no WebGoat target group")
	case aws.ToString(wafGoat.HealthCheckPath) != aws.ToString(rawGoat.HealthCheckPath):
		report.fail("edge.parity", "both", fmt.Sprintf("health check paths diverge: %s vs %s",
			aws.ToString(wafGoat.HealthCheckPath), aws.ToString(rawGoat.HealthCheckPath)))
	case aws.ToString(wafGoat.HealthCheckPath) != stacks.WebGoatHealthPath:
		report.fail("edge.parity", "both", "health check path is "+aws.ToString(wafGoat.HealthCheckPath))
	default:
		report.ok("edge.parity", "both", "WebGoat groups match on port and health check")
	}

	if wolf := groupOnPort(wafGroups, int32(stacks.WebWolfPort)); wolf == nil {
		report.fail("edge.webwolf", "protected", "no WebWolf target group")
	} else {
		report.ok("edge.webwolf", "protected", "WebWolf group on "+fmt.Sprint(stacks.WebWolfPort))
	}

	return report
}

func listenerPorts(listeners []elbv2types.Listener) map[int32]bool {
	ports := map[int32]bool{}
	for _, l := range listeners {
		ports[aws.ToInt32(l.Port)] = true
	}
	return ports
}

func portList(ports map[int32]bool) []int32 {
	out := make([]int32, 0, len(ports))
	for p := range ports {
		out = append(out, p)
	}
	return out
}

func groupOnPort(groups []elbv2types.TargetGroup, port int32) *elbv2types.TargetGroup {
	for i := range groups {
		if aws.ToInt32(groups[i].Port) == port {
			return &groups[i]
		}
	}
	return nil
}
