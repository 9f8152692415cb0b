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
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	waftypes "github.com/aws/aws-sdk-go-v2/service/wafv2/types"
	"github.com/aws/smithy-go"

	"waflab/stacks"
)

// CheckWebAcl verifies the web ACL placement: the protected balancer carries
// the ACL with its intentional size-inspection gap, the unprotected one
// carries none.
func CheckWebAcl(ctx context.Context, clients *Clients, outputs StackOutputs) (Report, error) {
	var report Report

	edges, err := ResolveEdges(ctx, clients, outputs)
	if err != nil {
		return report, err
	}

	acl, err := webAclForResource(ctx, clients, edges.WafAlbArn)
	if err != nil {
		return report, err
	}
	if acl == nil {
		report.fail("waf.association", edges.WafAlbArn, "protected balancer has no web ACL")
	} else {
		report.ok("waf.association", edges.WafAlbArn, "web ACL "+aws.ToString(acl.Name)+" attached")
		report.Merge(EvaluateWebAcl(acl))
	}

	rawAcl, err := webAclForResource(ctx, clients, edges.RawAlbArn)
	if err != nil {
		return report, err
	}
	if rawAcl != nil {
		report.fail("waf.raw-edge", edges.RawAlbArn, "unprotected balancer unexpectedly carries web ACL "+aws.ToString(rawAcl.Name))
	} else {
		report.ok("waf.raw-edge", edges.RawAlbArn, "no web ACL attached")
	}

	return report, nil
}

// webAclForResource fetches the ACL on an ALB; no association is a valid
// answer, not an error.
func webAclForResource(ctx context.Context, clients *Clients, arn string) (*waftypes.WebACL, error) {
	resp, err := clients.Waf().GetWebACLForResource(ctx, &wafv2.GetWebACLForResourceInput{
		ResourceArn: aws.String(arn),
	})
	if err != nil {
		if isNonexistentItem(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get web ACL for %s: %w", arn, err)
	}
	return resp.WebACL, nil
}

func isNonexistentItem(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "WAFNonexistentItemException"
}

// EvaluateWebAcl checks the ACL's rule layout. The four disabled
// size-inspection rules are load-bearing for the training scenario; a
// hardened ACL is reported as a failure, not an improvement.
func EvaluateWebAcl(acl *waftypes.WebACL) Report {
	var report Report
	name := aws.ToString(acl.Name)

	common := managedRule(acl.Rules, stacks.CommonRuleSet)
	if common == nil {
		report.fail("waf.common-rules", name, stacks.CommonRuleSet+" is not present")
	} else {
		if common.Priority != 1 {
			report.fail("waf.common-rules", name, fmt.Sprintf("%s has priority %d, want 1", stacks.CommonRuleSet, common.Priority))
		} else {
			report.ok("waf.common-rules", name, stacks.CommonRuleSet+" at priority 1")
		}
		report.Merge(evaluateDetectionGap(name, common))
	}

	sqli := managedRule(acl.Rules, stacks.SqliRuleSet)
	switch {
	case sqli == nil:
		report.fail("waf.sqli-rules", name, stacks.SqliRuleSet+" is not present")
	case sqli.Priority != 2:
		report.fail("waf.sqli-rules", name, fmt.Sprintf("%s has priority %d, want 2", stacks.SqliRuleSet, sqli.Priority))
	default:
		report.ok("waf.sqli-rules", name, stacks.SqliRuleSet+" at priority 2")
	}

	return report
}

func evaluateDetectionGap(aclName string, rule *waftypes.Rule) Report {
	var report Report

	excluded := map[string]bool{}
	for _, ex := range rule.Statement.ManagedRuleGroupStatement.ExcludedRules {
		excluded[aws.ToString(ex.Name)] = true
	}

	var missing []string
	for _, want := range stacks.SizeInspectionExclusions {
		if !excluded[want] {
			missing = append(missing, want)
		}
		delete(excluded, want)
	}

	var extra []string
	for name := range excluded {
		extra = append(extra, name)
	}

	switch {
	case len(missing) > 0:
		report.fail("waf.detection-gap", aclName, "size-inspection rules re-enabled: "+strings.Join(missing, ", "))
	case len(extra) > 0:
		report.fail("waf.detection-gap", aclName, "unexpected excluded rules: "+strings.Join(extra, ", "))
	default:
		report.ok("waf.detection-gap", aclName, "exactly the four size-inspection rules are disabled")
	}

	return report
}

// managedRule finds the rule wrapping the named AWS managed rule group.
func managedRule(rules []waftypes.Rule, groupName string) *waftypes.Rule {
	for i := range rules {
		stmt := rules[i].Statement
		if stmt == nil || stmt.ManagedRuleGroupStatement == nil {
			continue
		}
		if aws.ToString(stmt.ManagedRuleGroupStatement.Name) == groupName {
			return &rules[i]
		}
	}
	return nil
}
