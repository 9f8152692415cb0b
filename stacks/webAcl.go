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

package stacks

import (
	elbv2 "github.com/aws/aws-cdk-go/awscdk/v2/awselasticloadbalancingv2"
	wafv2 "github.com/aws/aws-cdk-go/awscdk/v2/awswafv2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type WebAclOutputs struct {
	acl         wafv2.CfnWebACL
	association wafv2.CfnWebACLAssociation
}

// AttachWebAcl builds the regional web ACL and associates it with the
// protected load balancer only. The Common rule set runs at priority 1 with
// the four size-inspection sub-rules excluded (the lab's intentional
// detection gap), the SQL-injection rule set at priority 2.
func AttachWebAcl(scope constructs.Construct, alb elbv2.ApplicationLoadBalancer) WebAclOutputs {
	var excludedRules []interface{}
	for _, name := range SizeInspectionExclusions {
		excludedRules = append(excludedRules, &wafv2.CfnWebACL_ExcludedRuleProperty{
			Name: jsii.String(name),
		})
	}

	acl := wafv2.NewCfnWebACL(scope, jsii.String("WebGoatAcl"), &wafv2.CfnWebACLProps{
		Scope:         jsii.String("REGIONAL"),
		DefaultAction: &wafv2.CfnWebACL_DefaultActionProperty{Allow: &wafv2.CfnWebACL_AllowActionProperty{}},
		VisibilityConfig: &wafv2.CfnWebACL_VisibilityConfigProperty{
			CloudWatchMetricsEnabled: jsii.Bool(true),
			SampledRequestsEnabled:   jsii.Bool(true),
			MetricName:               jsii.String("WebGoatAcl"),
		},
		Rules: []interface{}{
			&wafv2.CfnWebACL_RuleProperty{
				Name:           jsii.String(CommonRuleSet),
				Priority:       jsii.Number(1),
				OverrideAction: &wafv2.CfnWebACL_OverrideActionProperty{None: map[string]interface{}{}},
				Statement: &wafv2.CfnWebACL_StatementProperty{
					ManagedRuleGroupStatement: &wafv2.CfnWebACL_ManagedRuleGroupStatementProperty{
						VendorName:    jsii.String("AWS"),
						Name:          jsii.String(CommonRuleSet),
						ExcludedRules: excludedRules,
					},
				},
				VisibilityConfig: &wafv2.CfnWebACL_VisibilityConfigProperty{
					CloudWatchMetricsEnabled: jsii.Bool(true),
					SampledRequestsEnabled:   jsii.Bool(true),
					MetricName:               jsii.String(CommonRuleSet),
				},
			},
			&wafv2.CfnWebACL_RuleProperty{
				Name:           jsii.String(SqliRuleSet),
				Priority:       jsii.Number(2),
				OverrideAction: &wafv2.CfnWebACL_OverrideActionProperty{None: map[string]interface{}{}},
				Statement: &wafv2.CfnWebACL_StatementProperty{
					ManagedRuleGroupStatement: &wafv2.CfnWebACL_ManagedRuleGroupStatementProperty{
						VendorName: jsii.String("AWS"),
						Name:       jsii.String(SqliRuleSet),
					},
				},
				VisibilityConfig: &wafv2.CfnWebACL_VisibilityConfigProperty{
					CloudWatchMetricsEnabled: jsii.Bool(true),
					SampledRequestsEnabled:   jsii.Bool(true),
					MetricName:               jsii.String(SqliRuleSet),
				},
			},
		},
	})

	association := wafv2.NewCfnWebACLAssociation(scope, jsii.String("WebGoatAclAssociation"), &wafv2.CfnWebACLAssociationProps{
		ResourceArn: alb.LoadBalancerArn(),
		WebAclArn:   acl.AttrArn(),
	})

	// The association must never be created before the ACL exists.
	association.AddDependency(acl)

	return WebAclOutputs{acl: acl, association: association}
}
