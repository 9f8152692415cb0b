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
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/assert"
)

func TestWebAclKeepsSizeInspectionGap(t *testing.T) {
	template := synthLab(&WafLabStackProps{})

	// The excluded-rule list must be exactly the four size-inspection rules,
	// in order; anything else breaks the training scenario.
	excluded := make([]interface{}, 0, len(SizeInspectionExclusions))
	for _, name := range SizeInspectionExclusions {
		excluded = append(excluded, map[string]interface{}{"Name": name})
	}
	assert.Len(t, excluded, 4)

	template.HasResourceProperties(jsii.String("AWS::WAFv2::WebACL"), map[string]interface{}{
		"Scope":         "REGIONAL",
		"DefaultAction": map[string]interface{}{"Allow": map[string]interface{}{}},
		"Rules": assertions.Match_ArrayWith(&[]interface{}{
			assertions.Match_ObjectLike(&map[string]interface{}{
				"Priority": 1,
				"Statement": assertions.Match_ObjectLike(&map[string]interface{}{
					"ManagedRuleGroupStatement": assertions.Match_ObjectLike(&map[string]interface{}{
						"VendorName":    "AWS",
						"Name":          CommonRuleSet,
						"ExcludedRules": &excluded,
					}),
				}),
			}),
		}),
	})
}

func TestWebAclRulePriorities(t *testing.T) {
	template := synthLab(&WafLabStackProps{})

	template.HasResourceProperties(jsii.String("AWS::WAFv2::WebACL"), map[string]interface{}{
		"Rules": assertions.Match_ArrayWith(&[]interface{}{
			assertions.Match_ObjectLike(&map[string]interface{}{
				"Priority": 2,
				"Statement": assertions.Match_ObjectLike(&map[string]interface{}{
					"ManagedRuleGroupStatement": assertions.Match_ObjectLike(&map[string]interface{}{
						"VendorName": "AWS",
						"Name":       SqliRuleSet,
					}),
				}),
			}),
		}),
	})
}

func TestAssociationCoversProtectedAlbOnly(t *testing.T) {
	template := synthLab(&WafLabStackProps{})

	template.ResourceCountIs(jsii.String("AWS::WAFv2::WebACLAssociation"), jsii.Number(1))

	// The association resolves the ACL ARN through GetAtt, so creation can
	// only happen after the ACL exists.
	associated := assertions.NewCapture(nil)
	template.HasResourceProperties(jsii.String("AWS::WAFv2::WebACLAssociation"), map[string]interface{}{
		"WebACLArn":   map[string]interface{}{"Fn::GetAtt": assertions.Match_ArrayWith(&[]interface{}{"Arn"})},
		"ResourceArn": map[string]interface{}{"Ref": associated},
	})

	// The associated balancer is the one carrying the 9090 listener.
	listenerLb := assertions.NewCapture(nil)
	template.HasResourceProperties(jsii.String("AWS::ElasticLoadBalancingV2::Listener"), map[string]interface{}{
		"Port":            WebWolfPort,
		"LoadBalancerArn": map[string]interface{}{"Ref": listenerLb},
	})

	assert.Equal(t, *listenerLb.AsString(), *associated.AsString())
}
