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
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	waftypes "github.com/aws/aws-sdk-go-v2/service/wafv2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"

	"waflab/stacks"
)

func labWebAcl(excluded []string) *waftypes.WebACL {
	var exclusions []waftypes.ExcludedRule
	for _, name := range excluded {
		exclusions = append(exclusions, waftypes.ExcludedRule{Name: aws.String(name)})
	}

	return &waftypes.WebACL{
		Name: aws.String("LabAcl"),
		Rules: []waftypes.Rule{
			{
				Name:     aws.String(stacks.CommonRuleSet),
				Priority: 1,
				Statement: &waftypes.Statement{
					ManagedRuleGroupStatement: &waftypes.ManagedRuleGroupStatement{
						VendorName:    aws.String("AWS"),
						Name:          aws.String(stacks.CommonRuleSet),
						ExcludedRules: exclusions,
					},
				},
			},
			{
				Name:     aws.String(stacks.SqliRuleSet),
				Priority: 2,
				Statement: &waftypes.Statement{
					ManagedRuleGroupStatement: &waftypes.ManagedRuleGroupStatement{
						VendorName: aws.String("AWS"),
						Name:       aws.String(stacks.SqliRuleSet),
					},
				},
			},
		},
	}
}

func TestEvaluateWebAclAccepts(t *testing.T) {
	report := EvaluateWebAcl(labWebAcl(stacks.SizeInspectionExclusions))

	assert.False(t, report.Failed())
	assert.Len(t, report.Findings, 3)
}

func TestEvaluateWebAclRejectsHardenedAcl(t *testing.T) {
	// An operator "fixing" the gap by re-enabling BODY inspection must fail
	// the audit, since the lab depends on the blind spot.
	hardened := []string{
		"SizeRestrictions_QUERYSTRING",
		"SizeRestrictions_Cookie_HEADER",
		"SizeRestrictions_URIPATH",
	}
	report := EvaluateWebAcl(labWebAcl(hardened))

	assert.True(t, report.Failed())
	var gap Finding
	for _, f := range report.Findings {
		if f.Check == "waf.detection-gap" {
			gap = f
		}
	}
	assert.Equal(t, StatusFail, gap.Status)
	assert.Contains(t, gap.Detail, "SizeRestrictions_BODY")
}

func TestEvaluateWebAclRejectsExtraExclusions(t *testing.T) {
	widened := append([]string{"NoUserAgent_HEADER"}, stacks.SizeInspectionExclusions...)
	report := EvaluateWebAcl(labWebAcl(widened))

	assert.True(t, report.Failed())
}

func TestEvaluateWebAclRejectsWrongPriorities(t *testing.T) {
	acl := labWebAcl(stacks.SizeInspectionExclusions)
	acl.Rules[0].Priority = 2
	acl.Rules[1].Priority = 1

	report := EvaluateWebAcl(acl)
	assert.True(t, report.Failed())
}

func TestEvaluateWebAclRejectsMissingSqliRules(t *testing.T) {
	acl := labWebAcl(stacks.SizeInspectionExclusions)
	acl.Rules = acl.Rules[:1]

	report := EvaluateWebAcl(acl)
	assert.True(t, report.Failed())
}

func TestIsNonexistentItem(t *testing.T) {
	notAssociated := &smithy.GenericAPIError{Code: "WAFNonexistentItemException"}
	assert.True(t, isNonexistentItem(notAssociated))

	throttled := &smithy.GenericAPIError{Code: "ThrottlingException"}
	assert.False(t, isNonexistentItem(throttled))
	assert.False(t, isNonexistentItem(errors.New("dial tcp: timeout")))
}
