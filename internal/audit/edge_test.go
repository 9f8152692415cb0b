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
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/stretchr/testify/assert"
)

func listeners(ports ...int32) []elbv2types.Listener {
	out := make([]elbv2types.Listener, 0, len(ports))
	for _, p := range ports {
		out = append(out, elbv2types.Listener{Port: aws.Int32(p)})
	}
	return out
}

func targetGroup(port int32, healthPath string) elbv2types.TargetGroup {
	return elbv2types.TargetGroup{
		Port:            aws.Int32(port),
		HealthCheckPath: aws.String(healthPath),
	}
}

func TestEvaluateListenersAccepts(t *testing.T) {
	report := EvaluateListeners(listeners(80, 9090), listeners(80))
	assert.False(t, report.Failed())
}

func TestEvaluateListenersRejectsMissingWebWolf(t *testing.T) {
	report := EvaluateListeners(listeners(80), listeners(80))
	assert.True(t, report.Failed())
}

func TestEvaluateListenersRejectsExtraRawListener(t *testing.T) {
	report := EvaluateListeners(listeners(80, 9090), listeners(80, 9090))
	assert.True(t, report.Failed())
}

func TestEvaluateTargetGroupsAccepts(t *testing.T) {
	wafGroups := []elbv2types.TargetGroup{
		targetGroup(8080, "/WebGoat/login"),
		targetGroup(9090, "/WebWolf/login"),
	}
	rawGroups := []elbv2types.TargetGroup{
		targetGroup(8080, "/WebGoat/login"),
	}

	report := EvaluateTargetGroups(wafGroups, rawGroups)
	assert.False(t, report.Failed())
}

func TestEvaluateTargetGroupsRejectsDivergedHealthChecks(t *testing.T) {
	wafGroups := []elbv2types.TargetGroup{
		targetGroup(8080, "/WebGoat/login"),
		targetGroup(9090, "/WebWolf/login"),
	}
	rawGroups := []elbv2types.TargetGroup{
		targetGroup(8080, "/"),
	}

	report := EvaluateTargetGroups(wafGroups, rawGroups)
	assert.True(t, report.Failed())
}

func TestEvaluateTargetGroupsRejectsMissingWebGoatGroup(t *testing.T) {
	wafGroups := []elbv2types.TargetGroup{
		targetGroup(9090, "/WebWolf/login"),
	}
	rawGroups := []elbv2types.TargetGroup{
		targetGroup(8080, "/WebGoat/login"),
	}

	report := EvaluateTargetGroups(wafGroups, rawGroups)
	assert.True(t, report.Failed())
}
