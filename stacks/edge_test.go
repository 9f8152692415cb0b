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
	"encoding/json"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// templateDoc is the synthesized template decoded for plain-Go inspection of
// properties the matcher API is clumsy about.
type templateDoc struct {
	Resources map[string]struct {
		Type       string                 `json:"Type"`
		Properties map[string]interface{} `json:"Properties"`
	} `json:"Resources"`
}

func decodeLab(t *testing.T, template assertions.Template) templateDoc {
	t.Helper()

	raw, err := json.Marshal(template.ToJSON())
	require.NoError(t, err)

	var doc templateDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestEdgeParity(t *testing.T) {
	doc := decodeLab(t, synthLab(&WafLabStackProps{}))

	var webGoatGroups, webWolfGroups int
	for _, res := range doc.Resources {
		if res.Type != "AWS::ElasticLoadBalancingV2::TargetGroup" {
			continue
		}
		switch res.Properties["Port"] {
		case float64(WebGoatPort):
			webGoatGroups++
			assert.Equal(t, WebGoatHealthPath, res.Properties["HealthCheckPath"])
			assert.Equal(t, "200-399", res.Properties["Matcher"].(map[string]interface{})["HttpCode"])
		case float64(WebWolfPort):
			webWolfGroups++
			assert.Equal(t, WebWolfHealthPath, res.Properties["HealthCheckPath"])
		}
	}

	// One WebGoat group per balancer, identically configured, plus WebWolf.
	assert.Equal(t, 2, webGoatGroups)
	assert.Equal(t, 1, webWolfGroups)
}

func TestListenerLayout(t *testing.T) {
	doc := decodeLab(t, synthLab(&WafLabStackProps{}))

	listenersByLb := map[string][]float64{}
	for _, res := range doc.Resources {
		if res.Type != "AWS::ElasticLoadBalancingV2::Listener" {
			continue
		}
		lbRef := res.Properties["LoadBalancerArn"].(map[string]interface{})["Ref"].(string)
		listenersByLb[lbRef] = append(listenersByLb[lbRef], res.Properties["Port"].(float64))
	}

	require.Len(t, listenersByLb, 2)

	var sawProtected, sawRaw bool
	for _, ports := range listenersByLb {
		switch len(ports) {
		case 2:
			sawProtected = true
			assert.ElementsMatch(t, []float64{80, WebWolfPort}, ports)
		case 1:
			sawRaw = true
			assert.Equal(t, float64(80), ports[0])
		}
	}
	assert.True(t, sawProtected, "expected a balancer with 80 and 9090 listeners")
	assert.True(t, sawRaw, "expected a balancer with only the 80 listener")
}

func TestWorkloadAcceptsExactlyThreeSources(t *testing.T) {
	doc := decodeLab(t, synthLab(&WafLabStackProps{}))

	var descriptions []string
	for _, res := range doc.Resources {
		if res.Type != "AWS::EC2::SecurityGroupIngress" {
			continue
		}
		descriptions = append(descriptions, res.Properties["Description"].(string))
	}

	// The workload's four rules are the only standalone ingress resources in
	// the template; every other rule renders inline on its group.
	assert.ElementsMatch(t, []string{
		"WebGoat from protected ALB",
		"WebWolf from protected ALB",
		"WebGoat from unprotected ALB",
		"Operator access from bastion",
	}, descriptions)
}

func TestEdgeIngressRestrictedToBastionPrefixList(t *testing.T) {
	template := synthLab(&WafLabStackProps{})

	for _, desc := range []string{"WAF-protected load balancer", "Unprotected load balancer"} {
		template.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroup"), map[string]interface{}{
			"GroupDescription": desc,
			"SecurityGroupIngress": assertions.Match_ArrayWith(&[]interface{}{
				assertions.Match_ObjectLike(&map[string]interface{}{
					"IpProtocol":         "tcp",
					"FromPort":           80,
					"ToPort":             80,
					"SourcePrefixListId": assertions.Match_AnyValue(),
				}),
			}),
		})
	}
}

func TestWebGoatTaskDefinition(t *testing.T) {
	template := synthLab(&WafLabStackProps{})

	template.HasResourceProperties(jsii.String("AWS::ECS::TaskDefinition"), map[string]interface{}{
		"Cpu":    "512",
		"Memory": "1024",
		"ContainerDefinitions": assertions.Match_ArrayWith(&[]interface{}{
			assertions.Match_ObjectLike(&map[string]interface{}{
				"Image": WebGoatImage,
				"PortMappings": &[]interface{}{
					assertions.Match_ObjectLike(&map[string]interface{}{"ContainerPort": WebGoatPort}),
					assertions.Match_ObjectLike(&map[string]interface{}{"ContainerPort": WebWolfPort}),
				},
				"Environment": assertions.Match_ArrayWith(&[]interface{}{
					assertions.Match_ObjectLike(&map[string]interface{}{"Name": "WEBGOAT_HOST"}),
					assertions.Match_ObjectLike(&map[string]interface{}{"Name": "WEBWOLF_HOST"}),
				}),
			}),
		}),
	})

	template.HasResourceProperties(jsii.String("AWS::ECS::Service"), map[string]interface{}{
		"DesiredCount": 1,
		"DeploymentConfiguration": assertions.Match_ObjectLike(&map[string]interface{}{
			"MinimumHealthyPercent": 100,
			"MaximumPercent":        200,
		}),
	})
}
