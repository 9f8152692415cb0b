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
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type WafLabStackProps struct {
	awscdk.StackProps
	// AllowedIP and AllowedPrefixList are the only operator inputs. Both are
	// optional; with neither set the bastion has no ingress at all.
	AllowedIP         string
	AllowedPrefixList string
}

type WafLabStackOutputs struct {
	awscdk.Stack
	wafAlbDnsName *string
	rawAlbDnsName *string
	bastionIp     *string
}

// NewWafLabStack assembles the whole training lab: network, bastion access
// path, WebGoat workload, the protected/unprotected edge pair, and the web
// ACL with its intentional detection gap.
func NewWafLabStack(scope constructs.Construct, id string, props *WafLabStackProps) WafLabStackOutputs {
	var sprops awscdk.StackProps
	if props != nil {
		sprops = props.StackProps
	}

	stack := awscdk.NewStack(scope, &id, &sprops)

	vpc := LabVpc(stack)

	var bprops BastionProps
	if props != nil {
		bprops = BastionProps{
			AllowedIP:         props.AllowedIP,
			AllowedPrefixList: props.AllowedPrefixList,
		}
	}
	bastion := BastionHost(stack, vpc, &bprops)

	edge := EdgeLayer(stack, vpc, bastion.PrefixList())

	WebGoatService(stack, vpc, &edge, bastion.SecurityGroup())

	AttachWebAcl(stack, edge.WafAlb())

	awscdk.NewCfnOutput(stack, jsii.String("WafAlbDnsName"), &awscdk.CfnOutputProps{
		Value:       edge.WafAlb().LoadBalancerDnsName(),
		Description: jsii.String("WebGoat behind the web ACL"),
	})
	awscdk.NewCfnOutput(stack, jsii.String("RawAlbDnsName"), &awscdk.CfnOutputProps{
		Value:       edge.RawAlb().LoadBalancerDnsName(),
		Description: jsii.String("WebGoat with no web ACL"),
	})
	awscdk.NewCfnOutput(stack, jsii.String("BastionPublicIp"), &awscdk.CfnOutputProps{
		Value:       bastion.PublicIp(),
		Description: jsii.String("Bastion elastic IP, sshd on 443"),
	})

	var outputs WafLabStackOutputs
	outputs.Stack = stack
	outputs.wafAlbDnsName = edge.WafAlb().LoadBalancerDnsName()
	outputs.rawAlbDnsName = edge.RawAlb().LoadBalancerDnsName()
	outputs.bastionIp = bastion.PublicIp()

	return outputs
}
