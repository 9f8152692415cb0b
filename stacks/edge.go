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
	ec2 "github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	elbv2 "github.com/aws/aws-cdk-go/awscdk/v2/awselasticloadbalancingv2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// EdgeOutputs carries the two load balancers and the three target groups the
// workload registers against. The pair differs only in WAF association, which
// is attached later; everything here is deliberately symmetric.
type EdgeOutputs struct {
	wafAlb   elbv2.ApplicationLoadBalancer
	rawAlb   elbv2.ApplicationLoadBalancer
	wafAlbSg ec2.SecurityGroup
	rawAlbSg ec2.SecurityGroup

	webGoatWafTg elbv2.ApplicationTargetGroup
	webGoatRawTg elbv2.ApplicationTargetGroup
	webWolfTg    elbv2.ApplicationTargetGroup
}

func (o *EdgeOutputs) WafAlb() elbv2.ApplicationLoadBalancer { return o.wafAlb }
func (o *EdgeOutputs) RawAlb() elbv2.ApplicationLoadBalancer { return o.rawAlb }
func (o *EdgeOutputs) WafAlbSg() ec2.SecurityGroup           { return o.wafAlbSg }
func (o *EdgeOutputs) RawAlbSg() ec2.SecurityGroup           { return o.rawAlbSg }

// EdgeLayer creates the protected and unprotected load balancers. Both only
// accept traffic from the bastion's allow-listed egress address, so the lab
// is never open to the wider internet even on the raw path.
func EdgeLayer(scope constructs.Construct, vpc ec2.Vpc, bastionPl ec2.CfnPrefixList) EdgeOutputs {
	bastionPeer := ec2.Peer_PrefixList(bastionPl.AttrPrefixListId())

	wafAlbSg := ec2.NewSecurityGroup(scope, jsii.String("WafAlbSG"), &ec2.SecurityGroupProps{
		Vpc:              vpc,
		Description:      jsii.String(WafAlbSgDescription),
		AllowAllOutbound: jsii.Bool(true),
	})
	wafAlbSg.AddIngressRule(bastionPeer, ec2.Port_Tcp(jsii.Number(80)), jsii.String("WebGoat from bastion egress"), nil)
	wafAlbSg.AddIngressRule(bastionPeer, ec2.Port_Tcp(jsii.Number(WebWolfPort)), jsii.String("WebWolf from bastion egress"), nil)

	rawAlbSg := ec2.NewSecurityGroup(scope, jsii.String("RawAlbSG"), &ec2.SecurityGroupProps{
		Vpc:              vpc,
		Description:      jsii.String(RawAlbSgDescription),
		AllowAllOutbound: jsii.Bool(true),
	})
	rawAlbSg.AddIngressRule(bastionPeer, ec2.Port_Tcp(jsii.Number(80)), jsii.String("WebGoat from bastion egress"), nil)

	wafAlb := elbv2.NewApplicationLoadBalancer(scope, jsii.String("WafAlb"), &elbv2.ApplicationLoadBalancerProps{
		Vpc:            vpc,
		InternetFacing: jsii.Bool(true),
		SecurityGroup:  wafAlbSg,
		VpcSubnets:     &ec2.SubnetSelection{SubnetType: ec2.SubnetType_PUBLIC},
	})

	rawAlb := elbv2.NewApplicationLoadBalancer(scope, jsii.String("RawAlb"), &elbv2.ApplicationLoadBalancerProps{
		Vpc:            vpc,
		InternetFacing: jsii.Bool(true),
		SecurityGroup:  rawAlbSg,
		VpcSubnets:     &ec2.SubnetSelection{SubnetType: ec2.SubnetType_PUBLIC},
	})

	webGoatWafTg := webGoatTargetGroup(scope, "WebGoatWafTg", vpc)
	webGoatRawTg := webGoatTargetGroup(scope, "WebGoatRawTg", vpc)

	webWolfTg := elbv2.NewApplicationTargetGroup(scope, jsii.String("WebWolfTg"), &elbv2.ApplicationTargetGroupProps{
		Vpc:        vpc,
		Port:       jsii.Number(WebWolfPort),
		Protocol:   elbv2.ApplicationProtocol_HTTP,
		TargetType: elbv2.TargetType_IP,
		HealthCheck: &elbv2.HealthCheck{
			Path:             jsii.String(WebWolfHealthPath),
			HealthyHttpCodes: jsii.String("200-399"),
			Interval:         awscdk.Duration_Seconds(jsii.Number(30)),
		},
	})

	wafAlb.AddListener(jsii.String("WebGoatListener"), &elbv2.BaseApplicationListenerProps{
		Port:                jsii.Number(80),
		Protocol:            elbv2.ApplicationProtocol_HTTP,
		Open:                jsii.Bool(false),
		DefaultTargetGroups: &[]elbv2.IApplicationTargetGroup{webGoatWafTg},
	})

	wafAlb.AddListener(jsii.String("WebWolfListener"), &elbv2.BaseApplicationListenerProps{
		Port:                jsii.Number(WebWolfPort),
		Protocol:            elbv2.ApplicationProtocol_HTTP,
		Open:                jsii.Bool(false),
		DefaultTargetGroups: &[]elbv2.IApplicationTargetGroup{webWolfTg},
	})

	rawAlb.AddListener(jsii.String("WebGoatListener"), &elbv2.BaseApplicationListenerProps{
		Port:                jsii.Number(80),
		Protocol:            elbv2.ApplicationProtocol_HTTP,
		Open:                jsii.Bool(false),
		DefaultTargetGroups: &[]elbv2.IApplicationTargetGroup{webGoatRawTg},
	})

	return EdgeOutputs{
		wafAlb:       wafAlb,
		rawAlb:       rawAlb,
		wafAlbSg:     wafAlbSg,
		rawAlbSg:     rawAlbSg,
		webGoatWafTg: webGoatWafTg,
		webGoatRawTg: webGoatRawTg,
		webWolfTg:    webWolfTg,
	}
}

// webGoatTargetGroup keeps the two WebGoat groups identical; the
// protected/unprotected comparison only works if the backend routing matches.
func webGoatTargetGroup(scope constructs.Construct, id string, vpc ec2.Vpc) elbv2.ApplicationTargetGroup {
	return elbv2.NewApplicationTargetGroup(scope, jsii.String(id), &elbv2.ApplicationTargetGroupProps{
		Vpc:        vpc,
		Port:       jsii.Number(WebGoatPort),
		Protocol:   elbv2.ApplicationProtocol_HTTP,
		TargetType: elbv2.TargetType_IP,
		HealthCheck: &elbv2.HealthCheck{
			Path:             jsii.String(WebGoatHealthPath),
			HealthyHttpCodes: jsii.String("200-399"),
			Interval:         awscdk.Duration_Seconds(jsii.Number(30)),
		},
	})
}
