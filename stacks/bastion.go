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
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	ec2 "github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	iam "github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type BastionProps struct {
	// AllowedIP is a bare operator address; a /32 ingress rule is added for
	// it when present.
	AllowedIP string
	// AllowedPrefixList is an existing managed prefix list ID (pl-...).
	AllowedPrefixList string
}

type BastionOutputs struct {
	instance      ec2.Instance
	securityGroup ec2.SecurityGroup
	eip           ec2.CfnEIP
	prefixList    ec2.CfnPrefixList
}

func (o *BastionOutputs) SecurityGroup() ec2.SecurityGroup { return o.securityGroup }
func (o *BastionOutputs) PrefixList() ec2.CfnPrefixList    { return o.prefixList }
func (o *BastionOutputs) PublicIp() *string                { return o.eip.AttrPublicIp() }

// BastionHost creates the operator entry point: a single instance whose sshd
// is remapped to 443 at first boot, an elastic IP, and a one-entry prefix
// list holding that IP for the edge security groups to reference.
//
// With neither AllowedIP nor AllowedPrefixList set, the security group gets
// no ingress rule at all and the bastion is unreachable (fails closed).
func BastionHost(scope constructs.Construct, vpc ec2.Vpc, props *BastionProps) BastionOutputs {
	securityGroup := ec2.NewSecurityGroup(scope, jsii.String("BastionSG"), &ec2.SecurityGroupProps{
		Vpc:              vpc,
		Description:      jsii.String(BastionSgDescription),
		AllowAllOutbound: jsii.Bool(true),
	})

	if props != nil && props.AllowedIP != "" {
		securityGroup.AddIngressRule(
			ec2.Peer_Ipv4(jsii.String(fmt.Sprintf("%s/32", props.AllowedIP))),
			ec2.Port_Tcp(jsii.Number(BastionSSHPort)),
			jsii.String("SSH over 443 from operator address"),
			nil,
		)
	}

	if props != nil && props.AllowedPrefixList != "" {
		securityGroup.AddIngressRule(
			ec2.Peer_PrefixList(jsii.String(props.AllowedPrefixList)),
			ec2.Port_Tcp(jsii.Number(BastionSSHPort)),
			jsii.String("SSH over 443 from operator prefix list"),
			nil,
		)
	}

	ssmRole := iam.NewRole(scope, jsii.String("BastionSSMRole"), &iam.RoleProps{
		AssumedBy:       iam.NewServicePrincipal(jsii.String("ec2.amazonaws.com"), nil),
		ManagedPolicies: &[]iam.IManagedPolicy{iam.ManagedPolicy_FromAwsManagedPolicyName(jsii.String("AmazonSSMManagedInstanceCore"))},
	})

	instance := ec2.NewInstance(scope, jsii.String("BastionInstance"), &ec2.InstanceProps{
		Vpc:           vpc,
		VpcSubnets:    &ec2.SubnetSelection{SubnetType: ec2.SubnetType_PUBLIC},
		InstanceType:  ec2.InstanceType_Of(ec2.InstanceClass_BURSTABLE3, ec2.InstanceSize_MICRO),
		MachineImage:  ec2.MachineImage_LatestAmazonLinux2023(nil),
		Role:          ssmRole,
		SecurityGroup: securityGroup,
		UserData:      ec2.UserData_ForLinux(&ec2.LinuxUserDataOptions{}),
	})

	// One-shot boot action with no verification: if the remap fails the
	// instance stays on 22 with no matching ingress rule and becomes
	// unreachable, which the operator must notice from the console.
	instance.UserData().AddCommands(
		jsii.String("dnf install -y openssh-server"),
		jsii.String(fmt.Sprintf("sed -i 's/^#\\?Port 22$/Port %d/' /etc/ssh/sshd_config", BastionSSHPort)),
		jsii.String("systemctl restart sshd"),
	)

	eip := ec2.NewCfnEIP(scope, jsii.String("BastionEip"), &ec2.CfnEIPProps{
		Domain:     jsii.String("vpc"),
		InstanceId: instance.InstanceId(),
	})

	prefixList := ec2.NewCfnPrefixList(scope, jsii.String("BastionPrefixList"), &ec2.CfnPrefixListProps{
		PrefixListName: jsii.String("waflab-bastion-egress"),
		AddressFamily:  jsii.String("IPv4"),
		MaxEntries:     jsii.Number(1),
		Entries: []interface{}{
			&ec2.CfnPrefixList_EntryProperty{
				Cidr:        awscdk.Fn_Join(jsii.String(""), &[]*string{eip.AttrPublicIp(), jsii.String("/32")}),
				Description: jsii.String("Bastion elastic IP"),
			},
		},
	})

	return BastionOutputs{
		instance:      instance,
		securityGroup: securityGroup,
		eip:           eip,
		prefixList:    prefixList,
	}
}
