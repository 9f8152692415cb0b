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
	ecs "github.com/aws/aws-cdk-go/awscdk/v2/awsecs"
	logs "github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type WorkloadOutputs struct {
	cluster       ecs.Cluster
	service       ecs.FargateService
	securityGroup ec2.SecurityGroup
}

func (o *WorkloadOutputs) Service() ecs.FargateService { return o.service }

// WebGoatService runs the vulnerable application as a single Fargate service
// registered against all three target groups. The service security group
// accepts exactly three sources: each load balancer on its application port
// and the bastion on everything; nothing reaches the tasks directly.
func WebGoatService(scope constructs.Construct, vpc ec2.Vpc, edge *EdgeOutputs, bastionSg ec2.SecurityGroup) WorkloadOutputs {
	cluster := ecs.NewCluster(scope, jsii.String("LabCluster"), &ecs.ClusterProps{
		Vpc: vpc,
	})

	logGroup := logs.NewLogGroup(scope, jsii.String("WebGoatLogs"), &logs.LogGroupProps{
		LogGroupName:  jsii.String("/ecs/waflab-webgoat"),
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})

	taskDef := ecs.NewFargateTaskDefinition(scope, jsii.String("WebGoatTaskDef"), &ecs.FargateTaskDefinitionProps{
		Cpu:            jsii.Number(512),
		MemoryLimitMiB: jsii.Number(1024),
	})

	container := taskDef.AddContainer(jsii.String(ContainerName), &ecs.ContainerDefinitionOptions{
		Image: ecs.ContainerImage_FromRegistry(jsii.String(WebGoatImage), nil),
		Logging: ecs.LogDrivers_AwsLogs(&ecs.AwsLogDriverProps{
			StreamPrefix: jsii.String("webgoat"),
			LogGroup:     logGroup,
		}),
		// WebGoat builds lesson URLs from these two virtual hostnames; both
		// point at the protected balancer, which also fronts WebWolf on 9090.
		Environment: &map[string]*string{
			"WEBGOAT_HOST": edge.wafAlb.LoadBalancerDnsName(),
			"WEBWOLF_HOST": edge.wafAlb.LoadBalancerDnsName(),
		},
	})

	container.AddPortMappings(
		&ecs.PortMapping{ContainerPort: jsii.Number(WebGoatPort)},
		&ecs.PortMapping{ContainerPort: jsii.Number(WebWolfPort)},
	)

	securityGroup := ec2.NewSecurityGroup(scope, jsii.String("WebGoatServiceSG"), &ec2.SecurityGroupProps{
		Vpc:              vpc,
		Description:      jsii.String(WorkloadSgDescription),
		AllowAllOutbound: jsii.Bool(true),
	})

	securityGroup.AddIngressRule(
		ec2.Peer_SecurityGroupId(edge.wafAlbSg.SecurityGroupId(), nil),
		ec2.Port_Tcp(jsii.Number(WebGoatPort)),
		jsii.String("WebGoat from protected ALB"),
		nil,
	)
	securityGroup.AddIngressRule(
		ec2.Peer_SecurityGroupId(edge.wafAlbSg.SecurityGroupId(), nil),
		ec2.Port_Tcp(jsii.Number(WebWolfPort)),
		jsii.String("WebWolf from protected ALB"),
		nil,
	)
	securityGroup.AddIngressRule(
		ec2.Peer_SecurityGroupId(edge.rawAlbSg.SecurityGroupId(), nil),
		ec2.Port_Tcp(jsii.Number(WebGoatPort)),
		jsii.String("WebGoat from unprotected ALB"),
		nil,
	)
	securityGroup.AddIngressRule(
		ec2.Peer_SecurityGroupId(bastionSg.SecurityGroupId(), nil),
		ec2.Port_AllTraffic(),
		jsii.String("Operator access from bastion"),
		nil,
	)

	// Desired count stays at one; the 200% deployment ceiling is what allows
	// a second task to run during rollovers.
	service := ecs.NewFargateService(scope, jsii.String("WebGoatService"), &ecs.FargateServiceProps{
		Cluster:           cluster,
		TaskDefinition:    taskDef,
		DesiredCount:      jsii.Number(1),
		MinHealthyPercent: jsii.Number(100),
		MaxHealthyPercent: jsii.Number(200),
		VpcSubnets:        &ec2.SubnetSelection{SubnetType: ec2.SubnetType_PUBLIC},
		AssignPublicIp:    jsii.Bool(true),
		SecurityGroups:    &[]ec2.ISecurityGroup{securityGroup},
	})

	edge.webGoatWafTg.AddTarget(service.LoadBalancerTarget(&ecs.LoadBalancerTargetOptions{
		ContainerName: jsii.String(ContainerName),
		ContainerPort: jsii.Number(WebGoatPort),
	}))
	edge.webGoatRawTg.AddTarget(service.LoadBalancerTarget(&ecs.LoadBalancerTargetOptions{
		ContainerName: jsii.String(ContainerName),
		ContainerPort: jsii.Number(WebGoatPort),
	}))
	edge.webWolfTg.AddTarget(service.LoadBalancerTarget(&ecs.LoadBalancerTargetOptions{
		ContainerName: jsii.String(ContainerName),
		ContainerPort: jsii.Number(WebWolfPort),
	}))

	return WorkloadOutputs{
		cluster:       cluster,
		service:       service,
		securityGroup: securityGroup,
	}
}
