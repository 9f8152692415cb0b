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
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
)

const (
	VpcCidr = "10.60.0.0/16"

	// WebGoat publishes the lesson app on 8080 and WebWolf on 9090.
	WebGoatImage  = "webgoat/webgoat"
	WebGoatPort   = 8080
	WebWolfPort   = 9090
	ContainerName = "webgoat"

	// The bastion hides sshd on 443.
	BastionSSHPort = 443

	CommonRuleSet = "AWSManagedRulesCommonRuleSet"
	SqliRuleSet   = "AWSManagedRulesSQLiRuleSet"

	WebGoatHealthPath = "/WebGoat/login"
	WebWolfHealthPath = "/WebWolf/login"
)

// Security group descriptions double as stable identifiers for post-deploy
// checks, which have no other handle on the groups.
const (
	BastionSgDescription  = "Bastion host access"
	WafAlbSgDescription   = "WAF-protected load balancer"
	RawAlbSgDescription   = "Unprotected load balancer"
	WorkloadSgDescription = "WebGoat service"
)

// SizeInspectionExclusions lists the Common rule set sub-rules the lab
// switches off. The resulting blind spot for oversized request parts is the
// training gap this stack exists to provide; do not re-enable them.
var SizeInspectionExclusions = []string{
	"SizeRestrictions_QUERYSTRING",
	"SizeRestrictions_Cookie_HEADER",
	"SizeRestrictions_BODY",
	"SizeRestrictions_URIPATH",
}

// LabEnv resolves the target account and region from the CLI environment.
func LabEnv() *awscdk.Environment {
	return &awscdk.Environment{
		Account: jsii.String(os.Getenv("CDK_DEFAULT_ACCOUNT")),
		Region:  jsii.String(os.Getenv("CDK_DEFAULT_REGION")),
	}
}
