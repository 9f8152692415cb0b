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
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// Output keys exported by the lab stack.
const (
	OutputWafAlbDns = "WafAlbDnsName"
	OutputRawAlbDns = "RawAlbDnsName"
	OutputBastionIP = "BastionPublicIp"
)

// StackOutputs are the three values an operator needs after deploy.
type StackOutputs struct {
	WafAlbDns string
	RawAlbDns string
	BastionIP string
}

// FetchStackOutputs reads the named stack and extracts its outputs.
func FetchStackOutputs(ctx context.Context, clients *Clients, stackName string) (StackOutputs, error) {
	resp, err := clients.Cfn().DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return StackOutputs{}, fmt.Errorf("failed to describe stack %s: %w", stackName, err)
	}
	if len(resp.Stacks) == 0 {
		return StackOutputs{}, fmt.Errorf("stack %s not found", stackName)
	}
	return ParseOutputs(resp.Stacks[0].Outputs)
}

// ParseOutputs maps raw stack outputs onto StackOutputs, requiring all three.
func ParseOutputs(outputs []cfntypes.Output) (StackOutputs, error) {
	var parsed StackOutputs
	for _, out := range outputs {
		switch aws.ToString(out.OutputKey) {
		case OutputWafAlbDns:
			parsed.WafAlbDns = aws.ToString(out.OutputValue)
		case OutputRawAlbDns:
			parsed.RawAlbDns = aws.ToString(out.OutputValue)
		case OutputBastionIP:
			parsed.BastionIP = aws.ToString(out.OutputValue)
		}
	}

	if parsed.WafAlbDns == "" || parsed.RawAlbDns == "" || parsed.BastionIP == "" {
		return parsed, fmt.Errorf("stack is missing outputs: have %d of 3", countSet(parsed))
	}
	return parsed, nil
}

func countSet(o StackOutputs) int {
	n := 0
	for _, v := range []string{o.WafAlbDns, o.RawAlbDns, o.BastionIP} {
		if v != "" {
			n++
		}
	}
	return n
}
