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

	"github.com/stretchr/testify/assert"
)

func TestReportFailed(t *testing.T) {
	var report Report
	assert.False(t, report.Failed())

	report.ok("check.a", "res", "fine")
	assert.False(t, report.Failed())

	report.fail("check.b", "res", "broken")
	assert.True(t, report.Failed())
}

func TestReportMerge(t *testing.T) {
	var a, b Report
	a.ok("check.a", "res", "fine")
	b.fail("check.b", "res", "broken")

	a.Merge(b)
	assert.Len(t, a.Findings, 2)
	assert.True(t, a.Failed())
}
