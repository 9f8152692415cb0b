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

// Package audit verifies a deployed lab stack against the properties the
// templates promise: the bastion access path, the detection gap in the web
// ACL, least-privilege group chaining, and parity between the two edges.
package audit

import "github.com/rs/zerolog"

// Finding status values.
const (
	StatusOK   = "ok"
	StatusFail = "fail"
)

// Finding is one checked property of the deployed stack.
type Finding struct {
	Check    string
	Resource string
	Status   string
	Detail   string
}

// Report collects findings across checks.
type Report struct {
	Findings []Finding
}

func (r *Report) ok(check, resource, detail string) {
	r.Findings = append(r.Findings, Finding{Check: check, Resource: resource, Status: StatusOK, Detail: detail})
}

func (r *Report) fail(check, resource, detail string) {
	r.Findings = append(r.Findings, Finding{Check: check, Resource: resource, Status: StatusFail, Detail: detail})
}

// Merge appends another report's findings.
func (r *Report) Merge(other Report) {
	r.Findings = append(r.Findings, other.Findings...)
}

// Failed reports whether any finding did not pass.
func (r *Report) Failed() bool {
	for _, f := range r.Findings {
		if f.Status != StatusOK {
			return true
		}
	}
	return false
}

// Log writes every finding at a level matching its status.
func (r *Report) Log(logger zerolog.Logger) {
	for _, f := range r.Findings {
		ev := logger.Info()
		if f.Status != StatusOK {
			ev = logger.Error()
		}
		ev.Str("check", f.Check).
			Str("resource", f.Resource).
			Str("status", f.Status).
			Msg(f.Detail)
	}
}
