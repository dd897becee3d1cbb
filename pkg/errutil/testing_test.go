// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"

	"github.com/plugboard/plugboard/pkg/errutil"
)

func TestAssertErrorCode(t *testing.T) {
	err := oops.Code("REGISTRY_STATE").Errorf("holder missing after reload")
	errutil.AssertErrorCode(t, err, "REGISTRY_STATE")
}

func TestAssertErrorContext(t *testing.T) {
	err := oops.Code("MISSING_DESCRIPTOR").With("dir", "pluginB").Errorf("no descriptor")
	errutil.AssertErrorContext(t, err, "dir", "pluginB")
}
