// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

package validation

import (
	"strings"
	"testing"
)

type sample struct {
	Message string `validate:"required"`
	Level   string `validate:"omitempty,oneof=low high"`
}

func TestValidateStructPasses(t *testing.T) {
	if err := ValidateStruct(&sample{Message: "hi", Level: "high"}); err != nil {
		t.Errorf("ValidateStruct failed: %v", err)
	}
}

func TestValidateStructRequired(t *testing.T) {
	err := ValidateStruct(&sample{})
	if err == nil {
		t.Fatal("expected error for missing message")
	}
	if !strings.Contains(err.Error(), "message is required") {
		t.Errorf("error = %q, want mention of required message", err)
	}
}

func TestValidateStructOneOf(t *testing.T) {
	err := ValidateStruct(&sample{Message: "hi", Level: "medium"})
	if err == nil {
		t.Fatal("expected error for invalid level")
	}
	if !strings.Contains(err.Error(), "level") {
		t.Errorf("error = %q, want mention of level", err)
	}
}
