// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// recommendRequest mirrors the API's multi-seed recommendation payload
type recommendRequest struct {
	Titles []string `validate:"required,min=1,max=10,dive,required"`
	Limit  int      `validate:"omitempty,min=1,max=100"`
}

// sourceEndpoint mirrors source client configuration fields
type sourceEndpoint struct {
	URL       string `validate:"required,url"`
	RateLimit int    `validate:"gte=1,lte=600"`
	Mode      string `validate:"omitempty,oneof=full incremental"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{
			name: "single seed",
			input: &recommendRequest{
				Titles: []string{"Cowboy Bebop"},
				Limit:  10,
			},
		},
		{
			name: "max seeds no limit",
			input: &recommendRequest{
				Titles: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
			},
		},
		{
			name: "endpoint with mode",
			input: &sourceEndpoint{
				URL:       "https://graphql.anilist.co",
				RateLimit: 90,
				Mode:      "incremental",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{
			name:      "missing titles",
			input:     &recommendRequest{Limit: 10},
			wantField: "Titles",
			wantTag:   "required",
		},
		{
			name: "too many titles",
			input: &recommendRequest{
				Titles: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"},
			},
			wantField: "Titles",
			wantTag:   "max",
		},
		{
			name: "empty title element",
			input: &recommendRequest{
				Titles: []string{"Cowboy Bebop", ""},
			},
			wantTag: "required",
		},
		{
			name: "limit too large",
			input: &recommendRequest{
				Titles: []string{"Cowboy Bebop"},
				Limit:  500,
			},
			wantField: "Limit",
			wantTag:   "max",
		},
		{
			name: "invalid url",
			input: &sourceEndpoint{
				URL:       "not-a-url",
				RateLimit: 90,
			},
			wantField: "URL",
			wantTag:   "url",
		},
		{
			name: "rate limit out of range",
			input: &sourceEndpoint{
				URL:       "https://graphql.anilist.co",
				RateLimit: 1000,
			},
			wantField: "RateLimit",
			wantTag:   "lte",
		},
		{
			name: "bad enum value",
			input: &sourceEndpoint{
				URL:       "https://graphql.anilist.co",
				RateLimit: 90,
				Mode:      "partial",
			},
			wantField: "Mode",
			wantTag:   "oneof",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want validation error")
			}

			if len(err.Errors()) == 0 {
				t.Fatal("Errors() is empty, want at least one field error")
			}

			first := err.Errors()[0]
			if tt.wantField != "" && first.Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", first.Field(), tt.wantField)
			}
			if first.Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", first.Tag(), tt.wantTag)
			}
		})
	}
}

func TestRequestValidationError_Error(t *testing.T) {
	err := ValidateStruct(&recommendRequest{Limit: 200})
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := err.Error()
	if msg == "" {
		t.Error("Error() returned empty message")
	}
	if !strings.Contains(msg, "Titles") {
		t.Errorf("Error() = %q, want it to mention Titles", msg)
	}
}

func TestToAPIError_SingleField(t *testing.T) {
	err := ValidateStruct(&recommendRequest{
		Titles: []string{"Cowboy Bebop"},
		Limit:  500,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message == "" {
		t.Error("Message is empty")
	}
	if apiErr.Details == nil {
		t.Fatal("Details is nil")
	}
	if apiErr.Details["field"] != "Limit" {
		t.Errorf("Details[field] = %v, want Limit", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleFields(t *testing.T) {
	err := ValidateStruct(&sourceEndpoint{
		URL:       "not-a-url",
		RateLimit: 1000,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Errors()) < 2 {
		t.Fatalf("Errors() = %d, want at least 2", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}

	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has type %T, want []map[string]interface{}", apiErr.Details["fields"])
	}
	if len(fields) != len(err.Errors()) {
		t.Errorf("len(fields) = %d, want %d", len(fields), len(err.Errors()))
	}
}

func TestTranslateError_Messages(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		wantMsg string
	}{
		{
			name:    "required message",
			input:   &recommendRequest{},
			wantMsg: "Titles is required",
		},
		{
			name: "max message for int",
			input: &recommendRequest{
				Titles: []string{"x"},
				Limit:  500,
			},
			wantMsg: "Limit must be at most 100",
		},
		{
			name: "url message",
			input: &sourceEndpoint{
				URL:       "::bad::",
				RateLimit: 90,
			},
			wantMsg: "URL must be a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := err.Errors()[0].Error(); got != tt.wantMsg {
				t.Errorf("message = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}
