package dto

import (
	"encoding/json"
	"testing"
)

func TestFlexInt_AcceptsNumbersAndStrings(t *testing.T) {
	var req CreateNCRequest
	// legacy form clients submit quantity as a string
	if err := json.Unmarshal([]byte(`{"quantity": "42"}`), &req); err != nil {
		t.Fatalf("string quantity should parse: %v", err)
	}
	if req.Quantity != 42 {
		t.Errorf("expected 42, got %d", req.Quantity)
	}

	if err := json.Unmarshal([]byte(`{"quantity": 7}`), &req); err != nil {
		t.Fatalf("numeric quantity should parse: %v", err)
	}
	if req.Quantity != 7 {
		t.Errorf("expected 7, got %d", req.Quantity)
	}

	if err := json.Unmarshal([]byte(`{"quantity": null}`), &req); err != nil {
		t.Fatalf("null quantity should parse as zero: %v", err)
	}
	if req.Quantity != 0 {
		t.Errorf("expected 0, got %d", req.Quantity)
	}

	if err := json.Unmarshal([]byte(`{"quantity": "a lot"}`), &req); err == nil {
		t.Error("non-numeric quantity should be rejected")
	}
}

func TestPaginationRequest_Defaults(t *testing.T) {
	var p PaginationRequest
	if p.GetPage() != 1 {
		t.Errorf("expected default page 1, got %d", p.GetPage())
	}
	if p.GetPageSize() != 20 {
		t.Errorf("expected default page size 20, got %d", p.GetPageSize())
	}
	if p.GetOffset() != 0 {
		t.Errorf("expected offset 0, got %d", p.GetOffset())
	}

	p = PaginationRequest{Page: 3, PageSize: 10}
	if p.GetOffset() != 20 {
		t.Errorf("expected offset 20, got %d", p.GetOffset())
	}
}
