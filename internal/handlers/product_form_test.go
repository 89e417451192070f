package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newProductFormContext(t *testing.T, fields map[string][]string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, values := range fields {
		for _, value := range values {
			_ = writer.WriteField(name, value)
		}
	}
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/api/sellers/products", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestParseProductFormParsesFullSubmission(t *testing.T) {
	c := newProductFormContext(t, map[string][]string{
		"name":         {"Hand-thrown Bowl"},
		"description":  {"Stoneware bowl"},
		"price":        {"34.50"},
		"category":     {"65f2a1b3c4d5e6f708091a0b"},
		"countInStock": {"12"},
		"craftType":    {"pottery"},
		"region":       {"Oaxaca"},
		"materials":    {"clay", " glaze "},
		"tags":         {"kitchen", ""},
		"dimensions":   {`{"length":10,"width":10,"height":6,"unit":"cm"}`},
		"weight":       {`{"value":0.8,"unit":"kg"}`},
	})

	input, err := parseProductForm(c, t.TempDir())
	if err != nil {
		t.Fatalf("parseProductForm returned error: %v", err)
	}

	if input.Name != "Hand-thrown Bowl" || input.Price != 34.50 || input.CountInStock != 12 {
		t.Fatalf("unexpected parsed input: %+v", input)
	}
	if len(input.Materials) != 2 || input.Materials[1] != "glaze" {
		t.Fatalf("expected trimmed materials, got %v", input.Materials)
	}
	if len(input.Tags) != 1 {
		t.Fatalf("expected empty tag values dropped, got %v", input.Tags)
	}
	if input.Dimensions == nil || input.Dimensions.Height != 6 {
		t.Fatalf("expected parsed dimensions, got %+v", input.Dimensions)
	}
	if input.Weight == nil || input.Weight.Value != 0.8 {
		t.Fatalf("expected parsed weight, got %+v", input.Weight)
	}
}

func TestParseProductFormRejectsMissingRequiredFields(t *testing.T) {
	c := newProductFormContext(t, map[string][]string{
		"name":         {"Bowl"},
		"price":        {"10"},
		"countInStock": {"1"},
	})

	if _, err := parseProductForm(c, t.TempDir()); err == nil {
		t.Fatal("expected error for missing required fields")
	}
}

func TestParseProductFormRejectsBadNumbers(t *testing.T) {
	base := map[string][]string{
		"name":        {"Bowl"},
		"description": {"Stoneware"},
		"category":    {"65f2a1b3c4d5e6f708091a0b"},
		"craftType":   {"pottery"},
		"region":      {"Oaxaca"},
	}

	c := newProductFormContext(t, mergeFormFields(base, map[string][]string{
		"price":        {"-5"},
		"countInStock": {"1"},
	}))
	if _, err := parseProductForm(c, t.TempDir()); err == nil {
		t.Fatal("expected error for negative price")
	}

	c = newProductFormContext(t, mergeFormFields(base, map[string][]string{
		"price":        {"10"},
		"countInStock": {"lots"},
	}))
	if _, err := parseProductForm(c, t.TempDir()); err == nil {
		t.Fatal("expected error for non-numeric stock")
	}
}

func TestParseProductFormRejectsMalformedDimensions(t *testing.T) {
	c := newProductFormContext(t, map[string][]string{
		"name":         {"Bowl"},
		"description":  {"Stoneware"},
		"price":        {"10"},
		"category":     {"65f2a1b3c4d5e6f708091a0b"},
		"countInStock": {"1"},
		"craftType":    {"pottery"},
		"region":       {"Oaxaca"},
		"dimensions":   {"not-json"},
	})

	if _, err := parseProductForm(c, t.TempDir()); err == nil {
		t.Fatal("expected error for malformed dimensions json")
	}
}

func mergeFormFields(base, extra map[string][]string) map[string][]string {
	merged := make(map[string][]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
