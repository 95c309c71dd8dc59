package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"mercator-hq/aegis/pkg/prompts"
)

const testCatalog = `prompts:
  - id: search.v1
    version: "1"
    system: Find items.
    output_schema_ref: image-search@1
    rollout_status: retired
  - id: search.v1.2
    version: "1.2"
    system: Find items.
    output_schema_ref: image-search@1
    rollout_status: active
  - id: search.v1.10
    version: "1.10"
    system: Find items better.
    output_schema_ref: image-search@1
    rollout_status: active
`

func TestPromptsList(t *testing.T) {
	out, _, err := execute(t, "", "prompts", "list")
	if err != nil {
		t.Fatalf("prompts list error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(prompts.Builtin())+1 {
		t.Fatalf("got %d lines, want header plus %d prompts:\n%s", len(lines), len(prompts.Builtin()), out)
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(out, "listing-autofill.v3") || !strings.Contains(out, "canary") {
		t.Errorf("output missing canary prompt:\n%s", out)
	}
}

func TestPromptsList_StatusCSV(t *testing.T) {
	out, _, err := execute(t, "", "prompts", "list", "--status", "active", "--format", "csv")
	if err != nil {
		t.Fatalf("prompts list error = %v", err)
	}

	if !strings.HasPrefix(out, "ID,INTENT,VERSION,STATUS,SCHEMA REF\n") {
		t.Errorf("missing CSV header:\n%s", out)
	}
	if strings.Contains(out, "canary") || strings.Contains(out, "retired") {
		t.Errorf("non-active prompts listed:\n%s", out)
	}
	if !strings.Contains(out, "listing-autofill.v2,listing-autofill,2,active,listing-autofill@1") {
		t.Errorf("missing active listing prompt:\n%s", out)
	}
}

func TestPromptsList_InvalidStatus(t *testing.T) {
	if _, _, err := execute(t, "", "prompts", "list", "--status", "live"); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestPromptsActive(t *testing.T) {
	out, _, err := execute(t, "", "prompts", "active", "listing-autofill")
	if err != nil {
		t.Fatalf("prompts active error = %v", err)
	}

	specs, err := prompts.Parse([]byte(out))
	if err != nil {
		t.Fatalf("text output is not a catalog: %v\n%s", err, out)
	}
	if len(specs) != 1 || specs[0].ID != "listing-autofill.v2" {
		t.Errorf("specs = %+v", specs)
	}
}

func TestPromptsActive_NumericVersions(t *testing.T) {
	catalog := writeFile(t, "prompts.yaml", testCatalog)
	cfg := writeFile(t, "aegis.yaml", "prompts:\n  catalog_path: "+catalog+"\n")

	out, _, err := execute(t, "", "--config", cfg, "prompts", "active", "search", "--format", "json")
	if err != nil {
		t.Fatalf("prompts active error = %v", err)
	}

	var spec prompts.Spec
	if err := json.Unmarshal([]byte(out), &spec); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if spec.ID != "search.v1.10" {
		t.Errorf("active = %q, want search.v1.10", spec.ID)
	}
}

func TestPromptsGet(t *testing.T) {
	out, _, err := execute(t, "", "prompts", "get", "listing-autofill.v1")
	if err != nil {
		t.Fatalf("prompts get error = %v", err)
	}
	if !strings.Contains(out, "rollout_status: retired") {
		t.Errorf("output missing status:\n%s", out)
	}

	_, _, err = execute(t, "", "prompts", "get", "listing-autofill.v9")
	if !errors.Is(err, prompts.ErrPromptNotFound) {
		t.Errorf("err = %v, want ErrPromptNotFound", err)
	}
}

func TestPromptsActive_NoActive(t *testing.T) {
	_, _, err := execute(t, "", "prompts", "active", "reviews")
	if !errors.Is(err, prompts.ErrNoActivePrompt) {
		t.Errorf("err = %v, want ErrNoActivePrompt", err)
	}
}
