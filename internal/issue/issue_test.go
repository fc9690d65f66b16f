// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

// allIds mirrors the declared Id constants in order.
var allIds = []Id{
	ScriptNotFoundId,
	ScriptEvalFailedId,
	ConfigLoadFailedId,
	UnknownPolicyId,
	InvalidLocationId,
	MissingContextId,
	SourceTreeNotFoundId,
	OutputWriteFailedId,
}

// stubRender swaps the glamour call for an identity function so tests can
// inspect the assembled markdown without a terminal renderer.
func stubRender(t *testing.T) {
	t.Helper()
	original := render
	t.Cleanup(func() { render = original })
	render = func(in string, _ string) (string, error) { return in, nil }
}

func TestIdsAreUniqueAndStartAtOne(t *testing.T) {
	seen := make(map[Id]bool)
	for _, id := range allIds {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}
	if ScriptNotFoundId != 1 {
		t.Errorf("ScriptNotFoundId = %d, want 1", ScriptNotFoundId)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		contains string
	}{
		{ScriptNotFoundId, "No packaging script found"},
		{ScriptEvalFailedId, "Script evaluation failed"},
		{ConfigLoadFailedId, "Failed to load configuration"},
		{UnknownPolicyId, "Unknown packaging policy"},
		{InvalidLocationId, "Invalid resource location"},
		{MissingContextId, "no collection context"},
		{SourceTreeNotFoundId, "Source tree not found"},
		{OutputWriteFailedId, "Failed to write build outputs"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)
			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("issue.Id() = %d, want %d", issue.Id(), tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}

	if Get(Id(9999)) != nil {
		t.Error("Get of an unknown ID should return nil")
	}
}

func TestValues(t *testing.T) {
	issues := Values()
	if len(issues) != len(allIds) {
		t.Errorf("Values() returned %d issues, want %d", len(issues), len(allIds))
	}
	for _, issue := range issues {
		if issue.Id() == 0 {
			t.Error("found issue with ID 0")
		}
		if issue.MarkdownMsg() == "" {
			t.Errorf("issue %d has empty MarkdownMsg", issue.Id())
		}
	}
}

func TestLinkAccessorsReturnClones(t *testing.T) {
	issue := &Issue{
		id:       Id(9999),
		mdMsg:    "# Clone check",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}

	docs := issue.DocLinks()
	docs[0] = "mutated"
	if issue.DocLinks()[0] != "https://docs.example.com" {
		t.Error("DocLinks() should return a clone")
	}

	exts := issue.ExtLinks()
	exts[0] = "mutated"
	if issue.ExtLinks()[0] != "https://external.example.com" {
		t.Error("ExtLinks() should return a clone")
	}
}

func TestRender(t *testing.T) {
	stubRender(t)

	t.Run("catalog issue renders its card", func(t *testing.T) {
		issue := Get(ScriptNotFoundId)
		if issue == nil {
			t.Fatal("Get(ScriptNotFoundId) returned nil")
		}
		rendered, err := issue.Render("")
		if err != nil {
			t.Fatalf("Render() returned error: %v", err)
		}
		if !strings.Contains(rendered, "starpack init") {
			t.Error("Render() output should mention 'starpack init'")
		}
	})

	t.Run("links add a See also section", func(t *testing.T) {
		withLinks := &Issue{
			id:       Id(9999),
			mdMsg:    "# Linked issue",
			docLinks: []HttpLink{"https://docs.example.com"},
		}
		rendered, err := withLinks.Render("")
		if err != nil {
			t.Fatalf("Render() returned error: %v", err)
		}
		if !strings.Contains(rendered, "See also") {
			t.Error("Render() with links should contain 'See also'")
		}
	})

	t.Run("no links, no See also section", func(t *testing.T) {
		bare := &Issue{id: Id(9998), mdMsg: "# Bare issue"}
		rendered, err := bare.Render("")
		if err != nil {
			t.Fatalf("Render() returned error: %v", err)
		}
		if strings.Contains(rendered, "See also") {
			t.Error("Render() without links should not contain 'See also'")
		}
	})

	t.Run("every catalog issue is renderable", func(t *testing.T) {
		for _, issue := range Values() {
			rendered, err := issue.Render("")
			if err != nil {
				t.Errorf("issue %d failed to render: %v", issue.Id(), err)
			}
			if rendered == "" {
				t.Errorf("issue %d rendered to empty string", issue.Id())
			}
		}
	})
}
