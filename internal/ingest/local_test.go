// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

const samplePageText = `J. Nanomotor Research, Volume 12 Issue 3
Self-Propelled Janus Micromotors in Confined Geometries
Jane Doe and John Smith
Abstract
We study the motion of Janus micromotors.
Their speed depends on fuel concentration.
1. Introduction
Micromotors convert chemical energy.
2. Methods
Synthesis follows standard protocols.`

func TestParsePlainText(t *testing.T) {
	p := parsePlainText(samplePageText)

	if p.Title != "Self-Propelled Janus Micromotors in Confined Geometries" {
		t.Errorf("Title = %q", p.Title)
	}
	want := "We study the motion of Janus micromotors. Their speed depends on fuel concentration."
	if p.Abstract != want {
		t.Errorf("Abstract = %q, want %q", p.Abstract, want)
	}
	if !strings.HasPrefix(p.Body, "1. Introduction") {
		t.Errorf("Body starts %q, want the introduction heading", firstLine(p.Body))
	}
	if !strings.Contains(p.Body, "Synthesis follows standard protocols.") {
		t.Error("Body lost trailing section")
	}
	if p.References != nil {
		t.Errorf("References = %v, want none from plain text", p.References)
	}
}

func TestParsePlainTextInlineAbstract(t *testing.T) {
	const text = `A Completely Serviceable Title For Testing Here
Abstract: We present a new method.
It works well.
Introduction
The field has grown.`

	p := parsePlainText(text)
	if p.Title != "A Completely Serviceable Title For Testing Here" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Abstract != "We present a new method. It works well." {
		t.Errorf("Abstract = %q", p.Abstract)
	}
	if p.Body != "Introduction\nThe field has grown." {
		t.Errorf("Body = %q", p.Body)
	}
}

func TestParsePlainTextNoAbstractMarker(t *testing.T) {
	const text = `An Adequately Long Title For The Heuristic
First paragraph of unmarked content.
Second paragraph continues here.`

	p := parsePlainText(text)
	if p.Abstract != "" {
		t.Errorf("Abstract = %q, want empty", p.Abstract)
	}
	if p.Body != "First paragraph of unmarked content.\nSecond paragraph continues here." {
		t.Errorf("Body = %q", p.Body)
	}
}

func TestParsePlainTextAbstractRunsToEnd(t *testing.T) {
	const text = `A Title Long Enough To Clear The Length Bar
Abstract
Only abstract text follows.
No section heading ever appears.`

	p := parsePlainText(text)
	if p.Abstract != "Only abstract text follows. No section heading ever appears." {
		t.Errorf("Abstract = %q", p.Abstract)
	}
	if p.Body != "" {
		t.Errorf("Body = %q, want empty", p.Body)
	}
}

func TestParsePlainTextNoSubstantialLine(t *testing.T) {
	p := parsePlainText("short\nlines\nonly")
	if p.Title != "" {
		t.Errorf("Title = %q, want empty", p.Title)
	}
	if p.Body != "short\nlines\nonly" {
		t.Errorf("Body = %q", p.Body)
	}
}

func TestIsHeaderLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Journal of Applied Nanoscience", true},
		{"Volume 12, Issue 3, March 2024", true},
		{"Copyright 2024 The Authors", true},
		{"Research Article Published Online", true},
		{"Self-Propelled Janus Micromotors in Confined Geometries", false},
	}
	for _, tt := range tests {
		if got := isHeaderLine(tt.line); got != tt.want {
			t.Errorf("isHeaderLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestLocalEngineName(t *testing.T) {
	if got := (LocalEngine{}).Name(); got != "local" {
		t.Errorf("Name() = %q, want local", got)
	}
}

func TestLocalEngineMissingFile(t *testing.T) {
	_, err := LocalEngine{}.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	if err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
