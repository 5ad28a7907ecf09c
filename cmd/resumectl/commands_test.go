package main

import (
	"bufio"
	"bytes"
	"reflect"
	"strings"
	"testing"

	"resume-improver/internal/flow"
	"resume-improver/resume/model"
)

func TestAskSkills(t *testing.T) {
	var got []model.SkillAnswer
	q := flow.NewQuestionnaire([]model.MissingSkill{
		{Name: "Rust", Importance: "required"},
		{Name: "Go", Importance: "preferred"},
		{Name: "Kafka", Importance: "preferred"},
	}, func(a []model.SkillAnswer) { got = a })

	in := bufio.NewReader(strings.NewReader("n\ny\n5+\nyes\n\n"))
	var out bytes.Buffer
	if err := askSkills(q, in, &out); err != nil {
		t.Fatalf("askSkills: %v", err)
	}
	want := []model.SkillAnswer{model.No("Rust"), model.Yes("Go", 5), model.Yes("Kafka", 1)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if !strings.Contains(out.String(), "[1/3] Do you have experience with Rust (required)?") {
		t.Fatalf("unexpected prompt output %q", out.String())
	}
}

func TestAskSkillsEOFDeclines(t *testing.T) {
	var got []model.SkillAnswer
	q := flow.NewQuestionnaire([]model.MissingSkill{{Name: "Go"}}, func(a []model.SkillAnswer) { got = a })
	if err := askSkills(q, bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}); err != nil {
		t.Fatalf("askSkills: %v", err)
	}
	if len(got) != 1 || got[0].HasSkill {
		t.Fatalf("expected a declined answer, got %+v", got)
	}
}

func TestReadJob(t *testing.T) {
	job, err := readJob("-", strings.NewReader("  Backend engineer \n"))
	if err != nil || job != "Backend engineer" {
		t.Fatalf("unexpected job %q: %v", job, err)
	}
	job, err = readJob("", strings.NewReader("ignored"))
	if err != nil || job != "" {
		t.Fatalf("expected no job, got %q: %v", job, err)
	}
	if _, err := readJob("/does/not/exist.txt", nil); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestQuickPicks(t *testing.T) {
	if got := quickPicks(); got != "1+ 2+ 3+ 5+ 7+ 10+" {
		t.Fatalf("unexpected quick picks %q", got)
	}
}
