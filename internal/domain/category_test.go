package domain

import "testing"

func TestCategory_IsValid(t *testing.T) {
	valid := []Category{CategoryAll, CategoryImages, CategoryNews, CategoryAcademic, CategoryVideos}
	for _, c := range valid {
		if !c.IsValid() {
			t.Errorf("%q must be valid", c)
		}
	}
	for _, c := range []Category{"", "podcasts", "ALL", "web"} {
		if c.IsValid() {
			t.Errorf("%q must be invalid", c)
		}
	}
}

func TestAnswerMode_IsValid(t *testing.T) {
	for _, m := range []AnswerMode{ModeSimple, ModeDeep, ModeResearch} {
		if !m.IsValid() {
			t.Errorf("%q must be valid", m)
		}
	}
	for _, m := range []AnswerMode{"", "turbo", "Simple"} {
		if m.IsValid() {
			t.Errorf("%q must be invalid", m)
		}
	}
}

func TestSearchOptions_Primary(t *testing.T) {
	if got := (SearchOptions{}).Primary(); got != CategoryAll {
		t.Errorf("empty options default to %q, want all", got)
	}
	opts := SearchOptions{Categories: []Category{CategoryNews, CategoryImages}}
	if got := opts.Primary(); got != CategoryNews {
		t.Errorf("Primary = %q, want first category", got)
	}
}
