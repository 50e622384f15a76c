package domain

import (
	"encoding/json"
	"testing"
)

func TestStreamEvent_MarshalJSON(t *testing.T) {
	cases := []struct {
		name  string
		event StreamEvent
		want  string
	}{
		{
			name:  "sources",
			event: SourcesEvent([]TextSource{{Title: "t", URL: "https://t", Content: "c"}}),
			want:  `{"sources":[{"title":"t","url":"https://t","content":"c"}]}`,
		},
		{
			name:  "empty sources render as empty array",
			event: SourcesEvent(nil),
			want:  `{"sources":[]}`,
		},
		{
			name:  "images",
			event: ImagesEvent([]ImageSource{{Title: "i", URL: "https://i", ImageURL: "https://i/p.png"}}),
			want:  `{"images":[{"title":"i","url":"https://i","image_url":"https://i/p.png"}]}`,
		},
		{
			name:  "empty images render as empty array",
			event: ImagesEvent(nil),
			want:  `{"images":[]}`,
		},
		{
			name:  "answer token",
			event: AnswerEvent("Hi"),
			want:  `{"answer":"Hi"}`,
		},
		{
			name:  "related token",
			event: RelatedEvent("Q?"),
			want:  `{"related":"Q?"}`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := json.Marshal(c.event)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != c.want {
				t.Errorf("got %s, want %s", got, c.want)
			}
		})
	}
}

func TestStreamEvent_DoneHasNoJSONForm(t *testing.T) {
	if _, err := json.Marshal(DoneEvent()); err == nil {
		t.Error("marshaling the terminal event must fail")
	}
}
