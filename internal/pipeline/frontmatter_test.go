package pipeline

import "testing"

func TestSplitFrontMatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantMeta string
		wantBody string
	}{
		{
			name:     "yaml dashes",
			input:    "---\ntitle: A\n---\n# Body\n",
			wantMeta: "title: A\n",
			wantBody: "# Body\n",
		},
		{
			name:     "plus delimiter",
			input:    "+++\ntitle = \"A\"\n+++\nbody",
			wantMeta: "title = \"A\"\n",
			wantBody: "body",
		},
		{
			name:     "semicolon delimiter",
			input:    ";;;\n{}\n;;;\nbody",
			wantMeta: "{}\n",
			wantBody: "body",
		},
		{
			name:     "closing delimiter at end of input",
			input:    "---\na: 1\n---",
			wantMeta: "a: 1\n",
			wantBody: "",
		},
		{
			name:     "empty block",
			input:    "---\n---\nbody",
			wantMeta: "",
			wantBody: "body",
		},
		{
			name:     "unterminated block kept",
			input:    "---\ntitle: A\n# Body",
			wantBody: "---\ntitle: A\n# Body",
		},
		{
			name:     "mismatched delimiter kept",
			input:    "---\na: 1\n+++\nbody",
			wantBody: "---\na: 1\n+++\nbody",
		},
		{
			name:     "not on first line",
			input:    "\n---\na: 1\n---\n",
			wantBody: "\n---\na: 1\n---\n",
		},
		{
			name:     "thematic break of four dashes",
			input:    "----\ntext\n----\n",
			wantBody: "----\ntext\n----\n",
		},
		{
			name:     "no front matter",
			input:    "# Title",
			wantBody: "# Title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			meta, body := SplitFrontMatter(tt.input)
			if meta != tt.wantMeta {
				t.Errorf("SplitFrontMatter() meta = %q, want %q", meta, tt.wantMeta)
			}
			if body != tt.wantBody {
				t.Errorf("SplitFrontMatter() body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestFrontMatterTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"yaml title", "---\ntitle: My Doc\nauthor: x\n---\nbody", "My Doc"},
		{"quoted title", "---\ntitle: \"Quoted: yes\"\n---\n", "Quoted: yes"},
		{"no title key", "---\nauthor: x\n---\n", ""},
		{"non-string title", "---\ntitle: [a, b]\n---\n", ""},
		{"no front matter", "# Heading", ""},
		{"invalid yaml", "---\ntitle: [\n---\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FrontMatterTitle(tt.input); got != tt.want {
				t.Errorf("FrontMatterTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
