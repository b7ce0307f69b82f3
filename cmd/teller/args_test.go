package main

import "testing"

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "Quoted and unquoted values",
			args: `--client="John Dillinger" --amount=100`,
			want: map[string]string{"client": "John Dillinger", "amount": "100"},
		},
		{
			name: "Quoted value keeps inner spaces",
			args: `--description="phone bill payment"`,
			want: map[string]string{"description": "phone bill payment"},
		},
		{
			name: "Empty quoted value",
			args: `--description=""`,
			want: map[string]string{"description": ""},
		},
		{
			name: "No flags",
			args: "   ",
			want: map[string]string{},
		},
		{
			name:    "Bare token",
			args:    "client=John",
			wantErr: true,
		},
		{
			name:    "Missing value",
			args:    "--client",
			wantErr: true,
		},
		{
			name:    "Unterminated quote",
			args:    `--client="John`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlags(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d flags, got %v", len(tt.want), got)
			}
			for key, want := range tt.want {
				if got[key] != want {
					t.Errorf("flag %q: expected %q, got %q", key, want, got[key])
				}
			}
		})
	}
}

func TestRequireFlags(t *testing.T) {
	flags := map[string]string{"client": "Alice", "amount": "100"}

	if err := requireFlags(flags, "client", "amount"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := requireFlags(flags, "client", "amount", "description"); err == nil {
		t.Error("expected error for a missing flag")
	}
	if err := requireFlags(flags, "client"); err == nil {
		t.Error("expected error for an unknown flag")
	}
}
