package csv

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// fakeRC is an io.ReadCloser over a byte slice that records Close calls.
type fakeRC struct {
	*bytes.Reader
	closed bool
}

func newFakeRC(s string) *fakeRC { return &fakeRC{Reader: bytes.NewReader([]byte(s))} }
func (f *fakeRC) Close() error   { f.closed = true; return nil }

func TestStreamRecords(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		opt   Options
		want  [][]string
	}{
		{
			name:  "strips bom from first cell",
			input: "\uFEFFID,Name\n1,a\n",
			want:  [][]string{{"ID", "Name"}, {"1", "a"}},
		},
		{
			name:  "trims when asked",
			input: " ID , Name\n 1 ,a \n",
			opt:   Options{TrimSpace: true},
			want:  [][]string{{"ID", "Name"}, {"1", "a"}},
		},
		{
			name:  "keeps spaces by default",
			input: "ID, Name\n",
			want:  [][]string{{"ID", " Name"}},
		},
		{
			name:  "custom delimiter",
			input: "ID;Name\n1;a\n",
			opt:   Options{Comma: ';'},
			want:  [][]string{{"ID", "Name"}, {"1", "a"}},
		},
		{
			name:  "variable width",
			input: "a,b,c\n1\n",
			want:  [][]string{{"a", "b", "c"}, {"1"}},
		},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			src := newFakeRC(c.input)
			var got [][]string
			err := StreamRecords(context.Background(), src, c.opt, func(line int, rec []string) error {
				if line != len(got)+1 {
					t.Errorf("line = %d, want %d", line, len(got)+1)
				}
				got = append(got, append([]string(nil), rec...))
				return nil
			})
			if err != nil {
				t.Fatalf("StreamRecords: %v", err)
			}
			if !reflect.DeepEqual(got, c.want) {
				t.Fatalf("records = %q, want %q", got, c.want)
			}
			if !src.closed {
				t.Fatalf("source was not closed")
			}
		})
	}
}

func TestStreamRecords_CallbackErrorStops(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	err := StreamRecords(context.Background(), newFakeRC("a\nb\nc\n"), Options{}, func(line int, rec []string) error {
		calls++
		if line == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestStreamRecords_MalformedIsFatal(t *testing.T) {
	t.Parallel()

	err := StreamRecords(context.Background(), newFakeRC("a,b\n\"x,y\n"), Options{}, func(int, []string) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("err = %v, want csv read error on line 2", err)
	}
}

func TestStreamRecords_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := StreamRecords(ctx, newFakeRC("a\n"), Options{}, func(int, []string) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestReadDicts(t *testing.T) {
	t.Parallel()

	header, rows, err := ReadDicts(context.Background(), newFakeRC("country,alpha_2\nBurma,\nGermany,DE\nShort\n"), Options{})
	if err != nil {
		t.Fatalf("ReadDicts: %v", err)
	}
	if !reflect.DeepEqual(header, []string{"country", "alpha_2"}) {
		t.Fatalf("header = %q", header)
	}
	want := []Dict{
		{"country": "Burma", "alpha_2": ""},
		{"country": "Germany", "alpha_2": "DE"},
		{"country": "Short", "alpha_2": ""},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %v, want %v", rows, want)
	}
	if err := Require(header, "country", "alpha_2"); err != nil {
		t.Fatalf("Require: %v", err)
	}
	if err := Require(header, "Glottocode"); err == nil {
		t.Fatalf("Require: expected missing column error")
	}
}

func TestReadDicts_Errors(t *testing.T) {
	t.Parallel()

	if _, _, err := ReadDicts(context.Background(), newFakeRC(""), Options{}); err == nil {
		t.Fatalf("empty input: expected error")
	}
	if _, _, err := ReadDicts(context.Background(), newFakeRC("a\n1,2\n"), Options{}); err == nil {
		t.Fatalf("wide record: expected error")
	}
}

func TestHasEdgeSpace(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]bool{"": false, "a": false, " a": true, "a\t": true, "a b": false} {
		if got := HasEdgeSpace(in); got != want {
			t.Errorf("HasEdgeSpace(%q) = %v, want %v", in, got, want)
		}
	}
}
