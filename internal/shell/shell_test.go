package shell

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hibik17/ais-search/internal/domain"
	"github.com/hibik17/ais-search/internal/usecase/query"
)

type fakeSvc struct {
	env     *domain.Envelope
	err     error
	current string

	reqs  []query.SearchRequest
	keys  []string
	texts []string
}

func (f *fakeSvc) Search(_ context.Context, req query.SearchRequest) (*domain.Envelope, error) {
	f.reqs = append(f.reqs, req)
	return f.env, f.err
}

func (f *fakeSvc) SearchByDocument(_ context.Context, key string) (*domain.Envelope, error) {
	f.keys = append(f.keys, key)
	return f.env, f.err
}

func (f *fakeSvc) SearchByText(_ context.Context, text string) (*domain.Envelope, error) {
	f.texts = append(f.texts, text)
	return f.env, f.err
}

func (f *fakeSvc) CurrentModel() string { return f.current }

func (f *fakeSvc) SelectModel(variant string) error {
	if f.err != nil {
		return f.err
	}
	f.current = variant
	return nil
}

func emptyEnvelope() *domain.Envelope {
	env := domain.NewEnvelope()
	env.OK = true
	env.AddMessage("No results. 0 items of x")
	env.Data = []domain.ResultItem{}
	return env
}

func run(t *testing.T, svc *fakeSvc, input string) string {
	t.Helper()
	var out bytes.Buffer
	sh := New(svc, strings.NewReader(input), &out)
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestRun_QuitAndEOF(t *testing.T) {
	svc := &fakeSvc{current: "dm"}

	run(t, svc, "quit\n")
	run(t, svc, "") // bare EOF also ends the loop

	if len(svc.reqs) != 0 {
		t.Errorf("no searches expected, got %v", svc.reqs)
	}
}

func TestRun_SearchArguments(t *testing.T) {
	svc := &fakeSvc{env: emptyEnvelope()}

	run(t, svc, `search robotics ^biology cat=article,author outline="deep learning" model=dbow`+"\n")

	if len(svc.reqs) != 1 {
		t.Fatalf("expected 1 search, got %d", len(svc.reqs))
	}
	req := svc.reqs[0]
	if !reflect.DeepEqual(req.Positive, []string{"robotics"}) {
		t.Errorf("positive = %v", req.Positive)
	}
	if !reflect.DeepEqual(req.Negative, []string{"biology"}) {
		t.Errorf("negative = %v", req.Negative)
	}
	if !reflect.DeepEqual(req.Categories, []string{"article", "author"}) {
		t.Errorf("categories = %v", req.Categories)
	}
	if req.Outline != "deep learning" {
		t.Errorf("outline = %q", req.Outline)
	}
	if req.ModelVariant != "dbow" {
		t.Errorf("model = %q", req.ModelVariant)
	}
}

func TestRun_FullWidthSpaces(t *testing.T) {
	svc := &fakeSvc{env: emptyEnvelope()}

	run(t, svc, "search　ロボット　^生物\n")

	if len(svc.reqs) != 1 {
		t.Fatalf("expected 1 search, got %d", len(svc.reqs))
	}
	if !reflect.DeepEqual(svc.reqs[0].Positive, []string{"ロボット"}) {
		t.Errorf("positive = %v", svc.reqs[0].Positive)
	}
	if !reflect.DeepEqual(svc.reqs[0].Negative, []string{"生物"}) {
		t.Errorf("negative = %v", svc.reqs[0].Negative)
	}
}

func TestRun_Doc(t *testing.T) {
	svc := &fakeSvc{env: emptyEnvelope()}

	out := run(t, svc, "doc ID:12345\ndoc\n")

	if !reflect.DeepEqual(svc.keys, []string{"ID:12345"}) {
		t.Errorf("keys = %v", svc.keys)
	}
	if !strings.Contains(out, "usage: doc KEY") {
		t.Errorf("missing usage line in %q", out)
	}
}

func TestRun_TextKeepsRawRemainder(t *testing.T) {
	svc := &fakeSvc{env: emptyEnvelope()}

	run(t, svc, "text robot arm control\n")

	if !reflect.DeepEqual(svc.texts, []string{"robot arm control"}) {
		t.Errorf("texts = %v", svc.texts)
	}
}

func TestRun_ModelShowAndSwitch(t *testing.T) {
	svc := &fakeSvc{current: "dm"}

	out := run(t, svc, "model\nmodel dbow\n")

	if !strings.Contains(out, "model: dm") {
		t.Errorf("missing current model in %q", out)
	}
	if !strings.Contains(out, "model: dbow") {
		t.Errorf("missing switched model in %q", out)
	}
	if svc.current != "dbow" {
		t.Errorf("current = %s", svc.current)
	}
}

func TestRun_PrintsEnvelope(t *testing.T) {
	env := domain.NewEnvelope()
	env.OK = true
	env.AddMessage("Most similar 2 items of robotics")
	env.Data = []domain.ResultItem{
		{Label: "ID:1", Title: `Yamada, "Robot Arms", Vol.1, 2001-01-01`, Similarity: 0.9123},
		{Label: "ID:2", Title: "ID:2", Similarity: 0.8},
	}
	svc := &fakeSvc{env: env}

	out := run(t, svc, "search robotics\n")

	if !strings.Contains(out, "Most similar 2 items of robotics") {
		t.Errorf("missing summary in %q", out)
	}
	if !strings.Contains(out, "0.9123") || !strings.Contains(out, "Robot Arms") {
		t.Errorf("missing result line in %q", out)
	}
}

func TestRun_ServiceErrorPrinted(t *testing.T) {
	svc := &fakeSvc{err: errors.New("model gone")}

	out := run(t, svc, "search robotics\nsearch again\n")

	if strings.Count(out, "error: model gone") != 2 {
		t.Errorf("errors must be printed and the loop must continue: %q", out)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	svc := &fakeSvc{}

	out := run(t, svc, "frobnicate\n")

	if !strings.Contains(out, "unknown command") {
		t.Errorf("missing diagnostic in %q", out)
	}
}

func TestSplitTokens(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a b  c", []string{"a", "b", "c"}},
		{`a "b c" d`, []string{"a", "b c", "d"}},
		{`outline="deep learning"`, []string{"outline=deep learning"}},
		{`'single quoted'`, []string{"single quoted"}},
		{"", nil},
		{"   ", nil},
	}
	for _, c := range cases {
		got, err := splitTokens(c.in)
		if err != nil {
			t.Errorf("splitTokens(%q): %v", c.in, err)
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("splitTokens(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSplitTokens_UnterminatedQuote(t *testing.T) {
	if _, err := splitTokens(`search "unterminated`); err == nil {
		t.Fatal("expected an error")
	}
}
