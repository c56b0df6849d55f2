// Package shell is an interactive console over the search service.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hibik17/ais-search/internal/domain"
	"github.com/hibik17/ais-search/internal/usecase/query"
)

// SearchService is the slice of the query service the shell drives.
type SearchService interface {
	Search(ctx context.Context, req query.SearchRequest) (*domain.Envelope, error)
	SearchByDocument(ctx context.Context, key string) (*domain.Envelope, error)
	SearchByText(ctx context.Context, text string) (*domain.Envelope, error)
	CurrentModel() string
	SelectModel(variant string) error
}

const prompt = "ais> "

const helpText = `Commands:
  search TERM... [^TERM...] [cat=NAME,...] [outline="TEXT"]
        Composed search. ^ marks a negative term.
  doc KEY
        Neighbors of one document key (e.g. ID:12345).
  text FREE TEXT...
        Neighbors of an inferred vector for free text.
  model [VARIANT]
        Show or switch the embedding model (dm, dbow).
  help
        This message.
  quit
        Leave the shell.`

// Shell reads commands line by line and prints result envelopes.
type Shell struct {
	svc SearchService
	in  io.Reader
	out io.Writer
}

// New creates a shell over the given streams.
func New(svc SearchService, in io.Reader, out io.Writer) *Shell {
	return &Shell{svc: svc, in: in, out: out}
}

// Run loops until EOF or the quit command. Command errors are printed,
// never returned; only a read failure ends the loop with an error.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		line := normalize(scanner.Text())
		tokens, err := splitTokens(line)
		if err != nil {
			fmt.Fprintf(s.out, "parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		cmd, args := tokens[0], tokens[1:]
		switch cmd {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(s.out, helpText)
		case "search":
			s.runSearch(ctx, args)
		case "doc":
			s.runDoc(ctx, args)
		case "text":
			s.runText(ctx, line)
		case "model":
			s.runModel(args)
		default:
			fmt.Fprintf(s.out, "unknown command %q, try help\n", cmd)
		}
	}
}

func (s *Shell) runSearch(ctx context.Context, args []string) {
	req := query.SearchRequest{}
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "^"):
			if t := arg[1:]; t != "" {
				req.Negative = append(req.Negative, t)
			}
		case strings.HasPrefix(arg, "cat="):
			for _, c := range strings.Split(arg[len("cat="):], ",") {
				if c != "" {
					req.Categories = append(req.Categories, c)
				}
			}
		case strings.HasPrefix(arg, "outline="):
			req.Outline = arg[len("outline="):]
		case strings.HasPrefix(arg, "model="):
			req.ModelVariant = arg[len("model="):]
		default:
			req.Positive = append(req.Positive, arg)
		}
	}

	env, err := s.svc.Search(ctx, req)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.printEnvelope(env)
}

func (s *Shell) runDoc(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: doc KEY")
		return
	}
	env, err := s.svc.SearchByDocument(ctx, args[0])
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.printEnvelope(env)
}

func (s *Shell) runText(ctx context.Context, line string) {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "text"))
	if text == "" {
		fmt.Fprintln(s.out, "usage: text FREE TEXT...")
		return
	}
	env, err := s.svc.SearchByText(ctx, text)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.printEnvelope(env)
}

func (s *Shell) runModel(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "model: %s\n", s.svc.CurrentModel())
		return
	}
	if err := s.svc.SelectModel(args[0]); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "model: %s\n", s.svc.CurrentModel())
}

func (s *Shell) printEnvelope(env *domain.Envelope) {
	for _, msg := range env.Message {
		fmt.Fprintln(s.out, msg)
	}
	for i, item := range env.Data {
		fmt.Fprintf(s.out, "%3d  %.4f  %s\n", i+1, item.Similarity, item.Title)
	}
}

// normalize replaces full-width spaces so Japanese input splits like
// ASCII input.
func normalize(line string) string {
	return strings.ReplaceAll(line, "　", " ")
}

// splitTokens splits on whitespace, keeping single- or double-quoted
// runs together. Quotes may start mid-token (outline="deep learning").
func splitTokens(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inToken := false
	var quote rune

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}
