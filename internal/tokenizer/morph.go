package tokenizer

import (
	"fmt"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Morph is a Japanese morphological tokenizer backed by kagome with the IPA
// dictionary. The canonical base form is preferred over the surface form, so
// inflected words resolve to the lemma the models were trained on.
type Morph struct {
	t *tokenizer.Tokenizer
}

// NewMorph creates a morphological tokenizer.
func NewMorph() (*Morph, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("create morphological tokenizer: %w", err)
	}
	return &Morph{t: t}, nil
}

// Tokenize analyzes the text and returns one token per morpheme.
func (m *Morph) Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}
	toks := m.t.Tokenize(text)
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		if base, ok := tok.BaseForm(); ok && base != "*" {
			out = append(out, base)
			continue
		}
		if tok.Surface != "" {
			out = append(out, tok.Surface)
		}
	}
	return out
}
