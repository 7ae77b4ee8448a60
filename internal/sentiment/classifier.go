// Package sentiment labels mention text by tallying fixed positive and negative phrases.
package sentiment

import (
	"strings"

	"github.com/azure/mentions-sentiment-report/internal/models"
)

// PositivePhrases are matched by substring containment against lower-cased text
var PositivePhrases = []string{
	"bom", "boa", "ótimo", "excelente", "gostei", "recomendo", "rápido",
	"funciona", "atendimento bom", "resolveram", "solucionou", "eficiente",
	"qualidade", "estável", "conseguiu", "parabéns", "obrigado", "thanks",
	"resolveu", "sucesso", "feliz", "satisfeito", "content", "top", "show",
}

// NegativePhrases are matched by substring containment against lower-cased text
var NegativePhrases = []string{
	"ruim", "péssimo", "horrível", "lento", "não funciona", "problema",
	"reclamação", "lentidão", "queda", "indisponível", "horrivel", "pessimo",
	"atendimento ruim", "não resolve", "insatisfeito", "decepcionado",
	"reclamo", "reclamar", "procop", "procon", "processo", "processar",
	"cancelar", "cancelamento", "odeio", "péssima", "nunca mais", "detesto",
	"incapaz", "incompetente", "vergonha", "absurdo", "inaceitável",
}

// Classifier labels text using a pair of phrase lists
type Classifier struct {
	positive []string
	negative []string
}

// NewClassifier creates a classifier over the given phrase lists.
// Phrases are expected in lower case.
func NewClassifier(positive, negative []string) *Classifier {
	return &Classifier{positive: positive, negative: negative}
}

var defaultClassifier = NewClassifier(PositivePhrases, NegativePhrases)

// Classify labels text with the default phrase lists
func Classify(text string) models.Sentiment {
	return defaultClassifier.Classify(text)
}

// Classify returns Positive or Negative when one list has strictly more hits, Neutral otherwise.
// There is no word-boundary check, so a phrase embedded in a longer word still counts.
func (c *Classifier) Classify(text string) models.Sentiment {
	if strings.TrimSpace(text) == "" {
		return models.Neutral
	}

	text = strings.ToLower(text)

	positiveCount := countContained(text, c.positive)
	negativeCount := countContained(text, c.negative)

	if positiveCount > negativeCount {
		return models.Positive
	} else if negativeCount > positiveCount {
		return models.Negative
	}

	return models.Neutral
}

func countContained(text string, phrases []string) int {
	count := 0
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			count++
		}
	}
	return count
}
