package knowledge

import (
	_ "embed"
	"fmt"
	"strings"

	"acmedental/models"

	"gopkg.in/yaml.v3"
)

//go:embed faq.yaml
var faqSource []byte

// Answer is a knowledge-base response: the matched category and its
// canonical answer text.
type Answer struct {
	Category string
	Answer   string
}

// KnowledgeService answers clinic FAQs from the static knowledge base.
type KnowledgeService interface {
	Search(question string) Answer
	ClinicInfo() string
	ContactInfo() models.ClinicInfo
}

// DefaultKnowledgeService implements KnowledgeService over the embedded
// FAQ document. Entries keep their document order, which makes the
// tie-break rule deterministic.
type DefaultKnowledgeService struct {
	clinic   models.ClinicInfo
	entries  []models.FAQEntry
	fallback string
}

type faqDocument struct {
	Clinic   models.ClinicInfo `yaml:"clinic"`
	Entries  []models.FAQEntry `yaml:"entries"`
	Fallback string            `yaml:"fallback"`
}

// NewDefaultKnowledgeService parses the embedded knowledge base. The source
// is compiled into the binary, so a parse failure is a programming error.
func NewDefaultKnowledgeService() (*DefaultKnowledgeService, error) {
	var doc faqDocument
	if err := yaml.Unmarshal(faqSource, &doc); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	if len(doc.Entries) == 0 {
		return nil, fmt.Errorf("knowledge base has no entries")
	}
	return &DefaultKnowledgeService{
		clinic:   doc.Clinic,
		entries:  doc.Entries,
		fallback: doc.Fallback,
	}, nil
}

// Search scores each entry by the number of its keywords contained in the
// query and returns the highest-scoring one. Ties resolve to the entry that
// appears first in the knowledge base: a later entry must strictly beat the
// best score to replace it. A zero score falls back to the general answer.
func (s *DefaultKnowledgeService) Search(question string) Answer {
	q := strings.ToLower(question)

	bestScore := 0
	bestIdx := -1
	for i, entry := range s.entries {
		score := 0
		for _, keyword := range entry.Keywords {
			if strings.Contains(q, keyword) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return Answer{Category: "general", Answer: s.fallback}
	}
	return Answer{
		Category: s.entries[bestIdx].Category,
		Answer:   s.entries[bestIdx].Answer,
	}
}

// ClinicInfo returns a formatted clinic summary.
func (s *DefaultKnowledgeService) ClinicInfo() string {
	c := s.clinic
	return fmt.Sprintf(
		"**Acme Dental Clinic Information:**\n"+
			"- Location: %s\n"+
			"- Hours: %s\n"+
			"- Services: %s (%s, %s)\n"+
			"- Contact: %s | %s\n"+
			"- Staff: %s\n"+
			"- Description: %s",
		c.Location, c.Hours, c.Service, c.Duration, c.Price,
		c.ContactEmail, c.ContactPhone, c.Staff, c.Description,
	)
}

// ContactInfo returns the clinic profile for degraded-mode messages.
func (s *DefaultKnowledgeService) ContactInfo() models.ClinicInfo {
	return s.clinic
}
