package generator

import (
	"fmt"
	"strings"

	"gabinete-digital/models"
)

const draftTemplate = `Act as an experienced legal advisor to the Municipal Chamber of %s.
Write a complete draft of the following document type: %s.
The document is authored by Council Member %s.
Subject and instructions from the author: %s

GOLDEN RULES:
%s
Add a convincing Justification section at the end.
Do not use bold markdown (**) anywhere in the text, so it can be copied and pasted as is.`

const revisionTemplate = `Act as an experienced legal advisor to the Municipal Chamber of %s.
Below is the current draft of a %s authored by Council Member %s.

CURRENT DRAFT:
%s

REQUESTED CHANGES:
%s

Rewrite the document applying the requested changes. Return the complete new text, not only
the changed parts, and keep the overall structure of the current draft.
Do not use bold markdown (**) anywhere in the text.`

// structureRules returns the numbered structural rules for a document type.
func structureRules(docType models.DocumentType) []string {
	var rules []string

	if docType == models.DocBill {
		rules = append(rules,
			"Structure the text in ARTICLES (Art. 1, Art. 2, ...), with paragraphs and items. Use normative language.",
			"Close with the standard clauses: the law enters into force on the date of its publication, and provisions to the contrary are revoked.",
		)
	} else {
		rules = append(rules,
			"Do NOT use articles. Write RUNNING PROSE, direct and objective. Start with: 'The undersigned Council Member requests of the competent Department...'",
		)
	}

	if docType == models.DocRequestForInformation {
		rules = append(rules, "List the questions being asked clearly, one per line.")
	}

	return rules
}

// BuildDraftPrompt builds the first-generation prompt.
func BuildDraftPrompt(municipality, author string, docType models.DocumentType, subject string) string {
	return fmt.Sprintf(draftTemplate,
		municipality,
		docType,
		author,
		strings.TrimSpace(subject),
		numbered(structureRules(docType)),
	)
}

// BuildRevisionPrompt embeds the whole prior draft and the instruction.
func BuildRevisionPrompt(municipality, author string, docType models.DocumentType, priorText, instruction string) string {
	return fmt.Sprintf(revisionTemplate,
		municipality,
		docType,
		author,
		priorText,
		strings.TrimSpace(instruction),
	)
}

func numbered(rules []string) string {
	var b strings.Builder
	for i, r := range rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	return strings.TrimRight(b.String(), "\n")
}
