package ai

import (
	"fmt"
	"strings"

	"clinic-records-server/internal/models"
)

const systemPrompt = "You are a clinical assistant. Summarize the patient's treatment " +
	"history for a practitioner: key conditions, procedures, medications and open " +
	"follow-ups, in plain prose. Do not invent findings that are not in the history."

// BuildSummaryPrompt flattens a patient's treatment history into the user
// prompt sent to the inference API. Treatments are listed in the order given.
func BuildSummaryPrompt(patient models.Patient, treatments []models.Treatment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Patient: %s\n", patient.FullName())
	if !patient.DateOfBirth.IsZero() {
		fmt.Fprintf(&b, "Date of birth: %s\n", patient.DateOfBirth.Format("2006-01-02"))
	}
	if patient.Allergies != "" {
		fmt.Fprintf(&b, "Known allergies: %s\n", patient.Allergies)
	}
	if patient.MedicalHistory != "" {
		fmt.Fprintf(&b, "Medical history: %s\n", patient.MedicalHistory)
	}

	b.WriteString("\nTreatment history:\n")
	for _, t := range treatments {
		fmt.Fprintf(&b, "- [%s] %s: %s", t.TreatmentDate, t.TreatmentType, t.Title)
		if t.Description != "" {
			fmt.Fprintf(&b, " - %s", t.Description)
		}
		if t.Notes != "" {
			fmt.Fprintf(&b, " (notes: %s)", t.Notes)
		}
		b.WriteByte('\n')
	}

	return b.String()
}
