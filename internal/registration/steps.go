package registration

import (
	"strings"

	"sportsreg/internal/taxonomy"
)

// stepDef describes one numbered wizard step: what it is called, which
// payload variant it consumes, and how to validate and merge it.
type stepDef struct {
	name     string
	validate func(p StepPayload) []string
	merge    func(r *Record, p StepPayload)
}

// stepsFor returns the ordered step sequence for a flow. Index i in the
// returned slice is step i+1 in the state machine.
func stepsFor(t UserType) []stepDef {
	if t == UserTypeInstitution {
		return institutionSteps
	}
	return studentSteps
}

var studentSteps = []stepDef{
	{
		name:     "personal_details",
		validate: validatePersonalDetails,
		merge: func(r *Record, p StepPayload) {
			details := *p.PersonalDetails
			// The verified session owns the email; the form cannot change it.
			details.Email = r.Email
			r.PersonalDetails = &details
		},
	},
	{
		name:     "documents",
		validate: validateDocuments,
		merge:    func(r *Record, p StepPayload) { r.Documents = p.Documents },
	},
	{
		name:     "guardian_medical",
		validate: validateGuardianMedical,
		merge:    func(r *Record, p StepPayload) { r.GuardianMedical = p.GuardianMedical },
	},
	{
		name: "sports",
		validate: func(p StepPayload) []string {
			if p.Sports == nil || !hasUsableTuple(p.Sports.Tuples) {
				return []string{"sports"}
			}
			return nil
		},
		merge: func(r *Record, p StepPayload) { r.Sports = p.Sports },
	},
	{
		name:     "review_payment",
		validate: validatePayment,
		merge:    func(r *Record, p StepPayload) { r.Payment = p.Payment },
	},
}

var institutionSteps = []stepDef{
	{
		name:     "institution_details",
		validate: validateInstitutionDetails,
		merge:    func(r *Record, p StepPayload) { r.InstitutionDetails = p.InstitutionDetails },
	},
	{
		name: "sports",
		validate: func(p StepPayload) []string {
			if p.InstitutionSports == nil || !hasUsableTuple(p.InstitutionSports.Tuples) {
				return []string{"sports"}
			}
			return nil
		},
		merge: func(r *Record, p StepPayload) { r.InstitutionSports = p.InstitutionSports },
	},
	{
		name:     "students",
		validate: validateRoster,
		merge:    func(r *Record, p StepPayload) { r.Roster = p.Roster },
	},
	{
		name:     "payment",
		validate: validatePayment,
		merge:    func(r *Record, p StepPayload) { r.Payment = p.Payment },
	},
}

func validatePersonalDetails(p StepPayload) []string {
	if p.PersonalDetails == nil {
		return []string{"full_name", "date_of_birth", "gender"}
	}
	var missing []string
	if strings.TrimSpace(p.PersonalDetails.FullName) == "" {
		missing = append(missing, "full_name")
	}
	if p.PersonalDetails.DateOfBirth.IsZero() {
		missing = append(missing, "date_of_birth")
	}
	switch p.PersonalDetails.Gender {
	case taxonomy.GenderMale, taxonomy.GenderFemale, taxonomy.GenderOpen:
	default:
		missing = append(missing, "gender")
	}
	return missing
}

func validateDocuments(p StepPayload) []string {
	if p.Documents == nil {
		return []string{"documents"}
	}
	for _, doc := range p.Documents.Items {
		if strings.TrimSpace(doc.Reference) != "" {
			return nil
		}
	}
	return []string{"documents"}
}

func validateGuardianMedical(p StepPayload) []string {
	if p.GuardianMedical == nil {
		return []string{"guardian_name", "guardian_phone", "emergency_contact_name", "emergency_contact_phone"}
	}
	var missing []string
	if strings.TrimSpace(p.GuardianMedical.Guardian.Name) == "" {
		missing = append(missing, "guardian_name")
	}
	if strings.TrimSpace(p.GuardianMedical.Guardian.Phone) == "" {
		missing = append(missing, "guardian_phone")
	}
	if strings.TrimSpace(p.GuardianMedical.EmergencyContact.Name) == "" {
		missing = append(missing, "emergency_contact_name")
	}
	if strings.TrimSpace(p.GuardianMedical.EmergencyContact.Phone) == "" {
		missing = append(missing, "emergency_contact_phone")
	}
	return missing
}

func validateInstitutionDetails(p StepPayload) []string {
	if p.InstitutionDetails == nil {
		return []string{"name", "type", "contact_name", "contact_phone", "contact_email"}
	}
	var missing []string
	details := p.InstitutionDetails
	if strings.TrimSpace(details.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(details.Type) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(details.ContactName) == "" {
		missing = append(missing, "contact_name")
	}
	if strings.TrimSpace(details.ContactPhone) == "" {
		missing = append(missing, "contact_phone")
	}
	if strings.TrimSpace(details.ContactEmail) == "" {
		missing = append(missing, "contact_email")
	}
	return missing
}

func validateRoster(p StepPayload) []string {
	if p.Roster == nil || len(p.Roster.Entries) == 0 {
		return []string{"students"}
	}
	for _, entry := range p.Roster.Entries {
		if strings.TrimSpace(entry.Name) == "" || entry.Age <= 0 {
			return []string{"students"}
		}
	}
	return nil
}

// validatePayment checks only that a mode was chosen; the mode-specific
// fields are the settlement selector's contract and are validated there when
// the final step runs.
func validatePayment(p StepPayload) []string {
	if p.Payment == nil || p.Payment.Settlement.Mode == "" {
		return []string{"settlement_mode"}
	}
	return nil
}

// hasUsableTuple reports whether at least one tuple names both a sport and a
// subcategory, the minimum a selection row must carry.
func hasUsableTuple(tuples []taxonomy.TupleRef) bool {
	for _, tuple := range tuples {
		if tuple.SportID != "" && tuple.SubCategoryID != "" {
			return true
		}
	}
	return false
}
