package moderation

// Category codes emitted by the safety model, mapped to the reason shown on
// a removed message.
const (
	CategoryViolentCrimes          = "S1"
	CategoryNonViolentCrimes       = "S2"
	CategorySexRelatedCrimes       = "S3"
	CategoryChildExploitation      = "S4"
	CategoryDefamation             = "S5"
	CategorySpecializedAdvice      = "S6"
	CategoryPrivacyViolation       = "S7"
	CategoryIntellectualProperty   = "S8"
	CategoryIndiscriminateWeapons  = "S9"
	CategoryHateSpeech             = "S10"
	CategorySelfHarm               = "S11"
	CategorySexualContent          = "S12"
	CategoryElections              = "S13"
	CategoryCodeInterpreterAbuse   = "S14"
)

// ReasonUnknown is used when the model returns a category code outside the
// known set. The message is still removed; only the human-readable reason
// degrades to a generic one.
const ReasonUnknown = "Flagged content"

var reasons = map[string]string{
	CategoryViolentCrimes:         "Violent Crimes",
	CategoryNonViolentCrimes:      "Non-Violent Crimes",
	CategorySexRelatedCrimes:      "Sex-Related Crimes",
	CategoryChildExploitation:     "Child Sexual Exploitation",
	CategoryDefamation:            "Defamation",
	CategorySpecializedAdvice:     "Specialized Advice",
	CategoryPrivacyViolation:      "Privacy Violation",
	CategoryIntellectualProperty:  "Intellectual Property",
	CategoryIndiscriminateWeapons: "Indiscriminate Weapons",
	CategoryHateSpeech:            "Hate Speech",
	CategorySelfHarm:              "Suicide & Self-Harm",
	CategorySexualContent:         "Sexual Content",
	CategoryElections:             "Elections",
	CategoryCodeInterpreterAbuse:  "Code Interpreter Abuse",
}

// ReasonForCode maps a category code to its human-readable reason.
func ReasonForCode(code string) string {
	if reason, ok := reasons[code]; ok {
		return reason
	}
	return ReasonUnknown
}
