package schema

// Sections and keys the tool treats specially.
const (
	SectionMovement = "MovementParams"
	SectionStamina  = "StaminaPerAction"
	SectionAiming   = "Aiming"

	KeyTurnRate        = "BaseTurnRate"
	KeyLookUpRate      = "BaseLookUpRate"
	KeySyncTurnRate    = "SyncTurnRate"
	KeySafeZoneStamina = "SpendStaminaInSafeZone"
)

var (
	TurnRate   = Ref{Section: SectionMovement, Key: KeyTurnRate}
	LookUpRate = Ref{Section: SectionMovement, Key: KeyLookUpRate}
	SyncAiming = Ref{Section: SectionAiming, Key: KeySyncTurnRate}
)

// DefaultLanguage selects the base default-value file.
const DefaultLanguage = "en"

// BaseFile is the default-value source used for DefaultLanguage and as the
// fallback for every other language.
const BaseFile = "default_values.ini"

var languageSuffixes = map[string]string{
	"korean":    "ko",
	"russian":   "ru",
	"ukrainian": "uk",
	"chinese":   "zh",
}

// LanguageFile returns the default-value file name for a language code.
func LanguageFile(language string) string {
	if language == "" || language == DefaultLanguage {
		return BaseFile
	}
	suffix, ok := languageSuffixes[language]
	if !ok {
		suffix = language
	}
	return "default_values_" + suffix + ".ini"
}
