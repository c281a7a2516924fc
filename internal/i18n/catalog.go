// Package i18n holds the user-facing strings of the widget API. The widget's
// audience is French; English is served to callers who ask for it.
package i18n

// Locale is a supported UI language.
type Locale string

const (
	LocaleFR Locale = "fr"
	LocaleEN Locale = "en"
)

// DefaultLocale is the widget's primary audience.
const DefaultLocale = LocaleFR

// Key identifies a message in the catalog.
type Key string

const (
	MsgNeedSignup        Key = "need_signup"
	MsgMessageRequired   Key = "message_required"
	MsgFieldsRequired    Key = "fields_required"
	MsgInvalidEmail      Key = "invalid_email"
	MsgDuplicateEmail    Key = "duplicate_email"
	MsgPasswordTooShort  Key = "password_too_short"
	MsgCredentialsNeeded Key = "credentials_required"
	MsgBadCredentials    Key = "bad_credentials"
	MsgUpstreamFailure   Key = "upstream_failure"
	MsgMisconfigured     Key = "misconfigured"
	MsgInternalError     Key = "internal_error"
	MsgSignupOK          Key = "signup_ok"
	MsgLoginOK           Key = "login_ok"
	MsgLogoutOK          Key = "logout_ok"
)

var catalog = map[Key]map[Locale]string{
	MsgNeedSignup: {
		LocaleFR: "Vous avez utilisé vos questions gratuites. Inscrivez-vous pour continuer.",
		LocaleEN: "You have used your free questions. Sign up to continue.",
	},
	MsgMessageRequired: {
		LocaleFR: "Le message est requis",
		LocaleEN: "Message is required",
	},
	MsgFieldsRequired: {
		LocaleFR: "Tous les champs sont obligatoires",
		LocaleEN: "All fields are required",
	},
	MsgInvalidEmail: {
		LocaleFR: "Format d'email invalide",
		LocaleEN: "Invalid email format",
	},
	MsgDuplicateEmail: {
		LocaleFR: "Cette adresse email est déjà inscrite",
		LocaleEN: "This email address is already registered",
	},
	MsgPasswordTooShort: {
		LocaleFR: "Le mot de passe doit contenir au moins 6 caractères",
		LocaleEN: "Password must be at least 6 characters",
	},
	MsgCredentialsNeeded: {
		LocaleFR: "Email et mot de passe requis",
		LocaleEN: "Email and password are required",
	},
	MsgBadCredentials: {
		LocaleFR: "Email ou mot de passe incorrect",
		LocaleEN: "Incorrect email or password",
	},
	MsgUpstreamFailure: {
		LocaleFR: "Erreur lors de la génération de la réponse. Veuillez réessayer.",
		LocaleEN: "Failed to generate a response. Please try again.",
	},
	MsgMisconfigured: {
		LocaleFR: "Configuration manquante. Veuillez contacter l'administrateur.",
		LocaleEN: "Missing configuration. Please contact the administrator.",
	},
	MsgInternalError: {
		LocaleFR: "Erreur interne du serveur",
		LocaleEN: "Internal server error",
	},
	MsgSignupOK: {
		LocaleFR: "Inscription réussie ! Vous pouvez maintenant poser des questions illimitées.",
		LocaleEN: "Signup successful! You can now ask unlimited questions.",
	},
	MsgLoginOK: {
		LocaleFR: "Connexion réussie",
		LocaleEN: "Login successful",
	},
	MsgLogoutOK: {
		LocaleFR: "Déconnexion réussie",
		LocaleEN: "Logout successful",
	},
}

// T returns the message for the locale, falling back to French.
func T(locale Locale, key Key) string {
	msgs, ok := catalog[key]
	if !ok {
		return string(key)
	}
	if msg, ok := msgs[locale]; ok {
		return msg
	}
	return msgs[DefaultLocale]
}

// Normalize maps an arbitrary locale string onto a supported Locale.
func Normalize(locale string) Locale {
	if locale == string(LocaleEN) {
		return LocaleEN
	}
	return LocaleFR
}
