// Package locale holds the response message catalogs. The supported set is
// en, ro and hu; anything else silently falls back to the default.
package locale

const DefaultLocale = "en"

var supported = map[string]bool{"en": true, "ro": true, "hu": true}

var catalogs = map[string]map[string]string{
	"en": {
		"auth.failed":               "These credentials do not match our records.",
		"auth.login_success":        "Login successful",
		"auth.logout_success":       "Logged out successfully",
		"auth.registration_success": "Registration successful",
		"products.created":          "Product created successfully",
		"products.updated":          "Product updated successfully",
		"products.deleted":          "Product deleted successfully.",
		"products.not_found":        "Product not found",
		"products.gallery_full":     "The product gallery is full",
		"products.image_added":      "Image added successfully",
		"products.image_deleted":    "Image deleted successfully",
		"products.images_reordered": "Images reordered successfully",
		"spaces.created":            "Space created successfully",
		"spaces.updated":            "Space updated successfully",
		"spaces.deleted":            "Space deleted successfully",
		"spaces.not_found":          "Space not found",
		"spaces.unauthorized":       "You do not have permission to perform this action",
		"spaces.user_assigned":      "User assigned successfully",
		"spaces.user_role_updated":  "User role updated successfully",
		"spaces.user_removed":       "User removed successfully",
		"user.updated":              "Profile updated successfully",
		"user.password_updated":     "Password updated successfully",
		"user.password_incorrect":   "Current password is incorrect",
		"user.account_deleted":      "Account deleted successfully",
		"orders.created":            "Order created successfully",
	},
	"ro": {
		"auth.failed":               "Aceste date de autentificare nu corespund înregistrărilor noastre.",
		"auth.login_success":        "Autentificare reușită",
		"auth.logout_success":       "Deconectare reușită",
		"auth.registration_success": "Înregistrare reușită",
		"products.created":          "Produs creat cu succes",
		"products.updated":          "Produs actualizat cu succes",
		"products.deleted":          "Produs șters cu succes.",
		"products.not_found":        "Produsul nu a fost găsit",
		"products.gallery_full":     "Galeria produsului este plină",
		"products.image_added":      "Imagine adăugată cu succes",
		"products.image_deleted":    "Imagine ștearsă cu succes",
		"products.images_reordered": "Imagini reordonate cu succes",
		"spaces.created":            "Spațiu creat cu succes",
		"spaces.updated":            "Spațiu actualizat cu succes",
		"spaces.deleted":            "Spațiu șters cu succes",
		"spaces.not_found":          "Spațiul nu a fost găsit",
		"spaces.unauthorized":       "Nu aveți permisiunea de a efectua această acțiune",
		"spaces.user_assigned":      "Utilizator atribuit cu succes",
		"spaces.user_role_updated":  "Rolul utilizatorului a fost actualizat cu succes",
		"spaces.user_removed":       "Utilizator eliminat cu succes",
		"user.updated":              "Profil actualizat cu succes",
		"user.password_updated":     "Parolă actualizată cu succes",
		"user.password_incorrect":   "Parola curentă este incorectă",
		"user.account_deleted":      "Cont șters cu succes",
		"orders.created":            "Comandă creată cu succes",
	},
	"hu": {
		"auth.failed":               "Ezek a hitelesítő adatok nem egyeznek a nyilvántartásunkkal.",
		"auth.login_success":        "Sikeres bejelentkezés",
		"auth.logout_success":       "Sikeres kijelentkezés",
		"auth.registration_success": "Sikeres regisztráció",
		"products.created":          "Termék sikeresen létrehozva",
		"products.updated":          "Termék sikeresen frissítve",
		"products.deleted":          "Termék sikeresen törölve.",
		"products.not_found":        "A termék nem található",
		"products.gallery_full":     "A termék galériája megtelt",
		"products.image_added":      "Kép sikeresen hozzáadva",
		"products.image_deleted":    "Kép sikeresen törölve",
		"products.images_reordered": "Képek sikeresen átrendezve",
		"spaces.created":            "Hely sikeresen létrehozva",
		"spaces.updated":            "Hely sikeresen frissítve",
		"spaces.deleted":            "Hely sikeresen törölve",
		"spaces.not_found":          "A hely nem található",
		"spaces.unauthorized":       "Nincs jogosultsága a művelet végrehajtásához",
		"spaces.user_assigned":      "Felhasználó sikeresen hozzárendelve",
		"spaces.user_role_updated":  "A felhasználó szerepköre sikeresen frissítve",
		"spaces.user_removed":       "Felhasználó sikeresen eltávolítva",
		"user.updated":              "Profil sikeresen frissítve",
		"user.password_updated":     "Jelszó sikeresen frissítve",
		"user.password_incorrect":   "A jelenlegi jelszó helytelen",
		"user.account_deleted":      "Fiók sikeresen törölve",
		"orders.created":            "Rendelés sikeresen létrehozva",
	},
}

// Supported reports whether the 2-char locale code is in the supported set
func Supported(code string) bool {
	return supported[code]
}

// Negotiate resolves an Accept-Language header value to a supported locale.
// Only the first two characters are considered; unsupported values fall back
// to the default.
func Negotiate(acceptLanguage string) string {
	if len(acceptLanguage) < 2 {
		return DefaultLocale
	}
	code := acceptLanguage[:2]
	if Supported(code) {
		return code
	}
	return DefaultLocale
}

// T returns the message for key in the given locale, falling back to the
// default catalog and finally to the key itself.
func T(loc, key string) string {
	if msgs, ok := catalogs[loc]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[DefaultLocale][key]; ok {
		return msg
	}
	return key
}
